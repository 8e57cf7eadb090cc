// Package topup funds wallets from an external card via Stripe. The
// charge is captured first; only a successful charge credits the ledger.
package topup

import (
	"context"
	"errors"
	"fmt"

	"dinedate/internal/models"
	"dinedate/internal/services/wallet"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/charge"
)

var ErrChargeFailed = errors.New("card charge failed")

type Service interface {
	TopUp(ctx context.Context, userID uint, cardToken string, amount int64) (*models.Wallet, error)
}

type service struct {
	ledger wallet.Service
}

// NewService creates the top-up service. The Stripe secret key is set
// process-wide by the caller.
func NewService(ledger wallet.Service, stripeKey string) Service {
	if ledger == nil {
		panic("wallet ledger is required")
	}
	if stripeKey != "" {
		stripe.Key = stripeKey
	}
	return &service{ledger: ledger}
}

func (s *service) TopUp(ctx context.Context, userID uint, cardToken string, amount int64) (*models.Wallet, error) {
	if amount <= 0 {
		return nil, wallet.ErrInvalidAmount
	}

	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(amount),
		Currency:    stripe.String("vnd"),
		Description: stripe.String(fmt.Sprintf("Wallet top-up for user %d", userID)),
	}
	params.Context = ctx
	if err := params.SetSource(cardToken); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChargeFailed, err)
	}
	ch, err := charge.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChargeFailed, err)
	}

	if err := s.ledger.Credit(ctx, userID, amount, ch.ID, "Wallet top-up"); err != nil {
		return nil, err
	}
	return s.ledger.GetWallet(ctx, userID)
}
