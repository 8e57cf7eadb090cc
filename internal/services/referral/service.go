// Package referral pays the one-time bonus when a referred user completes
// their first date order.
package referral

import (
	"context"
	"errors"
	"fmt"
	"log"

	"dinedate/internal/models"
	"dinedate/internal/repositories"
	"dinedate/internal/services/notification"
	"dinedate/internal/services/wallet"
)

// Bonus amounts in minor currency units.
const (
	ReferrerBonus int64 = 50000
	ReferredBonus int64 = 30000
)

type Service interface {
	// OnFirstCompletion checks whether orderID is userID's first
	// completed date order and, if the user was referred, pays both
	// bonuses exactly once. Returns whether a reward was paid.
	OnFirstCompletion(ctx context.Context, userID, orderID uint) (bool, error)
}

type service struct {
	users    repositories.UserRepository
	orders   repositories.OrderRepository
	ledger   wallet.Service
	notifier notification.Dispatcher
}

func NewService(users repositories.UserRepository, orders repositories.OrderRepository, ledger wallet.Service, notifier notification.Dispatcher) Service {
	if users == nil {
		panic("user repository is required")
	}
	if orders == nil {
		panic("order repository is required")
	}
	if ledger == nil {
		panic("wallet ledger is required")
	}
	if notifier == nil {
		notifier = notification.NewLogDispatcher()
	}
	return &service{users: users, orders: orders, ledger: ledger, notifier: notifier}
}

func (s *service) OnFirstCompletion(ctx context.Context, userID, orderID uint) (bool, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return false, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	if user.ReferrerID == nil {
		return false, nil
	}

	// Count includes the order just completed; exactly one means this is
	// the first.
	completed, err := s.orders.CountCompletedForUser(userID)
	if err != nil {
		return false, err
	}
	if completed != 1 {
		return false, nil
	}

	if _, err := s.users.FindRewardByReferred(userID); err == nil {
		return false, nil // already paid on an earlier completion
	} else if !errors.Is(err, repositories.ErrRewardNotFound) {
		return false, err
	}

	referrerID := *user.ReferrerID

	// Direct balance credits, not escrow operations: no hold preceded
	// them. Each credit is idempotent on (user, order, referral_bonus).
	if err := s.ledger.CreditBonus(ctx, referrerID, orderID, ReferrerBonus,
		fmt.Sprintf("Referral bonus for user %d's first completed date", userID)); err != nil {
		return false, err
	}
	if err := s.ledger.CreditBonus(ctx, userID, orderID, ReferredBonus,
		"Welcome bonus for your first completed date"); err != nil {
		return false, err
	}

	reward := &models.ReferralReward{
		ReferrerID:    referrerID,
		ReferredID:    userID,
		OrderID:       orderID,
		ReferrerBonus: ReferrerBonus,
		ReferredBonus: ReferredBonus,
		Status:        "completed",
	}
	if err := s.users.CreateReward(reward); err != nil {
		if errors.Is(err, repositories.ErrDuplicateRecord) {
			return false, nil // concurrent trigger already recorded it
		}
		return false, err
	}

	for uid, amount := range map[uint]int64{referrerID: ReferrerBonus, userID: ReferredBonus} {
		if err := s.notifier.Notify(ctx, uid, notification.EventReferralBonus,
			"Referral bonus", fmt.Sprintf("You received a %d bonus", amount),
			map[string]interface{}{"order_id": orderID}); err != nil {
			log.Printf("notify failed for referral reward on order %d: %v", orderID, err)
		}
	}
	return true, nil
}
