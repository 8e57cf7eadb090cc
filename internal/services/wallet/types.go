package wallet

import (
	"context"

	"dinedate/internal/models"
	"dinedate/internal/repositories"
)

// Service is the wallet ledger. It is the only component allowed to
// mutate balance and escrow; every mutation is paired with an append-only
// Transaction row written in the same database transaction. Hold,
// Release, Settle and CreditBonus are idempotent under the
// (userID, orderID, type) key so crashed or duplicated settlement runs
// replay as no-ops.
type Service interface {
	CreateWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)

	// Hold moves amount from balance to escrow against orderID. Fails
	// with ErrInsufficientFunds leaving zero trace.
	Hold(ctx context.Context, userID, orderID uint, amount int64) error
	// HoldTx is Hold running against a caller-supplied repository, so an
	// accept can make the hold part of its own transaction boundary.
	HoldTx(repo repositories.WalletRepository, userID, orderID uint, amount int64) error

	// Release returns the escrow held for orderID to balance. A missing
	// hold or an already-written refund makes it a no-op returning 0.
	Release(ctx context.Context, userID, orderID uint) (int64, error)

	// Settle moves the escrow held for orderID out to an external payee.
	Settle(ctx context.Context, userID, orderID uint, amount int64, payee string, metadata models.JSON) error

	// CreditBonus credits balance directly (no escrow involved), keyed on
	// orderID for idempotency. Used by the referral reward trigger.
	CreditBonus(ctx context.Context, userID, orderID uint, amount int64, description string) error

	// Credit adds funds to balance outside any order (wallet top-up).
	Credit(ctx context.Context, userID uint, amount int64, reference, description string) error

	Transactions(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, error)

	// InvalidateCache drops the cached wallet after a mutation performed
	// through HoldTx inside a caller-owned transaction.
	InvalidateCache(ctx context.Context, userID uint)
}

// Cache is the wallet read-cache the service invalidates after every
// mutation.
type Cache interface {
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, bool)
	SetWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, userID uint) error
}

// NoopCache is used where no redis is wired (worker binary, tests).
type NoopCache struct{}

func (NoopCache) GetWallet(context.Context, uint) (*models.Wallet, bool) { return nil, false }
func (NoopCache) SetWallet(context.Context, *models.Wallet) error        { return nil }
func (NoopCache) InvalidateWallet(context.Context, uint) error           { return nil }
