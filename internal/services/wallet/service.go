package wallet

import (
	"context"
	"errors"
	"fmt"
	"log"

	"dinedate/internal/models"
	"dinedate/internal/repositories"

	"github.com/google/uuid"
)

type service struct {
	repo  repositories.WalletRepository
	cache Cache
}

// NewService creates the wallet ledger service.
func NewService(repo repositories.WalletRepository, cache Cache) Service {
	if repo == nil {
		panic("repo is required")
	}
	if cache == nil {
		cache = NoopCache{}
	}
	return &service{repo: repo, cache: cache}
}

func (s *service) CreateWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	wallet := &models.Wallet{UserID: userID}
	if err := s.repo.Create(wallet); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	s.cache.SetWallet(ctx, wallet)
	return wallet, nil
}

func (s *service) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	if wallet, ok := s.cache.GetWallet(ctx, userID); ok {
		return wallet, nil
	}
	wallet, err := s.repo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	s.cache.SetWallet(ctx, wallet)
	return wallet, nil
}

func (s *service) Hold(ctx context.Context, userID, orderID uint, amount int64) error {
	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		return s.HoldTx(tx, userID, orderID, amount)
	})
	if err != nil {
		return err
	}
	s.cache.InvalidateWallet(ctx, userID)
	return nil
}

func (s *service) HoldTx(repo repositories.WalletRepository, userID, orderID uint, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	// Idempotency: an existing hold for this (user, order) means a retry.
	if _, err := repo.FindTransaction(userID, orderID, models.TransactionTypeEscrowHold); err == nil {
		return nil
	} else if !errors.Is(err, repositories.ErrTransactionNotFound) {
		return err
	}

	wallet, err := repo.GetByUserIDForUpdate(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return ErrWalletNotFound
		}
		return err
	}
	if wallet.Balance < amount {
		return ErrInsufficientFunds
	}

	wallet.Balance -= amount
	wallet.Escrow += amount
	if err := repo.Save(wallet); err != nil {
		return err
	}

	oid := orderID
	return repo.CreateTransaction(&models.Transaction{
		UserID:      userID,
		OrderID:     &oid,
		Type:        models.TransactionTypeEscrowHold,
		Amount:      amount,
		Reference:   uuid.NewString(),
		Description: fmt.Sprintf("Escrow hold for date order %d", orderID),
	})
}

func (s *service) Release(ctx context.Context, userID, orderID uint) (int64, error) {
	var released int64
	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		hold, err := tx.FindTransaction(userID, orderID, models.TransactionTypeEscrowHold)
		if err != nil {
			if errors.Is(err, repositories.ErrTransactionNotFound) {
				return nil // nothing held, nothing to do
			}
			return err
		}
		if _, err := tx.FindTransaction(userID, orderID, models.TransactionTypeRefund); err == nil {
			return nil // already released
		} else if !errors.Is(err, repositories.ErrTransactionNotFound) {
			return err
		}
		if _, err := tx.FindTransaction(userID, orderID, models.TransactionTypeDatePayment); err == nil {
			return nil // already settled, must not refund on top
		} else if !errors.Is(err, repositories.ErrTransactionNotFound) {
			return err
		}

		wallet, err := tx.GetByUserIDForUpdate(userID)
		if err != nil {
			return err
		}

		amount := hold.Amount
		if wallet.Escrow < amount {
			// Escrow going negative means a hold was replayed without its
			// idempotency match; floor and keep going.
			log.Printf("ERROR: escrow underflow releasing order %d for user %d: escrow=%d release=%d",
				orderID, userID, wallet.Escrow, amount)
			wallet.Escrow = 0
		} else {
			wallet.Escrow -= amount
		}
		wallet.Balance += amount
		if err := tx.Save(wallet); err != nil {
			return err
		}

		oid := orderID
		if err := tx.CreateTransaction(&models.Transaction{
			UserID:      userID,
			OrderID:     &oid,
			Type:        models.TransactionTypeRefund,
			Amount:      amount,
			Reference:   uuid.NewString(),
			Description: fmt.Sprintf("Escrow released for date order %d", orderID),
		}); err != nil {
			return err
		}
		released = amount
		return nil
	})
	if err != nil {
		return 0, err
	}
	if released > 0 {
		s.cache.InvalidateWallet(ctx, userID)
	}
	return released, nil
}

func (s *service) Settle(ctx context.Context, userID, orderID uint, amount int64, payee string, metadata models.JSON) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	var settled bool
	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		if _, err := tx.FindTransaction(userID, orderID, models.TransactionTypeDatePayment); err == nil {
			return nil // duplicate sweep, already settled
		} else if !errors.Is(err, repositories.ErrTransactionNotFound) {
			return err
		}

		wallet, err := tx.GetByUserIDForUpdate(userID)
		if err != nil {
			if errors.Is(err, repositories.ErrWalletNotFound) {
				return ErrWalletNotFound
			}
			return err
		}

		if wallet.Escrow < amount {
			log.Printf("ERROR: escrow underflow settling order %d for user %d: escrow=%d settle=%d",
				orderID, userID, wallet.Escrow, amount)
			wallet.Escrow = 0
		} else {
			wallet.Escrow -= amount
		}
		if err := tx.Save(wallet); err != nil {
			return err
		}

		if metadata == nil {
			metadata = models.JSON{}
		}
		metadata["payee"] = payee

		oid := orderID
		if err := tx.CreateTransaction(&models.Transaction{
			UserID:      userID,
			OrderID:     &oid,
			Type:        models.TransactionTypeDatePayment,
			Amount:      amount,
			Reference:   uuid.NewString(),
			Description: fmt.Sprintf("Date order %d settled to %s", orderID, payee),
			Metadata:    metadata,
		}); err != nil {
			return err
		}
		settled = true
		return nil
	})
	if err != nil {
		return err
	}
	if settled {
		s.cache.InvalidateWallet(ctx, userID)
	}
	return nil
}

func (s *service) CreditBonus(ctx context.Context, userID, orderID uint, amount int64, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		if _, err := tx.FindTransaction(userID, orderID, models.TransactionTypeReferralBonus); err == nil {
			return nil
		} else if !errors.Is(err, repositories.ErrTransactionNotFound) {
			return err
		}

		wallet, err := tx.GetByUserIDForUpdate(userID)
		if err != nil {
			if errors.Is(err, repositories.ErrWalletNotFound) {
				return ErrWalletNotFound
			}
			return err
		}
		wallet.Balance += amount
		if err := tx.Save(wallet); err != nil {
			return err
		}

		oid := orderID
		return tx.CreateTransaction(&models.Transaction{
			UserID:      userID,
			OrderID:     &oid,
			Type:        models.TransactionTypeReferralBonus,
			Amount:      amount,
			Reference:   uuid.NewString(),
			Description: description,
		})
	})
	if err != nil {
		return err
	}
	s.cache.InvalidateWallet(ctx, userID)
	return nil
}

func (s *service) Credit(ctx context.Context, userID uint, amount int64, reference, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		wallet, err := tx.GetByUserIDForUpdate(userID)
		if err != nil {
			if errors.Is(err, repositories.ErrWalletNotFound) {
				return ErrWalletNotFound
			}
			return err
		}
		wallet.Balance += amount
		if err := tx.Save(wallet); err != nil {
			return err
		}
		return tx.CreateTransaction(&models.Transaction{
			UserID:      userID,
			Type:        models.TransactionTypeTopup,
			Amount:      amount,
			Reference:   reference,
			Description: description,
		})
	})
	if err != nil {
		return err
	}
	s.cache.InvalidateWallet(ctx, userID)
	return nil
}

func (s *service) InvalidateCache(ctx context.Context, userID uint) {
	s.cache.InvalidateWallet(ctx, userID)
}

func (s *service) Transactions(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListTransactions(userID, limit, offset)
}
