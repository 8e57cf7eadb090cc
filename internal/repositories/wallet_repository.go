package repositories

import "dinedate/internal/models"

// WalletRepository defines wallet and ledger database operations. The
// ledger table is append-only: there is deliberately no update or delete
// for transactions.
type WalletRepository interface {
	Create(wallet *models.Wallet) error
	GetByUserID(userID uint) (*models.Wallet, error)
	// GetByUserIDForUpdate locks the wallet row for the duration of the
	// surrounding transaction so two orders settling against the same
	// wallet serialize instead of losing an update.
	GetByUserIDForUpdate(userID uint) (*models.Wallet, error)
	Save(wallet *models.Wallet) error

	CreateTransaction(tx *models.Transaction) error
	// FindTransaction probes the idempotency key (userID, orderID, type).
	// Returns ErrTransactionNotFound when no entry exists.
	FindTransaction(userID, orderID uint, txType string) (*models.Transaction, error)
	ListTransactions(userID uint, limit, offset int) ([]models.Transaction, error)

	ExecuteInTransaction(fn func(WalletRepository) error) error
}
