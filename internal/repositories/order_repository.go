package repositories

import (
	"time"

	"dinedate/internal/models"
)

// OrderRepository defines date order and application database operations.
// Orders and applications share a repository because the accept path
// mutates both inside one database transaction.
type OrderRepository interface {
	Create(order *models.DateOrder) error
	GetByID(id uint) (*models.DateOrder, error)
	CountActiveByCreator(creatorID uint) (int64, error)
	// CountCompletedForUser counts completed orders where the user is the
	// creator or the matched applicant.
	CountCompletedForUser(userID uint) (int64, error)

	// TransitionStatus performs a compare-and-set on the order status:
	// the update applies only if the row is still in the expected prior
	// status. Returns false when another writer won the race.
	TransitionStatus(orderID uint, from, to models.OrderStatus, updates map[string]interface{}) (bool, error)

	// Settlement worker selections.
	FindMatchedBefore(cutoff time.Time, limit int) ([]models.DateOrder, error)
	FindActiveBefore(cutoff time.Time, limit int) ([]models.DateOrder, error)

	CreateApplication(app *models.Application) error
	GetApplication(id uint) (*models.Application, error)
	FindApplication(orderID, applicantID uint) (*models.Application, error)
	ListApplications(orderID uint) ([]models.Application, error)
	ListPendingApplications(orderID uint) ([]models.Application, error)
	UpdateApplicationStatus(id uint, status models.ApplicationStatus) error
	RejectPendingSiblings(orderID, acceptedID uint) error

	// Wallets returns a wallet repository bound to the same database
	// handle, so ledger writes join the current transaction.
	Wallets() WalletRepository

	ExecuteInTransaction(fn func(OrderRepository) error) error
}
