package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"dinedate/internal/models"
	"dinedate/internal/repositories"
	"dinedate/internal/services/notification"
	"dinedate/internal/services/pricing"
	"dinedate/internal/services/wallet"
)

type service struct {
	orders   repositories.OrderRepository
	users    repositories.UserRepository
	ledger   wallet.Service
	pricing  pricing.Resolver
	notifier notification.Dispatcher
}

// NewService creates the order state machine service.
func NewService(
	orders repositories.OrderRepository,
	users repositories.UserRepository,
	ledger wallet.Service,
	resolver pricing.Resolver,
	notifier notification.Dispatcher,
) Service {
	if orders == nil {
		panic("order repository is required")
	}
	if users == nil {
		panic("user repository is required")
	}
	if ledger == nil {
		panic("wallet ledger is required")
	}
	if resolver == nil {
		panic("pricing resolver is required")
	}
	if notifier == nil {
		notifier = notification.NewLogDispatcher()
	}
	return &service{
		orders:   orders,
		users:    users,
		ledger:   ledger,
		pricing:  resolver,
		notifier: notifier,
	}
}

func (s *service) Create(ctx context.Context, creatorID uint, in CreateInput) (*models.DateOrder, error) {
	if !in.DateTime.After(time.Now()) {
		return nil, ErrInvalidSchedule
	}

	creator, err := s.users.GetByID(creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load creator: %w", err)
	}
	active, err := s.orders.CountActiveByCreator(creatorID)
	if err != nil {
		return nil, err
	}
	if active >= int64(creator.ActiveOrderCap()) {
		return nil, ErrLimitExceeded
	}

	quote, err := s.pricing.Resolve(ctx, in.ComboPrice, in.PromoCode)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve pricing: %w", err)
	}

	order := &models.DateOrder{
		CreatorID:        creatorID,
		RestaurantID:     in.RestaurantID,
		ComboID:          in.ComboID,
		DateTime:         in.DateTime,
		CreatorCharge:    quote.CreatorCharge,
		ApplicantCharge:  quote.ApplicantCharge,
		RestaurantPayout: quote.RestaurantPayout,
		Status:           models.OrderStatusActive,
	}
	if err := s.orders.Create(order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) Get(_ context.Context, orderID uint) (*models.DateOrder, error) {
	return s.orders.GetByID(orderID)
}

func (s *service) Apply(ctx context.Context, applicantID, orderID uint, message string) (*models.Application, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusActive {
		return nil, ErrOrderNotOpen
	}
	if order.CreatorID == applicantID {
		return nil, ErrOwnOrder
	}
	if _, err := s.orders.FindApplication(orderID, applicantID); err == nil {
		return nil, ErrDuplicateApplication
	} else if !errors.Is(err, repositories.ErrApplicationNotFound) {
		return nil, err
	}

	app := &models.Application{
		OrderID:     orderID,
		ApplicantID: applicantID,
		Message:     message,
		Status:      models.ApplicationStatusPending,
	}
	if err := s.orders.CreateApplication(app); err != nil {
		if errors.Is(err, repositories.ErrDuplicateRecord) {
			return nil, ErrDuplicateApplication
		}
		return nil, err
	}

	if err := s.notifier.Notify(ctx, order.CreatorID, notification.EventApplicationReceived,
		"New application", "Someone applied to your date order",
		map[string]interface{}{"order_id": orderID, "application_id": app.ID}); err != nil {
		log.Printf("notify failed for order %d: %v", orderID, err)
	}
	return app, nil
}

func (s *service) ListApplications(_ context.Context, callerID, orderID uint) ([]models.Application, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.CreatorID != callerID {
		return nil, ErrNotOrderOwner
	}
	return s.orders.ListApplications(orderID)
}

// Accept matches one applicant. The application flip, sibling rejection,
// order transition and both escrow holds commit atomically: a failed hold
// rolls everything back and the order stays active.
func (s *service) Accept(ctx context.Context, callerID, orderID, applicationID uint) (*models.DateOrder, error) {
	var applicantID uint
	err := s.orders.ExecuteInTransaction(func(tx repositories.OrderRepository) error {
		app, err := tx.GetApplication(applicationID)
		if err != nil {
			return err
		}
		if app.OrderID != orderID {
			return ErrApplicationMismatch
		}
		order, err := tx.GetByID(orderID)
		if err != nil {
			return err
		}
		if order.CreatorID != callerID {
			return ErrNotOrderOwner
		}
		if app.Status != models.ApplicationStatusPending {
			return ErrStateConflict
		}

		now := time.Now()
		ok, err := tx.TransitionStatus(orderID, models.OrderStatusActive, models.OrderStatusMatched,
			map[string]interface{}{
				"matched_user_id": app.ApplicantID,
				"matched_at":      now,
			})
		if err != nil {
			return err
		}
		if !ok {
			return ErrStateConflict
		}

		if err := tx.UpdateApplicationStatus(app.ID, models.ApplicationStatusAccepted); err != nil {
			return err
		}
		if err := tx.RejectPendingSiblings(orderID, app.ID); err != nil {
			return err
		}

		ledgerTx := tx.Wallets()
		if err := s.ledger.HoldTx(ledgerTx, order.CreatorID, orderID, order.CreatorCharge); err != nil {
			return err
		}
		if err := s.ledger.HoldTx(ledgerTx, app.ApplicantID, orderID, order.ApplicantCharge); err != nil {
			return err
		}

		applicantID = app.ApplicantID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.ledger.InvalidateCache(ctx, callerID)
	s.ledger.InvalidateCache(ctx, applicantID)

	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	for _, userID := range []uint{order.CreatorID, applicantID} {
		if err := s.notifier.Notify(ctx, userID, notification.EventMatched,
			"It's a match", "Your date order has been matched",
			map[string]interface{}{"order_id": orderID}); err != nil {
			log.Printf("notify failed for order %d: %v", orderID, err)
		}
	}
	return order, nil
}

func (s *service) Cancel(ctx context.Context, callerID, orderID uint) (*models.DateOrder, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.CreatorID != callerID {
		return nil, ErrNotOrderOwner
	}

	// No escrow exists while the order is still active, so cancellation
	// has no wallet effect.
	ok, err := s.orders.TransitionStatus(orderID, models.OrderStatusActive, models.OrderStatusCancelled, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStateConflict
	}
	return s.orders.GetByID(orderID)
}
