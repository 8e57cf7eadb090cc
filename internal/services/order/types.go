package order

import (
	"context"
	"time"

	"dinedate/internal/models"
)

// Service owns the date order state machine and the application registry.
// All status transitions funnel through here; escrow movement is
// delegated to the wallet ledger inside the same database transaction.
type Service interface {
	Create(ctx context.Context, creatorID uint, in CreateInput) (*models.DateOrder, error)
	Get(ctx context.Context, orderID uint) (*models.DateOrder, error)
	Apply(ctx context.Context, applicantID, orderID uint, message string) (*models.Application, error)
	ListApplications(ctx context.Context, callerID, orderID uint) ([]models.Application, error)
	Accept(ctx context.Context, callerID, orderID, applicationID uint) (*models.DateOrder, error)
	Cancel(ctx context.Context, callerID, orderID uint) (*models.DateOrder, error)
}

// CreateInput carries the order parameters fixed at creation. ComboPrice
// is the restaurant's listed price for the combo; the pricing resolver
// turns it into the frozen charge/payout split.
type CreateInput struct {
	RestaurantID uint      `json:"restaurant_id" validate:"required"`
	ComboID      uint      `json:"combo_id" validate:"required"`
	ComboPrice   int64     `json:"combo_price" validate:"required,gt=0"`
	DateTime     time.Time `json:"date_time" validate:"required"`
	PromoCode    string    `json:"promo_code"`
}
