// Package review implements the post-date review flow and the
// reciprocal-consent reveal gate: two users' real identities connect only
// when both submit wantToMeetAgain=true for the same completed order.
package review

import (
	"context"
	"errors"
	"log"
	"time"

	"dinedate/internal/models"
	"dinedate/internal/repositories"
	"dinedate/internal/services/notification"
)

var (
	ErrOrderNotCompleted   = errors.New("order is not completed")
	ErrNotOrderParticipant = errors.New("reviewer is not a party of this order")
	ErrDuplicateReview     = errors.New("review already submitted for this order")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
)

// SubmitInput carries one party's post-date review.
type SubmitInput struct {
	OrderID         uint   `json:"order_id" validate:"required"`
	Rating          int    `json:"rating" validate:"required,min=1,max=5"`
	Comment         string `json:"comment"`
	WantToMeetAgain bool   `json:"want_to_meet_again"`
}

// Result reports the stored review and whether this submission completed
// the mutual-consent pair and created a Connection.
type Result struct {
	Review            *models.Review `json:"review"`
	ConnectionCreated bool           `json:"connection_created"`
}

type Service interface {
	Submit(ctx context.Context, reviewerID uint, in SubmitInput) (*Result, error)
	// Connected reports whether the two users have revealed to each other.
	Connected(ctx context.Context, userA, userB uint) (bool, error)
}

type service struct {
	reviews  repositories.ReviewRepository
	orders   repositories.OrderRepository
	notifier notification.Dispatcher
}

func NewService(reviews repositories.ReviewRepository, orders repositories.OrderRepository, notifier notification.Dispatcher) Service {
	if reviews == nil {
		panic("review repository is required")
	}
	if orders == nil {
		panic("order repository is required")
	}
	if notifier == nil {
		notifier = notification.NewLogDispatcher()
	}
	return &service{reviews: reviews, orders: orders, notifier: notifier}
}

func (s *service) Submit(ctx context.Context, reviewerID uint, in SubmitInput) (*Result, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrInvalidRating
	}
	order, err := s.orders.GetByID(in.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusCompleted {
		return nil, ErrOrderNotCompleted
	}
	if !order.Party(reviewerID) {
		return nil, ErrNotOrderParticipant
	}
	revieweeID, err := order.Counterparty(reviewerID)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		OrderID:         in.OrderID,
		ReviewerID:      reviewerID,
		RevieweeID:      revieweeID,
		Rating:          in.Rating,
		Comment:         in.Comment,
		WantToMeetAgain: in.WantToMeetAgain,
	}
	if err := s.reviews.CreateReview(review); err != nil {
		if errors.Is(err, repositories.ErrDuplicateRecord) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}

	created, err := s.maybeConnect(ctx, order)
	if err != nil {
		// The review itself is stored; a failed connection check is
		// retried by the counterpart's submission.
		log.Printf("connection check failed for order %d: %v", order.ID, err)
	}
	return &Result{Review: review, ConnectionCreated: created}, nil
}

// maybeConnect creates the Connection once both parties' reviews carry
// wantToMeetAgain=true. Both submissions race to run this; the unique
// pair index makes the second creation collapse into a no-op.
func (s *service) maybeConnect(ctx context.Context, order *models.DateOrder) (bool, error) {
	reviews, err := s.reviews.ListReviewsByOrder(order.ID)
	if err != nil {
		return false, err
	}
	mutual := 0
	for _, r := range reviews {
		if r.WantToMeetAgain {
			mutual++
		}
	}
	if mutual < 2 {
		return false, nil
	}

	matchedID, err := order.Counterparty(order.CreatorID)
	if err != nil {
		return false, err
	}
	if _, err := s.reviews.FindConnection(order.CreatorID, matchedID); err == nil {
		return false, nil // already connected, likely via the racing submission
	} else if !errors.Is(err, repositories.ErrConnectionNotFound) {
		return false, err
	}

	conn := &models.Connection{
		User1ID:     order.CreatorID,
		User2ID:     matchedID,
		OrderID:     order.ID,
		ConnectedAt: time.Now(),
	}
	if err := s.reviews.CreateConnection(conn); err != nil {
		if errors.Is(err, repositories.ErrDuplicateRecord) {
			return false, nil
		}
		return false, err
	}

	for _, userID := range []uint{order.CreatorID, matchedID} {
		if err := s.notifier.Notify(ctx, userID, notification.EventConnectionCreated,
			"New connection", "You both want to meet again, identities revealed",
			map[string]interface{}{"order_id": order.ID}); err != nil {
			log.Printf("notify failed for connection on order %d: %v", order.ID, err)
		}
	}
	return true, nil
}

func (s *service) Connected(_ context.Context, userA, userB uint) (bool, error) {
	if _, err := s.reviews.FindConnection(userA, userB); err != nil {
		if errors.Is(err, repositories.ErrConnectionNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
