// Package settlement drives matched and stale date orders to a terminal
// state on a schedule. Every wallet mutation goes through the idempotent
// ledger operations and every status transition is a compare-and-set on
// the expected prior status, so overlapping or retried sweeps are safe
// no-ops.
package settlement

import (
	"context"
	"fmt"
	"log"
	"time"

	"dinedate/internal/models"
	"dinedate/internal/repositories"
	"dinedate/internal/services/notification"
	"dinedate/internal/services/referral"
	"dinedate/internal/services/wallet"
)

const (
	// GracePeriod is how long past the date time an order waits before
	// the sweeper resolves it.
	GracePeriod = 4 * time.Hour

	// BatchLimit caps how many rows one sweep picks up per query.
	BatchLimit = 500
)

// Summary reports one sweep run. A non-zero error count is an operational
// signal, not a fatal outcome; failed rows stay eligible for the next run.
type Summary struct {
	Processed int      `json:"processed"`
	Errors    []string `json:"errors"`
}

type Service interface {
	// RunSweep processes overdue matched orders (auto-complete) and stale
	// unmatched orders (auto-reject).
	RunSweep(ctx context.Context) Summary
}

type service struct {
	orders   repositories.OrderRepository
	ledger   wallet.Service
	referral referral.Service
	notifier notification.Dispatcher
	now      func() time.Time
}

func NewService(
	orders repositories.OrderRepository,
	ledger wallet.Service,
	referralSvc referral.Service,
	notifier notification.Dispatcher,
) Service {
	if orders == nil {
		panic("order repository is required")
	}
	if ledger == nil {
		panic("wallet ledger is required")
	}
	if notifier == nil {
		notifier = notification.NewLogDispatcher()
	}
	return &service{
		orders:   orders,
		ledger:   ledger,
		referral: referralSvc,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *service) RunSweep(ctx context.Context) Summary {
	summary := Summary{}
	cutoff := s.now().Add(-GracePeriod)

	s.autoComplete(ctx, cutoff, &summary)
	s.autoReject(ctx, cutoff, &summary)

	if len(summary.Errors) > 0 {
		log.Printf("settlement sweep finished: processed=%d errors=%d", summary.Processed, len(summary.Errors))
	}
	return summary
}

func (s *service) autoComplete(ctx context.Context, cutoff time.Time, summary *Summary) {
	orders, err := s.orders.FindMatchedBefore(cutoff, BatchLimit)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("select matched orders: %v", err))
		return
	}

	for _, order := range orders {
		done, err := s.completeOrder(ctx, &order)
		if err != nil {
			// Row isolation: log, count, keep sweeping. The row stays
			// matched and the next run retries it.
			log.Printf("ERROR: auto-complete order %d: %v", order.ID, err)
			summary.Errors = append(summary.Errors, fmt.Sprintf("order %d: %v", order.ID, err))
			continue
		}
		if done {
			summary.Processed++
		}
	}
}

// completeOrder settles both escrows and flips the order to completed.
// Settlement runs before the status transition: a crash in between leaves
// the row matched, and the next sweep replays the (idempotent) settles
// and finishes the transition. Returns false when another sweep won the
// compare-and-set.
func (s *service) completeOrder(ctx context.Context, order *models.DateOrder) (bool, error) {
	if order.MatchedUserID == nil {
		return false, fmt.Errorf("matched order has no matched user")
	}
	applicantID := *order.MatchedUserID
	platformFee := order.CreatorCharge + order.ApplicantCharge - order.RestaurantPayout

	meta := models.JSON{
		"restaurant_id":     order.RestaurantID,
		"restaurant_payout": order.RestaurantPayout,
		"platform_fee":      platformFee,
	}
	if err := s.ledger.Settle(ctx, order.CreatorID, order.ID, order.CreatorCharge, models.PayeePlatform, meta); err != nil {
		return false, fmt.Errorf("settle creator: %w", err)
	}
	if err := s.ledger.Settle(ctx, applicantID, order.ID, order.ApplicantCharge, models.PayeeRestaurant, meta); err != nil {
		return false, fmt.Errorf("settle applicant: %w", err)
	}

	won, err := s.orders.TransitionStatus(order.ID, models.OrderStatusMatched, models.OrderStatusCompleted,
		map[string]interface{}{
			"completed_at":   s.now(),
			"auto_completed": true,
		})
	if err != nil {
		return false, err
	}
	if !won {
		return false, nil // duplicate run lost the race; nothing left to do
	}

	for _, userID := range []uint{order.CreatorID, applicantID} {
		if err := s.notifier.Notify(ctx, userID, notification.EventReviewRequest,
			"How was your date?", "Leave a review and say if you want to meet again",
			map[string]interface{}{"order_id": order.ID}); err != nil {
			log.Printf("notify failed for order %d: %v", order.ID, err)
		}
		if s.referral != nil {
			if _, err := s.referral.OnFirstCompletion(ctx, userID, order.ID); err != nil {
				log.Printf("referral trigger failed for user %d on order %d: %v", userID, order.ID, err)
			}
		}
	}
	return true, nil
}

func (s *service) autoReject(ctx context.Context, cutoff time.Time, summary *Summary) {
	orders, err := s.orders.FindActiveBefore(cutoff, BatchLimit)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("select stale orders: %v", err))
		return
	}

	for _, order := range orders {
		done, err := s.expireOrder(ctx, &order)
		if err != nil {
			log.Printf("ERROR: auto-reject order %d: %v", order.ID, err)
			summary.Errors = append(summary.Errors, fmt.Sprintf("order %d: %v", order.ID, err))
			continue
		}
		if done {
			summary.Processed++
		}
	}
}

// expireOrder resolves an order whose owner never matched anyone before
// the response window closed. Any provisional hold on the creator is
// returned to balance; Release is a no-op when nothing was held.
func (s *service) expireOrder(ctx context.Context, order *models.DateOrder) (bool, error) {
	released, err := s.ledger.Release(ctx, order.CreatorID, order.ID)
	if err != nil {
		return false, fmt.Errorf("release creator hold: %w", err)
	}
	if released > 0 {
		log.Printf("released provisional hold of %d for order %d", released, order.ID)
	}

	won, err := s.orders.TransitionStatus(order.ID, models.OrderStatusActive, models.OrderStatusExpired, nil)
	if err != nil {
		return false, err
	}
	if !won {
		return false, nil // matched or cancelled concurrently; leave it be
	}

	if err := s.notifier.Notify(ctx, order.CreatorID, notification.EventOrderExpired,
		"Order expired", "Your date order expired without a match",
		map[string]interface{}{"order_id": order.ID}); err != nil {
		log.Printf("notify failed for order %d: %v", order.ID, err)
	}

	pending, err := s.orders.ListPendingApplications(order.ID)
	if err != nil {
		log.Printf("failed to list pending applicants for order %d: %v", order.ID, err)
		return true, nil
	}
	for _, app := range pending {
		if err := s.notifier.Notify(ctx, app.ApplicantID, notification.EventOrderExpired,
			"Order expired", "A date order you applied to has expired",
			map[string]interface{}{"order_id": order.ID}); err != nil {
			log.Printf("notify failed for order %d: %v", order.ID, err)
		}
	}
	return true, nil
}
