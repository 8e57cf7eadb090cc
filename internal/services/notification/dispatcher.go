// Package notification delivers fire-and-forget user notifications.
// Delivery failure is logged and never blocks the caller; settlement in
// particular must finish whether or not the broker is reachable.
package notification

import (
	"context"
	"log"
)

// Notification event types.
const (
	EventApplicationReceived = "application_received"
	EventMatched             = "matched"
	EventReviewRequest       = "review_request"
	EventOrderExpired        = "order_expired"
	EventConnectionCreated   = "connection_created"
	EventReferralBonus       = "referral_bonus"
)

// Dispatcher sends a notification to a single user.
type Dispatcher interface {
	Notify(ctx context.Context, userID uint, event, title, message string, data map[string]interface{}) error
}

// LogDispatcher writes notifications to the process log. Used in
// development and as the fallback when no broker is configured.
type LogDispatcher struct{}

func NewLogDispatcher() *LogDispatcher { return &LogDispatcher{} }

func (d *LogDispatcher) Notify(_ context.Context, userID uint, event, title, message string, _ map[string]interface{}) error {
	log.Printf("notify user %d [%s]: %s: %s", userID, event, title, message)
	return nil
}
