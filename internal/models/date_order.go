package models

import (
	"fmt"
	"time"
)

// OrderStatus is the lifecycle state of a date order. Transitions are
// one-way: active -> matched -> {completed, no_show}, active -> {expired,
// cancelled}. No state is re-enterable.
type OrderStatus string

const (
	OrderStatusActive    OrderStatus = "active"
	OrderStatusMatched   OrderStatus = "matched"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusExpired   OrderStatus = "expired"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusNoShow    OrderStatus = "no_show"
)

// Valid reports whether s is a known order status. Unknown values coming
// from the database are rejected at the repository boundary.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusActive, OrderStatusMatched, OrderStatusCompleted,
		OrderStatusExpired, OrderStatusCancelled, OrderStatusNoShow:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusExpired, OrderStatusCancelled, OrderStatusNoShow:
		return true
	}
	return false
}

// DateOrder is a bookable listing combining a restaurant, combo and time
// slot. The three charge fields are frozen when the order is created and
// replayed verbatim by the settlement worker.
type DateOrder struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatorID    uint      `gorm:"index;not null" json:"creator_id"`
	RestaurantID uint      `gorm:"index;not null" json:"restaurant_id"`
	ComboID      uint      `gorm:"not null" json:"combo_id"`
	DateTime     time.Time `gorm:"index;not null" json:"date_time"`

	CreatorCharge    int64 `gorm:"not null" json:"creator_charge"`
	ApplicantCharge  int64 `gorm:"not null" json:"applicant_charge"`
	RestaurantPayout int64 `gorm:"not null" json:"restaurant_payout"`

	Status        OrderStatus `gorm:"type:varchar(16);not null;default:'active';index" json:"status"`
	MatchedUserID *uint       `gorm:"index" json:"matched_user_id,omitempty"`
	MatchedAt     *time.Time  `json:"matched_at,omitempty"`
	CompletedAt   *time.Time  `json:"completed_at,omitempty"`
	AutoCompleted bool        `gorm:"default:false" json:"auto_completed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Party reports whether userID is the creator or the matched applicant.
func (o *DateOrder) Party(userID uint) bool {
	if o.CreatorID == userID {
		return true
	}
	return o.MatchedUserID != nil && *o.MatchedUserID == userID
}

// Counterparty returns the other side of a matched order.
func (o *DateOrder) Counterparty(userID uint) (uint, error) {
	if o.MatchedUserID == nil {
		return 0, fmt.Errorf("order %d has no matched user", o.ID)
	}
	if o.CreatorID == userID {
		return *o.MatchedUserID, nil
	}
	if *o.MatchedUserID == userID {
		return o.CreatorID, nil
	}
	return 0, fmt.Errorf("user %d is not a party of order %d", userID, o.ID)
}
