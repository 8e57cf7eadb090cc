package models

import "time"

// ReferralReward marks that the one-time referral bonus has been paid for
// a referred user. The unique index on referred_id guarantees the bonus
// fires at most once regardless of how many orders the user completes.
type ReferralReward struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	ReferrerID    uint      `gorm:"index;not null" json:"referrer_id"`
	ReferredID    uint      `gorm:"uniqueIndex;not null" json:"referred_id"`
	OrderID       uint      `gorm:"not null" json:"order_id"`
	ReferrerBonus int64     `gorm:"not null" json:"referrer_bonus"`
	ReferredBonus int64     `gorm:"not null" json:"referred_bonus"`
	Status        string    `gorm:"type:varchar(16);not null;default:'completed'" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}
