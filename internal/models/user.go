package models

import "time"

// Plan tiers. The tier caps how many active date orders a user may keep
// open at once.
const (
	PlanTierFree = "free"
	PlanTierVIP  = "vip"
)

type User struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	Phone        string `gorm:"uniqueIndex;not null" json:"phone"`
	Password     string `gorm:"not null" json:"-"`
	Role         string `gorm:"default:'user'" json:"role"`
	PlanTier     string `gorm:"type:varchar(8);default:'free'" json:"plan_tier"`
	ReferralCode string `gorm:"uniqueIndex;not null" json:"referral_code"`
	ReferrerID   *uint  `gorm:"index" json:"referrer_id,omitempty"`

	// AvatarURL is public; RealAvatarURL is only exposed to users who
	// share a Connection with this user.
	AvatarURL     string `json:"avatar_url"`
	RealAvatarURL string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActiveOrderCap returns how many active orders the user's plan allows.
func (u *User) ActiveOrderCap() int {
	if u.PlanTier == PlanTierVIP {
		return 3
	}
	return 1
}
