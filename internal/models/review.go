package models

import "time"

// Review is a post-date review by one party of a completed order. The
// unique index enforces at most one review per (order, reviewer);
// WantToMeetAgain from both sides is what opens a Connection.
type Review struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	OrderID         uint      `gorm:"uniqueIndex:idx_review_once;not null" json:"order_id"`
	ReviewerID      uint      `gorm:"uniqueIndex:idx_review_once;not null" json:"reviewer_id"`
	RevieweeID      uint      `gorm:"index;not null" json:"reviewee_id"`
	Rating          int       `json:"rating"`
	Comment         string    `gorm:"type:text" json:"comment"`
	WantToMeetAgain bool      `gorm:"not null" json:"want_to_meet_again"`
	CreatedAt       time.Time `json:"created_at"`
}
