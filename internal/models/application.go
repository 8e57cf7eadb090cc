package models

import "time"

// ApplicationStatus is the state of an application to a date order.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	}
	return false
}

// Application is one user's request to join a date order. At most one
// application per order ever reaches accepted; rows are never deleted.
type Application struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	OrderID     uint              `gorm:"uniqueIndex:idx_app_once;not null" json:"order_id"`
	ApplicantID uint              `gorm:"uniqueIndex:idx_app_once;index;not null" json:"applicant_id"`
	Message     string            `gorm:"type:text" json:"message"`
	Status      ApplicationStatus `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
