package models

import "time"

// Connection records the mutual identity reveal between two users. The
// pair is stored normalized (lower id first) so the unique index covers
// the unordered pair; rows are written once and never updated.
type Connection struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	User1ID     uint      `gorm:"uniqueIndex:idx_connection_pair;not null" json:"user1_id"`
	User2ID     uint      `gorm:"uniqueIndex:idx_connection_pair;not null" json:"user2_id"`
	OrderID     uint      `gorm:"index;not null" json:"order_id"`
	ConnectedAt time.Time `json:"connected_at"`
}

// NormalizePair orders two user ids for storage as an unordered pair.
func NormalizePair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}
