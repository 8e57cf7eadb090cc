package models

import "time"

// Wallet holds one user's available balance and the escrow held against
// in-flight date orders. Amounts are integer minor currency units. Both
// columns carry non-negative check constraints; every mutation goes
// through the ledger service, never through handler code.
type Wallet struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	UserID   uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance  int64  `gorm:"not null;default:0;check:chk_wallet_balance,balance >= 0" json:"balance"`
	Escrow   int64  `gorm:"not null;default:0;check:chk_wallet_escrow,escrow >= 0" json:"escrow"`
	Currency string `gorm:"type:varchar(8);default:'VND'" json:"currency"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
