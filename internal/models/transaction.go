package models

import "time"

// Ledger entry types.
const (
	TransactionTypeEscrowHold    = "escrow_hold"
	TransactionTypeDatePayment   = "date_payment"
	TransactionTypeRefund        = "refund"
	TransactionTypeReferralBonus = "referral_bonus"
	TransactionTypeTopup         = "topup"
)

// Settlement payees recorded in date_payment metadata.
const (
	PayeePlatform   = "platform"
	PayeeRestaurant = "restaurant"
)

// Transaction is an append-only ledger entry. Rows are never updated or
// deleted after insert; the composite unique index on
// (user_id, order_id, type) is the durable idempotency record that makes
// hold/release/settle retries collapse into no-ops. OrderID is nil for
// entries not tied to an order (top-ups), which the partial uniqueness of
// NULLs in Postgres leaves unconstrained.
type Transaction struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	UserID      uint   `gorm:"uniqueIndex:idx_ledger_idem;index;not null" json:"user_id"`
	OrderID     *uint  `gorm:"uniqueIndex:idx_ledger_idem" json:"order_id,omitempty"`
	Type        string `gorm:"uniqueIndex:idx_ledger_idem;type:varchar(24);not null" json:"type"`
	Amount      int64  `gorm:"not null" json:"amount"`
	Status      string `gorm:"type:varchar(16);not null;default:'completed'" json:"status"`
	Description string `json:"description"`
	Reference   string `gorm:"type:varchar(64);index" json:"reference"`
	Metadata    JSON   `gorm:"type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
