package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cash entry directions. The amount is always a positive magnitude;
// the direction carries the sign.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// Cash entry reasons. Reconciliation code matches prior entries by this
// enumerated field, never by concept text.
const (
	ReasonDeposit       = "deposit"
	ReasonFinalPayment  = "final_payment"
	ReasonDepositRefund = "deposit_refund"
	ReasonManual        = "manual"
)

// IsValidDirection reports whether d is "in" or "out".
func IsValidDirection(d string) bool {
	return d == DirectionIn || d == DirectionOut
}

// CashEntry is one append-only ledger movement, optionally tied to the
// order that caused it. Manual entries have no order reference.
type CashEntry struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Date      time.Time       `gorm:"not null;index" json:"date"`
	Direction string          `gorm:"size:10;not null" json:"direction"`
	Reason    string          `gorm:"size:20;not null;default:'manual'" json:"reason"`
	Concept   string          `gorm:"size:200;not null" json:"concept"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	OrderID   *uint           `gorm:"index" json:"order_id,omitempty"`
	Order     *Order          `gorm:"foreignKey:OrderID" json:"-"`
	CreatedAt time.Time       `json:"created_at"`
}

// TableName specifies the table name for the CashEntry model
func (CashEntry) TableName() string {
	return "cash_entries"
}

// BeforeCreate stamps the movement date when the caller did not set one.
func (e *CashEntry) BeforeCreate(tx *gorm.DB) error {
	if e.Date.IsZero() {
		e.Date = time.Now()
	}
	return nil
}
