package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Part is a spare-part line item attached to an order. Parts contribute
// to the displayed parts total but never hit the cash ledger on their own.
type Part struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     uint            `gorm:"not null;index" json:"order_id"`
	Order       Order           `gorm:"foreignKey:OrderID" json:"-"`
	Description string          `gorm:"size:200;not null" json:"description"`
	Cost        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"cost"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TableName specifies the table name for the Part model
func (Part) TableName() string {
	return "parts"
}
