package models

import "time"

// StatusHistory is one append-only log entry for an order's status changes.
// Rows are never edited or removed; the newest entry always matches the
// order's current status.
type StatusHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	Order     Order     `gorm:"foreignKey:OrderID" json:"-"`
	Status    string    `gorm:"size:40;not null" json:"status"`
	Note      string    `gorm:"type:text" json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the StatusHistory model
func (StatusHistory) TableName() string {
	return "status_history"
}

// StatusLabel returns the display label for the entry's status.
func (h *StatusHistory) StatusLabel() string {
	return StatusLabel(h.Status)
}
