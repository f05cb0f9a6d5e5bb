package models

import (
	"time"

	"gorm.io/gorm"
)

// Client represents a customer of the shop
type Client struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Phone     string         `gorm:"size:50" json:"phone"`
	Email     string         `gorm:"size:120" json:"email"`
	Address   string         `gorm:"size:200" json:"address"`
	TaxID     string         `gorm:"size:20" json:"tax_id"` // national/tax identifier shown on the work order
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Client model
func (Client) TableName() string {
	return "clients"
}
