package models

import "time"

// SettingsID is the fixed primary key of the single settings row.
const SettingsID = 1

// Settings holds the shop's profile shown on printed work orders and the
// public tracking page. Exactly one row exists, created at startup.
type Settings struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CompanyName  string    `gorm:"size:120" json:"company_name"`
	Address      string    `gorm:"size:200" json:"address"`
	Phone        string    `gorm:"size:50" json:"phone"`
	Email        string    `gorm:"size:120" json:"email"`
	LogoFilename string    `gorm:"size:200" json:"logo_filename"`
	Terms        string    `gorm:"type:text" json:"terms"` // warranty / conditions text printed on the work order
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Settings model
func (Settings) TableName() string {
	return "settings"
}
