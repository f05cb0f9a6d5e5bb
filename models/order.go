package models

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order statuses, in workflow order.
const (
	StatusReceived      = "received"
	StatusDiagnosis     = "diagnosis"
	StatusInProgress    = "in_progress"
	StatusAwaitingParts = "awaiting_parts"
	StatusReady         = "ready"
	StatusDelivered     = "delivered"
	StatusCancelled     = "cancelled"
)

// OrderStatus pairs a status code with its display label.
type OrderStatus struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// OrderStatuses lists every valid order status in workflow order.
// The labels are what the PDF and the public tracking page show.
var OrderStatuses = []OrderStatus{
	{StatusReceived, "Received"},
	{StatusDiagnosis, "Diagnosis"},
	{StatusInProgress, "In progress"},
	{StatusAwaitingParts, "Awaiting parts"},
	{StatusReady, "Ready for pickup"},
	{StatusDelivered, "Delivered"},
	{StatusCancelled, "Cancelled"},
}

// IsValidStatus reports whether s is a member of the status enumeration.
func IsValidStatus(s string) bool {
	for _, st := range OrderStatuses {
		if st.Code == s {
			return true
		}
	}
	return false
}

// StatusLabel returns the display label for a status code, or the code
// itself when it is not a known status.
func StatusLabel(code string) string {
	for _, st := range OrderStatuses {
		if st.Code == code {
			return st.Label
		}
	}
	return code
}

// Public token generation. The alphabet excludes visually ambiguous
// characters (0/O, 1/I) so the token can be read off a printed work order.
const (
	tokenAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	tokenLength   = 10
)

// GenPublicToken returns a new random public tracking token.
func GenPublicToken() (string, error) {
	buf := make([]byte, tokenLength)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate token: %w", err)
		}
		buf[i] = tokenAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// Order represents one repair job tracked from intake to delivery or cancellation
type Order struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	ClientID uint   `gorm:"not null;index" json:"client_id"`
	Client   Client `gorm:"foreignKey:ClientID" json:"client"`

	Brand       string `gorm:"not null" json:"brand"`
	Model       string `gorm:"not null" json:"model"`
	IMEI        string `gorm:"size:40" json:"imei"`
	Accessories string `gorm:"size:200" json:"accessories"`
	UnlockCode  string `gorm:"size:120" json:"unlock_code"`

	ProblemReport string `gorm:"type:text;not null" json:"problem_report"`
	Diagnosis     string `gorm:"type:text" json:"diagnosis"`

	EstimatedCost decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"estimated_cost"`
	Deposit       decimal.Decimal     `gorm:"type:decimal(12,2);default:0" json:"deposit"`

	Status string `gorm:"size:40;not null;default:'received'" json:"status"`

	// PublicToken is the opaque identifier for the unauthenticated
	// tracking page. Set once at creation, never changed.
	PublicToken string `gorm:"size:16;uniqueIndex;not null" json:"public_token"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// StatusLabel returns the display label for the order's current status.
func (o *Order) StatusLabel() string {
	return StatusLabel(o.Status)
}
