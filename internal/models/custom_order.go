package models

import "time"

// Custom order statuses. Custom requests move through an extra "quoted" step
// before a price is agreed.
const (
	CustomPending    = "pending"
	CustomQuoted     = "quoted"
	CustomAccepted   = "accepted"
	CustomInProgress = "in-progress"
	CustomCompleted  = "completed"
	CustomCancelled  = "cancelled"
)

// ValidCustomOrderStatus reports whether s is an allowed custom-order status.
func ValidCustomOrderStatus(s string) bool {
	switch s {
	case CustomPending, CustomQuoted, CustomAccepted, CustomInProgress, CustomCompleted, CustomCancelled:
		return true
	}
	return false
}

// CustomOrder is a bespoke quote request. UserID is nil for guest requests.
// Budget and QuotedPrice are in cents.
type CustomOrder struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      *uint     `gorm:"index" json:"userId"`
	ClientName  string    `gorm:"size:255;not null" json:"clientName"`
	ClientEmail string    `gorm:"size:320;not null" json:"clientEmail"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Budget      *int64    `json:"budget"`
	Status      string    `gorm:"size:32;not null;default:pending" json:"status"`
	QuotedPrice *int64    `json:"quotedPrice"`
	PaymentID   string    `gorm:"size:255" json:"paymentId"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
