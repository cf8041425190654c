package models

import "time"

// Order statuses.
const (
	OrderPending    = "pending"
	OrderPaid       = "paid"
	OrderInProgress = "in-progress"
	OrderCompleted  = "completed"
	OrderCancelled  = "cancelled"
)

// ValidOrderStatus reports whether s is one of the allowed order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderPaid, OrderInProgress, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Order is a placed order for a catalog service. UserID is 0 for guest orders.
// Price is copied from the service at creation time so later catalog edits do
// not change what the client owes.
type Order struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"userId"`
	ServiceID   uint      `gorm:"index;not null" json:"serviceId"`
	ClientName  string    `gorm:"size:255;not null" json:"clientName"`
	ClientEmail string    `gorm:"size:320;not null" json:"clientEmail"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Price       int64     `gorm:"not null" json:"price"`
	Status      string    `gorm:"size:32;not null;default:pending" json:"status"`
	PaymentID   string    `gorm:"size:255" json:"paymentId"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
