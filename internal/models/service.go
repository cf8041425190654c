package models

import "time"

// Service is a purchasable graphic-design service from the catalog.
// Price is in cents. Features holds a JSON-encoded string array.
type Service struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       int64     `gorm:"not null" json:"price"`
	Category    string    `gorm:"size:100;not null;index" json:"category"`
	Image       string    `gorm:"size:500" json:"image"`
	Features    string    `gorm:"type:text" json:"features"`
	IsActive    bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
