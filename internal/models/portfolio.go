package models

import "time"

// PortfolioProject is a showcased piece of past work. Only published projects
// are visible outside the admin dashboard.
type PortfolioProject struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Title       string           `gorm:"size:255;not null" json:"title"`
	Description string           `gorm:"type:text" json:"description"`
	Category    string           `gorm:"size:100;index" json:"category"`
	IsPublished bool             `gorm:"not null;default:false" json:"isPublished"`
	IsFeatured  bool             `gorm:"not null;default:false" json:"isFeatured"`
	Images      []PortfolioImage `gorm:"foreignKey:ProjectID" json:"images,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// PortfolioImage is a single image belonging to a portfolio project. URL points
// at the object store (or a presigned link derived from ObjectKey).
type PortfolioImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"index;not null" json:"projectId"`
	URL       string    `gorm:"size:500;not null" json:"url"`
	ObjectKey string    `gorm:"size:255" json:"objectKey,omitempty"`
	Caption   string    `gorm:"size:255" json:"caption"`
	CreatedAt time.Time `json:"createdAt"`
}
