package models

import "time"

// Role values stored on User. The role column is the single source of truth
// for admin checks.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an application user provisioned from a Google OAuth login.
// OpenID is the stable subject identifier (the `sub` claim) and the only
// linkage between session tokens and user rows.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OpenID       string    `gorm:"column:open_id;size:64;uniqueIndex;not null" json:"openId"`
	Name         string    `gorm:"size:255" json:"name"`
	Email        string    `gorm:"size:320" json:"email"`
	LoginMethod  string    `gorm:"size:64" json:"loginMethod"`
	Role         string    `gorm:"size:16;not null;default:user" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	LastSignedIn time.Time `json:"lastSignedIn"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
