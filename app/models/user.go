package models

import "time"

// Base replaces gorm.Model so API payloads use snake_case keys.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User is a shopper account.
type User struct {
	Base
	Username string `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email    string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialised
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`
}

// Admin is a back-office account. Admins live in their own table and never
// share ids with users.
type Admin struct {
	Base
	Username string `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Password string `gorm:"size:255;not null" json:"-"`
}
