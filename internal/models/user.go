package models

import "time"

// User is a restaurant owner account for the dashboard. Public visitors
// never have a User row; they are correlated only by session cookie.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:120;not null" json:"email"`
	PasswordHash []byte    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}
