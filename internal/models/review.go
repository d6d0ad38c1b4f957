package models

import "time"

// ReviewSourcePublicMenu tags reviews submitted anonymously from the
// public menu, as opposed to ones entered by the owner.
const ReviewSourcePublicMenu = "public_menu"

// Review is an anonymous guest review. Free-text fields are sanitized
// before they ever reach this struct; rows are immutable once created.
type Review struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"index;not null" json:"-"`
	Rating       int       `gorm:"not null" json:"rating"`
	Comment      string    `gorm:"size:1000" json:"comment,omitempty"`
	FullName     string    `gorm:"size:80" json:"full_name,omitempty"`
	Phone        string    `gorm:"size:30" json:"-"`
	Email        string    `gorm:"size:120" json:"-"`
	Source       string    `gorm:"size:20" json:"source"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
