package models

import "time"

// Restaurant is the tenant root. Every menu entity, review and analytics
// event hangs off a restaurant ID; the public surface addresses it by slug.
type Restaurant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	Slug      string    `gorm:"uniqueIndex;size:50;not null" json:"slug"`
	OwnerID   uint      `gorm:"index" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Settings RestaurantSettings `gorm:"foreignKey:RestaurantID" json:"settings"`
}

// RestaurantSettings holds the per-restaurant presentation options served
// alongside the public menu payload.
type RestaurantSettings struct {
	ID              uint   `gorm:"primaryKey" json:"-"`
	RestaurantID    uint   `gorm:"uniqueIndex" json:"-"`
	DefaultLanguage string `gorm:"size:8;default:tr" json:"default_language"`
	Currency        string `gorm:"size:8;default:TRY" json:"currency"`
	ShowPrices      bool   `gorm:"default:true" json:"show_prices"`
	AcceptReviews   bool   `gorm:"default:true" json:"accept_reviews"`
}

// MenuCategory groups menu items. DisplayOrder drives the public ordering.
type MenuCategory struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"index;not null" json:"-"`
	Name         string    `gorm:"size:120;not null" json:"name"`
	DisplayOrder int       `gorm:"default:0" json:"display_order"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"-"`

	Items []MenuItem `gorm:"foreignKey:CategoryID" json:"items"`
}

// MenuItem is a single dish or drink.
type MenuItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"index;not null" json:"-"`
	CategoryID   uint      `gorm:"index;not null" json:"-"`
	Name         string    `gorm:"size:120;not null" json:"name"`
	Description  string    `gorm:"size:500" json:"description,omitempty"`
	Price        float64   `json:"price"`
	Available    bool      `gorm:"default:true" json:"available"`
	DisplayOrder int       `gorm:"default:0" json:"display_order"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"-"`
}

// Translation is one localized field value for a menu entity, keyed by
// (entity, language, field). The public menu endpoint returns the rows for
// the requested language and the client substitutes them during rendering.
type Translation struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	RestaurantID uint   `gorm:"index;not null" json:"-"`
	EntityType   string `gorm:"size:20;index;not null" json:"entity_type"` // item | category
	EntityID     uint   `gorm:"index;not null" json:"entity_id"`
	Language     string `gorm:"size:8;index;not null" json:"language"`
	Field        string `gorm:"size:30;not null" json:"field"` // name | description
	Value        string `gorm:"size:500;not null" json:"value"`
}

// RestaurantEvent is an announcement (live music, happy hour) shown on the
// public menu. Not to be confused with AnalyticsEvent.
type RestaurantEvent struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"index;not null" json:"-"`
	Title        string    `gorm:"size:160;not null" json:"title"`
	Description  string    `gorm:"size:500" json:"description,omitempty"`
	StartsAt     time.Time `gorm:"index" json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
}
