package models

import "time"

// Analytics event types recognized by the ingestion endpoint and the
// aggregator. Enter/Leave are paired per session to estimate time spent.
const (
	EventTypeView   = "view"
	EventTypeClick  = "click"
	EventTypeQRScan = "qr_scan"
	EventTypeEnter  = "enter"
	EventTypeLeave  = "leave"
)

// Entity types an event may reference.
const (
	EntityTypeItem     = "item"
	EntityTypeCategory = "category"
)

// AnalyticsEvent is one anonymous interaction persisted from the public
// menu. Device, platform and session are derived server-side; nothing in
// this row authenticates the visitor.
type AnalyticsEvent struct {
	ID           uint      `gorm:"primaryKey"`
	RestaurantID uint      `gorm:"index;not null"`
	EventType    string    `gorm:"size:20;index;not null"`
	EntityType   string    `gorm:"size:20;index"`
	EntityID     uint      `gorm:"index"`
	QREntrypoint string    `gorm:"size:60"`
	SessionID    string    `gorm:"size:40;index"`
	DeviceType   string    `gorm:"size:16"`
	Platform     string    `gorm:"size:16"`
	UserAgent    string    `gorm:"size:255"`
	CreatedAt    time.Time `gorm:"index"`
}

// TrackedEvent is the lightweight struct passed through the ingestion
// channel to the worker pool; it carries only what is needed to build an
// AnalyticsEvent row.
type TrackedEvent struct {
	RestaurantID uint
	EventType    string
	EntityType   string
	EntityID     uint
	QREntrypoint string
	SessionID    string
	DeviceType   string
	Platform     string
	UserAgent    string
	Timestamp    time.Time
}
