package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/selimacar/qrmenu/internal/models"
)

// EventRepository defines data access for analytics events. Events are
// write-once; nothing updates or deletes them here.
type EventRepository interface {
	CreateEvent(event *models.AnalyticsEvent) error
	GetEventsInRange(restaurantID uint, from, to time.Time) ([]models.AnalyticsEvent, error)
	CountEvents(restaurantID uint) (int64, error)
}

// GormEventRepository implements EventRepository with GORM.
type GormEventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new GormEventRepository.
func NewEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

// CreateEvent inserts one analytics event row.
func (r *GormEventRepository) CreateEvent(event *models.AnalyticsEvent) error {
	if err := r.db.Create(event).Error; err != nil {
		return fmt.Errorf("failed to create analytics event: %w", err)
	}
	return nil
}

// GetEventsInRange returns events for a restaurant with created_at in
// [from, to), ordered by creation time so aggregation output is stable.
func (r *GormEventRepository) GetEventsInRange(restaurantID uint, from, to time.Time) ([]models.AnalyticsEvent, error) {
	var events []models.AnalyticsEvent
	err := r.db.
		Where("restaurant_id = ? AND created_at >= ? AND created_at < ?", restaurantID, from, to).
		Order("created_at ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load events for restaurant %d: %w", restaurantID, err)
	}
	return events, nil
}

// CountEvents returns the total number of recorded events for a restaurant.
func (r *GormEventRepository) CountEvents(restaurantID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.AnalyticsEvent{}).Where("restaurant_id = ?", restaurantID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count events for restaurant %d: %w", restaurantID, err)
	}
	return count, nil
}
