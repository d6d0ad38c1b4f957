package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/selimacar/qrmenu/internal/models"
)

// RestaurantRepository defines data access for restaurants and their menu
// entities.
type RestaurantRepository interface {
	CreateRestaurant(restaurant *models.Restaurant) error
	GetBySlug(slug string) (*models.Restaurant, error)
	GetCategoriesWithItems(restaurantID uint) ([]models.MenuCategory, error)
	GetTranslations(restaurantID uint, language string) ([]models.Translation, error)
	GetUpcomingEvents(restaurantID uint, now time.Time) ([]models.RestaurantEvent, error)
	ListItems(restaurantID uint) ([]models.MenuItem, error)
	ListCategories(restaurantID uint) ([]models.MenuCategory, error)
}

// GormRestaurantRepository implements RestaurantRepository with GORM.
type GormRestaurantRepository struct {
	db *gorm.DB
}

// NewRestaurantRepository creates a new GormRestaurantRepository.
func NewRestaurantRepository(db *gorm.DB) *GormRestaurantRepository {
	return &GormRestaurantRepository{db: db}
}

// CreateRestaurant inserts a restaurant together with its settings row.
func (r *GormRestaurantRepository) CreateRestaurant(restaurant *models.Restaurant) error {
	if err := r.db.Create(restaurant).Error; err != nil {
		return fmt.Errorf("failed to create restaurant: %w", err)
	}
	return nil
}

// GetBySlug fetches a restaurant with its settings. Returns
// gorm.ErrRecordNotFound unchanged so callers can test for it.
func (r *GormRestaurantRepository) GetBySlug(slug string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.Preload("Settings").Where("slug = ?", slug).First(&restaurant).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// GetCategoriesWithItems returns the menu tree ordered for display.
func (r *GormRestaurantRepository) GetCategoriesWithItems(restaurantID uint) ([]models.MenuCategory, error) {
	var categories []models.MenuCategory
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC, id ASC")
		}).
		Where("restaurant_id = ?", restaurantID).
		Order("display_order ASC, id ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load categories for restaurant %d: %w", restaurantID, err)
	}
	return categories, nil
}

// GetTranslations returns the translation rows for one language.
func (r *GormRestaurantRepository) GetTranslations(restaurantID uint, language string) ([]models.Translation, error) {
	var translations []models.Translation
	err := r.db.
		Where("restaurant_id = ? AND language = ?", restaurantID, language).
		Find(&translations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load translations for restaurant %d: %w", restaurantID, err)
	}
	return translations, nil
}

// GetUpcomingEvents returns announcements that have not ended yet.
func (r *GormRestaurantRepository) GetUpcomingEvents(restaurantID uint, now time.Time) ([]models.RestaurantEvent, error) {
	var events []models.RestaurantEvent
	err := r.db.
		Where("restaurant_id = ? AND ends_at >= ?", restaurantID, now).
		Order("starts_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load events for restaurant %d: %w", restaurantID, err)
	}
	return events, nil
}

// ListItems returns every menu item of a restaurant, including unavailable
// ones. The aggregator needs the full set for least-viewed completeness.
func (r *GormRestaurantRepository) ListItems(restaurantID uint) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.db.Where("restaurant_id = ?", restaurantID).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list items for restaurant %d: %w", restaurantID, err)
	}
	return items, nil
}

// ListCategories returns every category of a restaurant without items.
func (r *GormRestaurantRepository) ListCategories(restaurantID uint) ([]models.MenuCategory, error) {
	var categories []models.MenuCategory
	if err := r.db.Where("restaurant_id = ?", restaurantID).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories for restaurant %d: %w", restaurantID, err)
	}
	return categories, nil
}
