package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/selimacar/qrmenu/internal/models"
)

// ReviewRepository defines data access for guest reviews.
type ReviewRepository interface {
	CreateReview(review *models.Review) error
	ListByRestaurant(restaurantID uint) ([]models.Review, error)
	AverageRating(restaurantID uint) (float64, int64, error)
}

// GormReviewRepository implements ReviewRepository with GORM.
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new GormReviewRepository.
func NewReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// CreateReview inserts a review row.
func (r *GormReviewRepository) CreateReview(review *models.Review) error {
	if err := r.db.Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// ListByRestaurant returns reviews newest first.
func (r *GormReviewRepository) ListByRestaurant(restaurantID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.
		Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for restaurant %d: %w", restaurantID, err)
	}
	return reviews, nil
}

// AverageRating returns the mean rating and review count for a restaurant.
func (r *GormReviewRepository) AverageRating(restaurantID uint) (float64, int64, error) {
	var row struct {
		Avg float64
		Cnt int64
	}
	err := r.db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS cnt").
		Where("restaurant_id = ?", restaurantID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to compute average rating for restaurant %d: %w", restaurantID, err)
	}
	return row.Avg, row.Cnt, nil
}
