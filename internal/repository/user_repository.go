package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/selimacar/qrmenu/internal/models"
)

// UserRepository defines data access for owner accounts.
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByEmail(email string) (*models.User, error)
	GetRestaurantByOwner(ownerID uint) (*models.Restaurant, error)
}

// GormUserRepository implements UserRepository with GORM.
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new GormUserRepository.
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// CreateUser inserts an owner account.
func (r *GormUserRepository) CreateUser(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByEmail fetches an owner by email. Returns gorm.ErrRecordNotFound
// unchanged so callers can test for it.
func (r *GormUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetRestaurantByOwner fetches the restaurant provisioned for an owner.
func (r *GormUserRepository) GetRestaurantByOwner(ownerID uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.Preload("Settings").Where("owner_id = ?", ownerID).First(&restaurant).Error; err != nil {
		return nil, fmt.Errorf("failed to load restaurant for owner %d: %w", ownerID, err)
	}
	return &restaurant, nil
}
