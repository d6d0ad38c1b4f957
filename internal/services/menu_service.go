// Package services contains the business logic between the HTTP handlers
// and the repositories.
package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/selimacar/qrmenu/internal/apperrors"
	"github.com/selimacar/qrmenu/internal/models"
	"github.com/selimacar/qrmenu/internal/repository"
	"github.com/selimacar/qrmenu/internal/sanitize"
)

// PublicMenu is the payload served to anonymous visitors scanning a QR
// code: the restaurant, its settings, the menu tree, the translations for
// the requested language and any upcoming announcements.
type PublicMenu struct {
	Restaurant   *models.Restaurant        `json:"restaurant"`
	Settings     models.RestaurantSettings `json:"settings"`
	Categories   []models.MenuCategory     `json:"categories"`
	Translations []models.Translation      `json:"translations"`
	Events       []models.RestaurantEvent  `json:"events"`
}

// MenuService serves the public menu and provisions restaurants.
type MenuService struct {
	restaurantRepo repository.RestaurantRepository
}

// NewMenuService creates a new MenuService.
func NewMenuService(restaurantRepo repository.RestaurantRepository) *MenuService {
	return &MenuService{restaurantRepo: restaurantRepo}
}

// GetPublicMenu assembles the full public payload for a slug and language.
func (s *MenuService) GetPublicMenu(slug, language string) (*PublicMenu, error) {
	restaurant, err := s.restaurantRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("failed to resolve slug %q: %w", slug, err)
	}

	categories, err := s.restaurantRepo.GetCategoriesWithItems(restaurant.ID)
	if err != nil {
		return nil, err
	}
	translations, err := s.restaurantRepo.GetTranslations(restaurant.ID, language)
	if err != nil {
		return nil, err
	}
	events, err := s.restaurantRepo.GetUpcomingEvents(restaurant.ID, time.Now())
	if err != nil {
		return nil, err
	}

	return &PublicMenu{
		Restaurant:   restaurant,
		Settings:     restaurant.Settings,
		Categories:   categories,
		Translations: translations,
		Events:       events,
	}, nil
}

// ProvisionRestaurant creates a restaurant for a new owner. The desired
// slug (or one derived from the name) is tried first; on collision a
// numeric suffix is appended and retried a bounded number of times before
// giving up with ErrSlugGenerationFailed.
func (s *MenuService) ProvisionRestaurant(name, desiredSlug string, ownerID uint) (*models.Restaurant, error) {
	base := desiredSlug
	if base == "" {
		base = sanitize.Slugify(name)
	}
	if !sanitize.IsValidSlug(base) {
		return nil, apperrors.ValidationError{Field: "slug", Message: "geçersiz adres"}
	}

	const maxAttempts = 5
	var slug string
	for i := 0; i < maxAttempts; i++ {
		candidate := base
		if i > 0 {
			candidate = fmt.Sprintf("%s-%d", base, i+1)
		}

		_, err := s.restaurantRepo.GetBySlug(candidate)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				slug = candidate
				break
			}
			return nil, fmt.Errorf("database error checking slug uniqueness: %w", err)
		}
		log.Printf("Slug '%s' already exists, retrying (%d/%d)...", candidate, i+1, maxAttempts)
	}
	if slug == "" {
		return nil, apperrors.ErrSlugGenerationFailed
	}

	restaurant := &models.Restaurant{
		Name:    sanitize.SanitizeName(name),
		Slug:    slug,
		OwnerID: ownerID,
		Settings: models.RestaurantSettings{
			DefaultLanguage: "tr",
			Currency:        "TRY",
			ShowPrices:      true,
			AcceptReviews:   true,
		},
	}
	if err := s.restaurantRepo.CreateRestaurant(restaurant); err != nil {
		return nil, err
	}
	return restaurant, nil
}
