package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/selimacar/qrmenu/cmd"
	"github.com/selimacar/qrmenu/internal/config"
	"github.com/selimacar/qrmenu/internal/models"
	"github.com/selimacar/qrmenu/internal/repository"
	"github.com/selimacar/qrmenu/internal/services"
)

// SeedCmd provisions a demo restaurant with a small menu, translations
// and an announcement, for local development and manual testing.
var SeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seeds the database with a demo restaurant and menu.",
	Run: func(_ *cobra.Command, _ []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		db, err := gorm.Open(sqlite.Open(cfg.Database.Name), &gorm.Config{})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("FATAL: Failed to get underlying SQL database: %v", err)
		}
		defer sqlDB.Close()

		restaurantRepo := repository.NewRestaurantRepository(db)
		menuService := services.NewMenuService(restaurantRepo)

		restaurant, err := menuService.ProvisionRestaurant("Kozbeyli Konağı", "", 0)
		if err != nil {
			log.Fatalf("Failed to seed restaurant: %v", err)
		}

		categories := []models.MenuCategory{
			{RestaurantID: restaurant.ID, Name: "Kahvaltı", DisplayOrder: 1, Items: []models.MenuItem{
				{RestaurantID: restaurant.ID, Name: "Serpme Kahvaltı", Description: "Kişi başı, sınırsız çay dahil", Price: 450, Available: true, DisplayOrder: 1},
				{RestaurantID: restaurant.ID, Name: "Menemen", Price: 160, Available: true, DisplayOrder: 2},
			}},
			{RestaurantID: restaurant.ID, Name: "İçecekler", DisplayOrder: 2, Items: []models.MenuItem{
				{RestaurantID: restaurant.ID, Name: "Türk Kahvesi", Price: 90, Available: true, DisplayOrder: 1},
				{RestaurantID: restaurant.ID, Name: "Taze Sıkma Portakal Suyu", Price: 120, Available: true, DisplayOrder: 2},
			}},
		}
		for i := range categories {
			if err := db.Create(&categories[i]).Error; err != nil {
				log.Fatalf("Failed to seed category %s: %v", categories[i].Name, err)
			}
		}

		translations := []models.Translation{
			{RestaurantID: restaurant.ID, EntityType: models.EntityTypeCategory, EntityID: categories[0].ID, Language: "en", Field: "name", Value: "Breakfast"},
			{RestaurantID: restaurant.ID, EntityType: models.EntityTypeCategory, EntityID: categories[1].ID, Language: "en", Field: "name", Value: "Drinks"},
			{RestaurantID: restaurant.ID, EntityType: models.EntityTypeItem, EntityID: categories[0].Items[0].ID, Language: "en", Field: "name", Value: "Traditional Breakfast Spread"},
			{RestaurantID: restaurant.ID, EntityType: models.EntityTypeItem, EntityID: categories[1].Items[0].ID, Language: "en", Field: "name", Value: "Turkish Coffee"},
		}
		if err := db.Create(&translations).Error; err != nil {
			log.Fatalf("Failed to seed translations: %v", err)
		}

		event := models.RestaurantEvent{
			RestaurantID: restaurant.ID,
			Title:        "Canlı Müzik",
			Description:  "Her cumartesi akşamı",
			StartsAt:     time.Now().AddDate(0, 0, 3),
			EndsAt:       time.Now().AddDate(0, 0, 3).Add(4 * time.Hour),
		}
		if err := db.Create(&event).Error; err != nil {
			log.Fatalf("Failed to seed restaurant event: %v", err)
		}

		fmt.Printf("Seeded restaurant %q with slug %q\n", restaurant.Name, restaurant.Slug)
		fmt.Printf("Public menu: %s/api/menu/public?slug=%s\n", cfg.Server.BaseURL, restaurant.Slug)
	},
}

func init() {
	cmd.RootCmd.AddCommand(SeedCmd)
}
