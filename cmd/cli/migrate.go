package cli

import (
	"fmt"
	"log"

	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/selimacar/qrmenu/cmd"
	"github.com/selimacar/qrmenu/internal/config"
	"github.com/selimacar/qrmenu/internal/models"
)

// MigrateCmd creates or updates the database schema from the Go models.
var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Executes database migrations to create or update tables.",
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

		if err := db.AutoMigrate(
			&models.User{},
			&models.Restaurant{},
			&models.RestaurantSettings{},
			&models.MenuCategory{},
			&models.MenuItem{},
			&models.Translation{},
			&models.RestaurantEvent{},
			&models.Review{},
			&models.AnalyticsEvent{},
		); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}

		fmt.Println("Database migrations executed successfully.")
	},
}

func init() {
	cmd.RootCmd.AddCommand(MigrateCmd)
}
