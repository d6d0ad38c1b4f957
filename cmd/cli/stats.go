package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/selimacar/qrmenu/cmd"
	"github.com/selimacar/qrmenu/internal/config"
	"github.com/selimacar/qrmenu/internal/repository"
	"github.com/selimacar/qrmenu/internal/services"
)

var statsDaysFlag int

// StatsCmd prints the aggregated dashboard metrics for a restaurant slug.
var StatsCmd = &cobra.Command{
	Use:   "stats [slug]",
	Short: "Prints analytics metrics for a restaurant",
	Args:  cobra.ExactArgs(1),
	Run:   runStats,
}

func init() {
	StatsCmd.Flags().IntVar(&statsDaysFlag, "days", 7, "Number of days to aggregate")
	cmd.RootCmd.AddCommand(StatsCmd)
}

func runStats(_ *cobra.Command, args []string) {
	slug := args[0]

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
	eventRepo := repository.NewEventRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	analyticsService := services.NewAnalyticsService(eventRepo, restaurantRepo)

	restaurant, err := restaurantRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Printf("Error: restaurant '%s' not found\n", slug)
		} else {
			fmt.Printf("Error resolving restaurant: %v\n", err)
		}
		os.Exit(1)
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -statsDaysFlag)
	metrics, err := analyticsService.ComputeMetrics(context.Background(), restaurant.ID, from, to)
	if err != nil {
		fmt.Printf("Error computing metrics: %v\n", err)
		os.Exit(1)
	}

	totalEvents, err := eventRepo.CountEvents(restaurant.ID)
	if err != nil {
		fmt.Printf("Error counting events: %v\n", err)
		os.Exit(1)
	}
	avgRating, reviewCount, err := reviewRepo.AverageRating(restaurant.ID)
	if err != nil {
		fmt.Printf("Error computing review summary: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Metrics for %s (last %d days)\n", restaurant.Name, statsDaysFlag)
	fmt.Printf("  Views: %d  Clicks: %d  QR scans: %d  Sessions: %d\n",
		metrics.TotalViews, metrics.TotalClicks, metrics.QRScans, metrics.TotalSessions)
	fmt.Printf("  Avg time spent: %.1fs\n", metrics.AvgTimeSpentSec)
	fmt.Printf("  Events recorded (all time): %d\n", totalEvents)
	if reviewCount > 0 {
		fmt.Printf("  Reviews: %d (average rating %.1f)\n", reviewCount, avgRating)
	}

	if len(metrics.TopClickedItems) > 0 {
		fmt.Println("  Top clicked items:")
		for _, item := range metrics.TopClickedItems {
			fmt.Printf("    %-30s %d\n", item.Name, item.Count)
		}
	}
	if len(metrics.LeastViewedItems) > 0 {
		fmt.Println("  Least viewed items:")
		for _, item := range metrics.LeastViewedItems {
			fmt.Printf("    %-30s %d\n", item.Name, item.Count)
		}
	}
	if len(metrics.DeviceBreakdown) > 0 {
		fmt.Printf("  Devices: %v\n", metrics.DeviceBreakdown)
	}
	if len(metrics.TrafficSources) > 0 {
		fmt.Printf("  Traffic sources: %v\n", metrics.TrafficSources)
	}
}
