package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/selimacar/qrmenu/cmd"
	"github.com/selimacar/qrmenu/internal/api"
	"github.com/selimacar/qrmenu/internal/config"
	"github.com/selimacar/qrmenu/internal/models"
	"github.com/selimacar/qrmenu/internal/monitor"
	"github.com/selimacar/qrmenu/internal/ratelimit"
	"github.com/selimacar/qrmenu/internal/repository"
	"github.com/selimacar/qrmenu/internal/services"
	"github.com/selimacar/qrmenu/internal/workers"
)

// RunServerCmd starts the HTTP API together with the background pieces:
// the analytics worker pool, the rate-limit sweeper and the auth-store
// availability monitor.
var RunServerCmd = &cobra.Command{
	Use:   "run-server",
	Short: "Starts the qrmenu API server and background workers.",
	Run: func(_ *cobra.Command, _ []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		if cfg.IsProduction() {
			gin.SetMode(gin.ReleaseMode)
		}

		db, err := gorm.Open(sqlite.Open(cfg.Database.Name), &gorm.Config{})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}

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

		restaurantRepo := repository.NewRestaurantRepository(db)
		eventRepo := repository.NewEventRepository(db)
		reviewRepo := repository.NewReviewRepository(db)
		log.Println("Repositories initialized.")

		menuService := services.NewMenuService(restaurantRepo)
		analyticsService := services.NewAnalyticsService(eventRepo, restaurantRepo)
		log.Println("Services initialized.")

		stop := make(chan struct{})

		// Async event ingestion pipeline.
		eventsChan := make(chan models.TrackedEvent, cfg.Analytics.BufferSize)
		workers.StartEventWorkers(cfg.Analytics.WorkerCount, eventsChan, eventRepo)
		log.Printf("Event channel initialized with a buffer of %d, %d worker(s) started.",
			cfg.Analytics.BufferSize, cfg.Analytics.WorkerCount)

		// Rate limiter with periodic eviction of expired windows.
		limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore())
		go limiter.StartSweeper(time.Duration(cfg.RateLimit.SweepIntervalSec)*time.Second, stop)

		// Auth providers: primary DB-backed, in-memory fallback behind the
		// availability monitor.
		jwtSecret := []byte(cfg.Auth.JWTSecret)
		primary := services.NewDBProvider(db, jwtSecret)
		fallback := services.NewMemoryProvider(jwtSecret)
		authMonitor := monitor.NewAvailabilityMonitor(
			cfg.Auth.ProbeURL,
			time.Duration(cfg.Auth.ProbeIntervalSec)*time.Second,
			time.Duration(cfg.Auth.ProbeTimeoutSec)*time.Second,
		)
		go authMonitor.Start(stop)
		authSelector := services.NewSelector(primary, fallback, authMonitor)

		// Recovery is installed by SetupRoutes, so only the logger goes here.
		router := gin.New()
		router.Use(gin.Logger())
		api.SetupRoutes(router, api.Deps{
			Config:      cfg,
			MenuService: menuService,
			Aggregator:  analyticsService,
			ReviewRepo:  reviewRepo,
			Limiter:     limiter,
			Auth:        authSelector,
			Events:      eventsChan,
			Metrics:     api.NewHTTPMetrics("qrmenu"),
		})
		log.Println("API routes configured.")

		serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
		srv := &http.Server{
			Addr:    serverAddr,
			Handler: router,
		}

		go func() {
			log.Printf("Starting server on %s", serverAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Failed to start server: %v", err)
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutdown signal received. Stopping server...")

		if err := shutdown(srv, stop, eventsChan, 5*time.Second); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}

		log.Println("Server stopped cleanly.")
	},
}

// shutdown quiesces the HTTP surface before the background components.
// The events channel is closed only after Shutdown returns, so an in-flight
// track request can still enqueue; the workers then drain the remaining
// buffer and exit.
func shutdown(srv *http.Server, stop chan struct{}, events chan models.TrackedEvent, timeout time.Duration) error {
	close(stop)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	close(events)
	return nil
}

func init() {
	cmd.RootCmd.AddCommand(RunServerCmd)
}
