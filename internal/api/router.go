// Package api wires the HTTP surface: public menu, anonymous telemetry
// and reviews, owner auth and dashboard metrics.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/selimacar/qrmenu/internal/config"
	"github.com/selimacar/qrmenu/internal/models"
	"github.com/selimacar/qrmenu/internal/ratelimit"
	"github.com/selimacar/qrmenu/internal/repository"
	"github.com/selimacar/qrmenu/internal/services"
)

// Deps carries everything the routes need.
type Deps struct {
	Config      *config.Config
	MenuService *services.MenuService
	Aggregator  services.Aggregator
	ReviewRepo  repository.ReviewRepository
	Limiter     *ratelimit.Limiter
	Auth        *services.Selector
	Events      chan<- models.TrackedEvent
	Metrics     *HTTPMetrics
}

// Policies derived from configuration, one per public-write scope.
func policies(cfg *config.Config) (login, register, review ratelimit.Policy) {
	login = ratelimit.Policy{Max: cfg.RateLimit.LoginMax, Window: time.Duration(cfg.RateLimit.LoginWindowSec) * time.Second}
	register = ratelimit.Policy{Max: cfg.RateLimit.RegisterMax, Window: time.Duration(cfg.RateLimit.RegisterWindowSec) * time.Second}
	review = ratelimit.Policy{Max: cfg.RateLimit.ReviewMax, Window: time.Duration(cfg.RateLimit.ReviewWindowSec) * time.Second}
	return login, register, review
}

// SetupRoutes configures all Gin routes. The outermost recovery converts
// any panic into a logged, generic 500 so one request can never take the
// process down.
func SetupRoutes(router *gin.Engine, deps Deps) {
	router.Use(gin.CustomRecovery(func(c *gin.Context, _ any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "beklenmeyen bir hata oluştu"})
	}))
	router.Use(SecurityHeaders())
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
	}

	router.GET("/health", HealthCheckHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	loginPolicy, registerPolicy, reviewPolicy := policies(deps.Config)
	secureCookies := deps.Config.IsProduction()

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/menu/public", PublicMenuHandler(deps.MenuService))
		apiGroup.POST("/analytics/track", TrackEventHandler(deps.Events, secureCookies))
		apiGroup.POST("/reviews/public", SubmitReviewHandler(deps.ReviewRepo, deps.Limiter, reviewPolicy))

		apiGroup.POST("/auth/login", LoginHandler(deps.Auth, deps.Limiter, loginPolicy))
		apiGroup.POST("/auth/register", RegisterHandler(deps.Auth, deps.Limiter, registerPolicy))

		protected := apiGroup.Group("/")
		protected.Use(AuthRequired([]byte(deps.Config.Auth.JWTSecret)))
		{
			protected.GET("/analytics/metrics", MetricsHandler(deps.Aggregator))
			protected.GET("/reviews", ListReviewsHandler(deps.ReviewRepo))
		}
	}
}

// HealthCheckHandler reports service liveness for load balancers.
func HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
