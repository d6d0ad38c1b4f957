package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/selimacar/qrmenu/internal/apperrors"
	"github.com/selimacar/qrmenu/internal/services"
)

// PublicMenuHandler serves the full menu payload for a restaurant slug.
// Language defaults to Turkish.
func PublicMenuHandler(menuService *services.MenuService) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Query("slug")
		if slug == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "slug parametresi zorunludur"})
			return
		}
		lang := c.DefaultQuery("lang", "tr")

		menu, err := menuService.GetPublicMenu(slug, lang)
		if err != nil {
			if errors.Is(err, apperrors.ErrRestaurantNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "restoran bulunamadı"})
				return
			}
			log.Printf("Error loading public menu for slug %q: %v", slug, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "menü yüklenemedi"})
			return
		}

		c.JSON(http.StatusOK, menu)
	}
}

// MetricsHandler serves the aggregated dashboard metrics for a restaurant
// and date range (default: last 7 days). Owner-only, behind AuthRequired.
func MetricsHandler(aggregator services.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		parsedID, err := strconv.ParseUint(c.Query("restaurant_id"), 10, 32)
		if err != nil || parsedID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "restaurant_id parametresi zorunludur"})
			return
		}
		restaurantID := uint(parsedID)

		to := time.Now().UTC()
		from := to.AddDate(0, 0, -7)
		if v := c.Query("from"); v != "" {
			parsed, err := time.Parse(time.RFC3339, v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "geçersiz 'from' zaman formatı, RFC3339 bekleniyor"})
				return
			}
			from = parsed
		}
		if v := c.Query("to"); v != "" {
			parsed, err := time.Parse(time.RFC3339, v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "geçersiz 'to' zaman formatı, RFC3339 bekleniyor"})
				return
			}
			to = parsed
		}

		metrics, err := aggregator.ComputeMetrics(c.Request.Context(), restaurantID, from, to)
		if err != nil {
			log.Printf("Error computing metrics for restaurant %d: %v", restaurantID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "istatistikler hesaplanamadı"})
			return
		}

		c.JSON(http.StatusOK, metrics)
	}
}
