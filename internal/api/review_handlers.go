package api

import (
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/selimacar/qrmenu/internal/apperrors"
	"github.com/selimacar/qrmenu/internal/models"
	"github.com/selimacar/qrmenu/internal/ratelimit"
	"github.com/selimacar/qrmenu/internal/repository"
	"github.com/selimacar/qrmenu/internal/sanitize"
)

// SubmitReviewRequest is the anonymous review payload. Rating is a float
// so that non-integer values fail validation instead of binding.
type SubmitReviewRequest struct {
	RestaurantID uint    `json:"restaurant_id"`
	Rating       float64 `json:"rating"`
	Comment      string  `json:"comment"`
	FullName     string  `json:"full_name"`
	Phone        string  `json:"phone"`
	Email        string  `json:"email"`
}

// checkLimit applies a fixed-window policy for one scope and client IP,
// returning a RateLimitedError carrying the remaining window on denial.
func checkLimit(limiter *ratelimit.Limiter, scope string, c *gin.Context, p ratelimit.Policy) error {
	res := limiter.Check(scope+":"+c.ClientIP(), p.Max, p.Window)
	if !res.Allowed {
		return apperrors.RateLimitedError{RetryAfter: res.ResetIn}
	}
	return nil
}

// rateLimited writes the 429 response with a Retry-After header rounded up
// to whole seconds.
func rateLimited(c *gin.Context, err error) {
	retryAfter := 1
	var limitErr apperrors.RateLimitedError
	if errors.As(err, &limitErr) {
		if secs := int(math.Ceil(limitErr.RetryAfter.Seconds())); secs > 1 {
			retryAfter = secs
		}
	}
	c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
	c.JSON(http.StatusTooManyRequests, gin.H{
		"success":     false,
		"error":       "çok fazla istek gönderildi, lütfen daha sonra tekrar deneyin",
		"retry_after": retryAfter,
	})
}

// SubmitReviewHandler accepts anonymous guest reviews. Order matters and
// mirrors the public-write contract: rate limit by IP, required fields,
// rating range, email format, sanitize free text, persist.
func SubmitReviewHandler(reviewRepo repository.ReviewRepository, limiter *ratelimit.Limiter, policy ratelimit.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := checkLimit(limiter, "review", c, policy); err != nil {
			rateLimited(c, err)
			return
		}

		var req SubmitReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "geçersiz istek gövdesi"})
			return
		}

		if req.RestaurantID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "restaurant_id zorunludur"})
			return
		}
		if req.Rating == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "rating zorunludur"})
			return
		}
		if !sanitize.IsValidRating(req.Rating) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "rating 1 ile 5 arasında tam sayı olmalıdır"})
			return
		}
		if req.Email != "" && !sanitize.IsValidEmail(req.Email) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "geçersiz e-posta adresi"})
			return
		}

		review := &models.Review{
			RestaurantID: req.RestaurantID,
			Rating:       int(req.Rating),
			Comment:      sanitize.SanitizeComment(req.Comment),
			FullName:     sanitize.SanitizeName(req.FullName),
			Phone:        sanitize.SanitizeName(req.Phone),
			Email:        req.Email,
			Source:       models.ReviewSourcePublicMenu,
		}
		if err := reviewRepo.CreateReview(review); err != nil {
			log.Printf("Error persisting review for restaurant %d: %v", req.RestaurantID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "değerlendirme kaydedilemedi"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "değerlendirmeniz için teşekkürler",
		})
	}
}

// ListReviewsHandler serves the collected reviews with the running average
// for the owner dashboard. Behind AuthRequired.
func ListReviewsHandler(reviewRepo repository.ReviewRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		parsedID, err := strconv.ParseUint(c.Query("restaurant_id"), 10, 32)
		if err != nil || parsedID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "restaurant_id parametresi zorunludur"})
			return
		}
		restaurantID := uint(parsedID)

		reviews, err := reviewRepo.ListByRestaurant(restaurantID)
		if err != nil {
			log.Printf("Error listing reviews for restaurant %d: %v", restaurantID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "değerlendirmeler yüklenemedi"})
			return
		}
		average, count, err := reviewRepo.AverageRating(restaurantID)
		if err != nil {
			log.Printf("Error computing average rating for restaurant %d: %v", restaurantID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "değerlendirmeler yüklenemedi"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"reviews":        reviews,
			"average_rating": average,
			"count":          count,
		})
	}
}
