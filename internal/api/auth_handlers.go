package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/selimacar/qrmenu/internal/apperrors"
	"github.com/selimacar/qrmenu/internal/ratelimit"
	"github.com/selimacar/qrmenu/internal/sanitize"
	"github.com/selimacar/qrmenu/internal/services"
)

// LoginRequest is the owner login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest provisions an owner account plus their restaurant.
type RegisterRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	RestaurantName string `json:"restaurantName"`
	Slug           string `json:"slug"`
}

// LoginHandler authenticates a restaurant owner. Failures are localized
// and deliberately vague: the response never distinguishes an unknown
// email from a wrong password.
func LoginHandler(selector *services.Selector, limiter *ratelimit.Limiter, policy ratelimit.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := checkLimit(limiter, "login", c, policy); err != nil {
			rateLimited(c, err)
			return
		}

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "geçersiz istek gövdesi"})
			return
		}
		if !sanitize.IsValidEmail(req.Email) || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "e-posta ve şifre zorunludur"})
			return
		}

		result, err := selector.Current().Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, apperrors.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "e-posta veya şifre hatalı"})
				return
			}
			log.Printf("Unexpected login error for %s: %v", req.Email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "giriş yapılamadı"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"user":       result.User,
			"token":      result.Token,
			"restaurant": result.Restaurant,
		})
	}
}

// RegisterHandler creates a new owner and provisions their restaurant.
func RegisterHandler(selector *services.Selector, limiter *ratelimit.Limiter, policy ratelimit.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := checkLimit(limiter, "register", c, policy); err != nil {
			rateLimited(c, err)
			return
		}

		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "geçersiz istek gövdesi"})
			return
		}
		if !sanitize.IsValidEmail(req.Email) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "geçersiz e-posta adresi"})
			return
		}
		if check := sanitize.ValidatePassword(req.Password); !check.Valid {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": check.Message})
			return
		}
		if req.RestaurantName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "restoran adı zorunludur"})
			return
		}
		if req.Slug != "" && !sanitize.IsValidSlug(req.Slug) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "geçersiz adres: küçük harf, rakam ve tire kullanın"})
			return
		}

		result, err := selector.Current().Register(c.Request.Context(), req.Email, req.Password, req.RestaurantName, req.Slug)
		if err != nil {
			var validationErr apperrors.ValidationError
			switch {
			case errors.Is(err, apperrors.ErrEmailTaken):
				// Vague on purpose, same shape as other validation errors.
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "bu e-posta ile kayıt yapılamıyor"})
			case errors.As(err, &validationErr):
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": validationErr.Message})
			case errors.Is(err, apperrors.ErrSlugGenerationFailed):
				c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "kayıt şu anda tamamlanamıyor, lütfen tekrar deneyin"})
			default:
				log.Printf("Unexpected registration error for %s: %v", req.Email, err)
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "kayıt tamamlanamadı"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"user":       result.User,
			"token":      result.Token,
			"restaurant": result.Restaurant,
		})
	}
}
