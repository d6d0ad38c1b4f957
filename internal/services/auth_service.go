package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/selimacar/qrmenu/internal/apperrors"
	"github.com/selimacar/qrmenu/internal/models"
	"github.com/selimacar/qrmenu/internal/monitor"
	"github.com/selimacar/qrmenu/internal/repository"
	"github.com/selimacar/qrmenu/internal/sanitize"
)

// AuthResult is what a successful login or registration returns to the
// dashboard client.
type AuthResult struct {
	User       *models.User       `json:"user"`
	Token      string             `json:"token"`
	Restaurant *models.Restaurant `json:"restaurant"`
}

// Provider is the auth capability behind both the primary store and the
// degraded-mode fallback. Handlers depend only on this interface; which
// implementation serves a request is the Selector's decision.
type Provider interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, email, password, restaurantName, slug string) (*AuthResult, error)
}

// Claims are the JWT claims issued to authenticated owners.
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken signs a 24-hour owner token.
func GenerateToken(secret []byte, userID uint, email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "qrmenu",
			Subject:   fmt.Sprintf("%d", userID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies an owner token.
func ValidateToken(secret []byte, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}
	return claims, nil
}

// DBProvider is the primary Provider backed by the relational store.
type DBProvider struct {
	db        *gorm.DB
	userRepo  repository.UserRepository
	jwtSecret []byte
}

// NewDBProvider creates the primary auth provider over the shared database
// handle. Registration runs its writes inside a transaction, so the
// provider keeps the handle rather than prebuilt repositories.
func NewDBProvider(db *gorm.DB, jwtSecret []byte) *DBProvider {
	return &DBProvider{
		db:        db,
		userRepo:  repository.NewUserRepository(db),
		jwtSecret: jwtSecret,
	}
}

// Login implements Provider. Unknown email and wrong password collapse
// into the same error so responses cannot enumerate accounts.
func (p *DBProvider) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := p.userRepo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := GenerateToken(p.jwtSecret, user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	restaurant, err := p.userRepo.GetRestaurantByOwner(user.ID)
	if err != nil {
		// An owner without a restaurant can still log in; the dashboard
		// shows the provisioning flow instead.
		log.Printf("No restaurant for owner %d: %v", user.ID, err)
		restaurant = nil
	}

	return &AuthResult{User: user, Token: token, Restaurant: restaurant}, nil
}

// Register implements Provider: creates the owner account, hashes the
// password and provisions the restaurant with a unique slug.
func (p *DBProvider) Register(ctx context.Context, email, password, restaurantName, slug string) (*AuthResult, error) {
	if _, err := p.userRepo.GetUserByEmail(email); err == nil {
		return nil, apperrors.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: hash}
	var restaurant *models.Restaurant
	// Account and restaurant are created together or not at all: a failed
	// provisioning must not leave an orphan user claiming the email.
	err = p.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewUserRepository(tx).CreateUser(user); err != nil {
			return err
		}
		menuService := NewMenuService(repository.NewRestaurantRepository(tx))
		var provErr error
		restaurant, provErr = menuService.ProvisionRestaurant(restaurantName, slug, user.ID)
		return provErr
	})
	if err != nil {
		return nil, err
	}

	token, err := GenerateToken(p.jwtSecret, user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token, Restaurant: restaurant}, nil
}

// memoryAccount is one account held by the degraded-mode provider.
type memoryAccount struct {
	user       models.User
	hash       []byte
	restaurant models.Restaurant
}

// MemoryProvider is the degraded-mode fallback: a mutex-guarded in-memory
// account map behind the same interface as DBProvider. Accounts created
// here do not survive a restart; that is the accepted cost of staying up
// while the primary store is unreachable.
type MemoryProvider struct {
	mu        sync.Mutex
	accounts  map[string]*memoryAccount
	nextID    uint
	jwtSecret []byte
}

// NewMemoryProvider creates an empty fallback provider.
func NewMemoryProvider(jwtSecret []byte) *MemoryProvider {
	return &MemoryProvider{accounts: make(map[string]*memoryAccount), nextID: 1, jwtSecret: jwtSecret}
}

// Login implements Provider.
func (p *MemoryProvider) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	p.mu.Lock()
	acct, ok := p.accounts[email]
	p.mu.Unlock()
	if !ok {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acct.hash, []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := GenerateToken(p.jwtSecret, acct.user.ID, acct.user.Email)
	if err != nil {
		return nil, err
	}
	user := acct.user
	restaurant := acct.restaurant
	return &AuthResult{User: &user, Token: token, Restaurant: &restaurant}, nil
}

// Register implements Provider. An empty desired slug is derived from the
// restaurant name, matching what the primary provider provisions.
func (p *MemoryProvider) Register(ctx context.Context, email, password, restaurantName, slug string) (*AuthResult, error) {
	if slug == "" {
		slug = sanitize.Slugify(restaurantName)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	p.mu.Lock()
	if _, exists := p.accounts[email]; exists {
		p.mu.Unlock()
		return nil, apperrors.ErrEmailTaken
	}
	id := p.nextID
	p.nextID++
	acct := &memoryAccount{
		user: models.User{ID: id, Email: email, CreatedAt: time.Now()},
		hash: hash,
		restaurant: models.Restaurant{
			ID:      id,
			Name:    restaurantName,
			Slug:    slug,
			OwnerID: id,
		},
	}
	p.accounts[email] = acct
	p.mu.Unlock()

	log.Printf("[AUTH] Account %s registered on degraded fallback, will not survive restart", email)

	token, err := GenerateToken(p.jwtSecret, id, email)
	if err != nil {
		return nil, err
	}
	user := acct.user
	restaurant := acct.restaurant
	return &AuthResult{User: &user, Token: token, Restaurant: &restaurant}, nil
}

// Selector hands out the provider matching the auth store's current
// availability, so handlers never branch on status themselves.
type Selector struct {
	primary  Provider
	fallback Provider
	monitor  *monitor.AvailabilityMonitor
}

// NewSelector creates a Selector. A nil monitor pins the primary.
func NewSelector(primary, fallback Provider, m *monitor.AvailabilityMonitor) *Selector {
	return &Selector{primary: primary, fallback: fallback, monitor: m}
}

// Current returns the provider for the present availability status.
func (s *Selector) Current() Provider {
	if s.monitor != nil && s.monitor.Status() == monitor.StatusDegraded {
		return s.fallback
	}
	return s.primary
}
