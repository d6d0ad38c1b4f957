// Package apperrors defines the error values shared across services and
// handlers. Handlers translate these into HTTP statuses; anything not
// recognized becomes a generic 500 without leaking internals.
package apperrors

import (
	"errors"
	"fmt"
	"time"
)

// ErrRestaurantNotFound is returned when a slug resolves to no restaurant.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// ErrEmailTaken is returned when registration hits an existing email.
var ErrEmailTaken = errors.New("email already registered")

// ErrInvalidCredentials is returned on any login failure, deliberately
// without distinguishing unknown email from wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrSlugGenerationFailed is returned when no free slug variant could be
// found for a new restaurant.
var ErrSlugGenerationFailed = errors.New("failed to generate unique slug")

// RateLimitedError carries the remaining window so handlers can emit a
// Retry-After header.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry in %s", e.RetryAfter)
}

// ValidationError names the field that failed validation together with a
// user-readable, localized message.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}
