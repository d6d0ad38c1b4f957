// Package session assigns the anonymous correlation identifier used to
// group analytics events from one browsing visit. The identifier is not an
// authentication credential; nothing ever trusts it for authorization.
package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CookieName is the session cookie set on public menu responses.
const CookieName = "session_id"

// MaxAge bounds a browsing session to 24 hours.
const MaxAge = 24 * time.Hour

// Resolve returns the session identifier for the request. An existing
// cookie is reused unchanged; otherwise a new identifier is generated and
// queued on the response as an http-only, SameSite=Lax cookie (Secure only
// when the server runs in production).
func Resolve(c *gin.Context, secure bool) (id string, isNew bool) {
	if existing, err := c.Cookie(CookieName); err == nil && existing != "" {
		return existing, false
	}

	id = uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, id, int(MaxAge/time.Second), "/", "", secure, true)
	return id, true
}
