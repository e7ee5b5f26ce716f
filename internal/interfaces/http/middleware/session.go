package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/your-org/marketplace-backend/internal/config"
)

const (
	sessionHeader = "X-Session-Key"
	ctxSession    = "session_key"
)

// Session resolves the cart session key from the cookie or the
// X-Session-Key header, minting one when the client has none
func Session(cfg *config.Config) gin.HandlerFunc {
	name := cfg.Security.SessionCookieName
	maxAge := int(cfg.Security.SessionCookieTTL.Seconds())

	return func(c *gin.Context) {
		key := c.GetHeader(sessionHeader)
		if key == "" {
			if cookie, err := c.Cookie(name); err == nil {
				key = cookie
			}
		}
		if key == "" || len(key) > 64 {
			key = uuid.NewString()
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(name, key, maxAge, "/", "", cfg.Security.SecureCookies, true)
		c.Header(sessionHeader, key)
		c.Set(ctxSession, key)
		c.Next()
	}
}

// GetSessionKey returns the session key set by Session
func GetSessionKey(c *gin.Context) string {
	return c.GetString(ctxSession)
}
