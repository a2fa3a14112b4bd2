package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionCookieName   = "cart_session"
	ContextKeySessionID = "cart_session_id"
)

type CartSessionConfig struct {
	CookieDomain   string
	CookiePath     string
	CookieSecure   bool
	CookieSameSite http.SameSite
}

func DefaultCartSessionConfig() CartSessionConfig {
	return CartSessionConfig{
		CookiePath:     "/",
		CookieSecure:   true,
		CookieSameSite: http.SameSiteLaxMode,
	}
}

// CartSession makes sure every request carries a cart session id. A missing or
// malformed cookie is replaced by a new uuid. The cookie is a session cookie: the
// cart lives only as long as the browser session.
func CartSession(config CartSessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := sessionFromCookie(c)
		if sessionID == "" {
			sessionID = uuid.New().String()
			c.SetSameSite(config.CookieSameSite)
			c.SetCookie(SessionCookieName, sessionID, 0, config.CookiePath, config.CookieDomain, config.CookieSecure, true)
		}
		c.Set(ContextKeySessionID, sessionID)
		c.Next()
	}
}

// GetSessionID returns the id CartSession stored, or "" outside that middleware.
func GetSessionID(c *gin.Context) string {
	return c.GetString(ContextKeySessionID)
}

func sessionFromCookie(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || sessionID == "" {
		return ""
	}
	if _, err := uuid.Parse(sessionID); err != nil {
		return ""
	}
	return sessionID
}
