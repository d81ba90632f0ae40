package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notethatdown/notethatdown-api/config"
	"github.com/notethatdown/notethatdown-api/internal/models"
)

const (
	// AccessTokenCookieName holds the identity provider's access token
	AccessTokenCookieName = "sb-access-token"

	// RefreshTokenCookieName holds the identity provider's refresh token
	RefreshTokenCookieName = "sb-refresh-token"
)

// SessionCookies reads and writes the session cookie pair
type SessionCookies struct {
	domain     string
	secure     bool
	ttlSeconds int
}

// NewSessionCookies creates SessionCookies from the session config
func NewSessionCookies(cfg config.SessionConfig) *SessionCookies {
	return &SessionCookies{
		domain:     cfg.CookieDomain,
		secure:     cfg.CookieSecure,
		ttlSeconds: cfg.RefreshTTLHours * 3600,
	}
}

// Read returns the tokens carried by the request; missing cookies are empty strings
func (s *SessionCookies) Read(c *gin.Context) models.SessionTokens {
	access, _ := c.Cookie(AccessTokenCookieName)   //nolint:errcheck
	refresh, _ := c.Cookie(RefreshTokenCookieName) //nolint:errcheck
	return models.SessionTokens{AccessToken: access, RefreshToken: refresh}
}

// Write sets both session cookies on the response
func (s *SessionCookies) Write(c *gin.Context, tokens *models.SessionTokens) {
	s.set(c, AccessTokenCookieName, tokens.AccessToken, s.ttlSeconds)
	s.set(c, RefreshTokenCookieName, tokens.RefreshToken, s.ttlSeconds)
}

// Clear expires both session cookies
func (s *SessionCookies) Clear(c *gin.Context) {
	s.set(c, AccessTokenCookieName, "", -1)
	s.set(c, RefreshTokenCookieName, "", -1)
}

func (s *SessionCookies) set(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		name,
		value,
		maxAge,
		"/",
		s.domain,
		s.secure,
		true, // HttpOnly
	)
}
