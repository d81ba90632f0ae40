package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notethatdown/notethatdown-api/internal/access"
	"github.com/notethatdown/notethatdown-api/internal/models"
	"github.com/notethatdown/notethatdown-api/internal/services"
	"github.com/notethatdown/notethatdown-api/pkg/logger"
	"github.com/notethatdown/notethatdown-api/pkg/metrics"
	"go.uber.org/zap"
)

const (
	// SubjectContextKey stores the resolved caller
	SubjectContextKey = "subject"

	// AccessTokenContextKey stores the access token valid for this request,
	// which differs from the request cookie after a refresh
	AccessTokenContextKey = "access_token"

	// skipSessionContextKey is set by the launch gate when the caller is let through
	// without session resolution
	skipSessionContextKey = "skip_session"
)

var (
	ErrSubjectNotFound = errors.New("subject not found in context")
	ErrInvalidSubject  = errors.New("invalid subject type")
)

// CallerResolver turns session tokens into a caller
type CallerResolver interface {
	ResolveCaller(ctx context.Context, tokens models.SessionTokens) *services.CallerResolution
}

// RequestGate resolves the caller from the session cookies and applies the page access
// policy. Refreshed tokens are written back before any redirect.
func RequestGate(resolver CallerResolver, cookies *SessionCookies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetBool(skipSessionContextKey) {
			c.Set(SubjectContextKey, access.Anonymous())
			c.Next()
			return
		}

		tokens := cookies.Read(c)
		res := resolver.ResolveCaller(c.Request.Context(), tokens)

		switch {
		case res.Refreshed != nil:
			cookies.Write(c, res.Refreshed)
			tokens = *res.Refreshed
		case res.ClearSession:
			cookies.Clear(c)
			tokens = models.SessionTokens{}
		}

		c.Set(SubjectContextKey, res.Subject)
		if res.Subject.IsAuthenticated() {
			c.Set(AccessTokenContextKey, tokens.AccessToken)
		}

		decision := access.Decide(c.Request.URL.Path, res.Subject)
		metrics.GateDecisions.WithLabelValues("request", decision.Label()).Inc()

		if decision.Redirects() {
			logger.Debug("Request gate redirect",
				zap.String("path", c.Request.URL.Path),
				zap.String("location", decision.Location),
				zap.Bool("authenticated", res.Subject.IsAuthenticated()))
			redirectPreservingQuery(c, decision.Location)
			return
		}

		if decision.NoStore {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
		}

		c.Next()
	}
}

// GetSubject returns the caller resolved by RequestGate
func GetSubject(c *gin.Context) (access.Subject, error) {
	val, exists := c.Get(SubjectContextKey)
	if !exists {
		return access.Anonymous(), ErrSubjectNotFound
	}

	subject, ok := val.(access.Subject)
	if !ok {
		return access.Anonymous(), ErrInvalidSubject
	}

	return subject, nil
}

// GetAccessToken returns the access token backing the resolved subject, or ""
func GetAccessToken(c *gin.Context) string {
	return c.GetString(AccessTokenContextKey)
}

func redirectPreservingQuery(c *gin.Context, location string) {
	if raw := c.Request.URL.RawQuery; raw != "" {
		location += "?" + raw
	}
	c.Redirect(http.StatusTemporaryRedirect, location)
	c.Abort()
}
