package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body limits for form endpoints; the onboarding questionnaire is the largest payload
const (
	DefaultBodyLimit    int64 = 64 << 10
	OnboardingBodyLimit int64 = 256 << 10
)

// BodySizeLimit caps request bodies; reads past the limit fail during binding
func BodySizeLimit(maxBodySize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBodySize {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)
		c.Next()
	}
}
