package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notethatdown/notethatdown-api/pkg/logger"
	"go.uber.org/zap"
)

// RequireSubject rejects form submissions from callers RequestGate did not authenticate
func RequireSubject() gin.HandlerFunc {
	return func(c *gin.Context) {
		subject, err := GetSubject(c)
		if err != nil || !subject.IsAuthenticated() {
			logger.Warn("Unauthenticated form submission",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		c.Next()
	}
}
