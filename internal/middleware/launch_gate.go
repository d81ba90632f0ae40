package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/notethatdown/notethatdown-api/config"
	"github.com/notethatdown/notethatdown-api/internal/access"
	"github.com/notethatdown/notethatdown-api/pkg/metrics"
)

// IsDevHost reports whether host contains one of the developer hosts
func IsDevHost(host string, devHosts []string) bool {
	for _, h := range devHosts {
		if h != "" && strings.Contains(host, h) {
			return true
		}
	}
	return false
}

// LaunchGate keeps public visitors on the coming-soon page until launch. Developer hosts
// and, once launched, everyone continue to the request gate.
func LaunchGate(cfg config.LaunchConfig) gin.HandlerFunc {
	comingSoon := cfg.Mode == config.LaunchModeComingSoon

	return func(c *gin.Context) {
		if !comingSoon || IsDevHost(c.Request.Host, cfg.DevHosts) {
			metrics.GateDecisions.WithLabelValues("launch", "pass").Inc()
			c.Next()
			return
		}

		if !strings.HasPrefix(c.Request.URL.Path, access.ComingSoonPath) {
			metrics.GateDecisions.WithLabelValues("launch", "redirect").Inc()
			c.Redirect(http.StatusTemporaryRedirect, access.ComingSoonPath)
			c.Abort()
			return
		}

		metrics.GateDecisions.WithLabelValues("launch", "pass_no_session").Inc()
		c.Set(skipSessionContextKey, true)
		c.Next()
	}
}
