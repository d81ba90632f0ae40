package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notethatdown/notethatdown-api/internal/middleware"
	"github.com/notethatdown/notethatdown-api/internal/services"
)

const (
	invalidLinkRedirect = "/login?error=invalid_link"
	authFailedRedirect  = "/login?error=auth_failed"
)

// MagicLinkHandler redeems stored magic links
type MagicLinkHandler struct {
	service services.MagicLinkServiceInterface
	cookies *middleware.SessionCookies
}

// NewMagicLinkHandler creates a new MagicLinkHandler
func NewMagicLinkHandler(service services.MagicLinkServiceInterface, cookies *middleware.SessionCookies) *MagicLinkHandler {
	return &MagicLinkHandler{
		service: service,
		cookies: cookies,
	}
}

// Redeem handles GET /magic-link/:token. Every outcome is a redirect.
func (h *MagicLinkHandler) Redeem(c *gin.Context) {
	tokens, destination, err := h.service.Redeem(c.Request.Context(), c.Param("token"))
	if err != nil {
		attachError(c, err)
		if errors.Is(err, services.ErrInvalidMagicLink) {
			c.Redirect(http.StatusTemporaryRedirect, invalidLinkRedirect)
			return
		}
		c.Redirect(http.StatusTemporaryRedirect, authFailedRedirect)
		return
	}

	h.cookies.Write(c, tokens)
	c.Redirect(http.StatusTemporaryRedirect, destination)
}
