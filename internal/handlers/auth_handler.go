package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notethatdown/notethatdown-api/internal/access"
	"github.com/notethatdown/notethatdown-api/internal/middleware"
	"github.com/notethatdown/notethatdown-api/internal/models"
	"github.com/notethatdown/notethatdown-api/internal/services"
)

// AuthHandler handles credential sign-in, sign-up, sign-out and magic link requests
type AuthHandler struct {
	service services.AuthServiceInterface
	cookies *middleware.SessionCookies
	baseURL string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service services.AuthServiceInterface, cookies *middleware.SessionCookies, baseURL string) *AuthHandler {
	return &AuthHandler{
		service: service,
		cookies: cookies,
		baseURL: baseURL,
	}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tokens, err := h.service.SignIn(c.Request.Context(), &req)
	if err != nil {
		var rejected *services.RejectedError
		if errors.As(err, &rejected) {
			respondError(c, http.StatusUnauthorized, rejected.Message, err)
			return
		}
		respondError(c, http.StatusInternalServerError, "An unexpected error occurred", err)
		return
	}

	h.cookies.Write(c, tokens)
	c.JSON(http.StatusOK, models.AuthResponse{
		Success:    true,
		RedirectTo: access.ProtectedPath,
	})
}

// Signup handles POST /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	err := h.service.SignUp(c.Request.Context(), &req)
	if err != nil {
		var rejected *services.RejectedError
		switch {
		case errors.Is(err, services.ErrPasswordMismatch):
			respondError(c, http.StatusBadRequest, "Passwords do not match", err)
		case errors.As(err, &rejected):
			respondError(c, http.StatusBadRequest, rejected.Message, err)
		default:
			respondError(c, http.StatusInternalServerError, "An unexpected error occurred", err)
		}
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		Success: true,
		Message: "Check your email to confirm your account.",
	})
}

// Logout handles GET /auth/logout. Provider failures are ignored; cookies are always cleared.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.GetAccessToken(c)
	if token == "" {
		token = h.cookies.Read(c).AccessToken
	}

	h.service.SignOut(c.Request.Context(), token)
	h.cookies.Clear(c)
	c.Redirect(http.StatusTemporaryRedirect, h.baseURL+access.RootPath)
}

// RequestMagicLink handles POST /protected/magic-link
func (h *AuthHandler) RequestMagicLink(c *gin.Context) {
	subject, err := middleware.GetSubject(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	err = h.service.RequestMagicLink(c.Request.Context(), subject.Email)
	if err != nil {
		var rejected *services.RejectedError
		switch {
		case errors.Is(err, services.ErrNoEmail):
			respondError(c, http.StatusBadRequest, "No email address found", err)
		case errors.As(err, &rejected):
			respondError(c, http.StatusBadRequest, rejected.Message, err)
		default:
			respondError(c, http.StatusInternalServerError, "An unknown error occurred", err)
		}
		return
	}

	c.JSON(http.StatusOK, models.MagicLinkSentResponse{
		Success: true,
		Message: "Check your email for the magic link!",
	})
}
