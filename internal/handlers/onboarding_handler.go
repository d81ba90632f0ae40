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

// OnboardingHandler accepts the onboarding questionnaire
type OnboardingHandler struct {
	service services.OnboardingServiceInterface
}

// NewOnboardingHandler creates a new OnboardingHandler
func NewOnboardingHandler(service services.OnboardingServiceInterface) *OnboardingHandler {
	return &OnboardingHandler{service: service}
}

// Submit handles POST /protected/onboarding/form
func (h *OnboardingHandler) Submit(c *gin.Context) {
	subject, err := middleware.GetSubject(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	err = h.service.Submit(c.Request.Context(), subject, &req)
	var verr *services.ValidationError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, models.RedirectResponse{Success: true, RedirectTo: access.ProtectedPath})
	case errors.Is(err, services.ErrNotAuthenticated):
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
	case errors.Is(err, services.ErrProfileExists):
		respondError(c, http.StatusConflict, "Onboarding has already been completed", err)
	case errors.As(err, &verr):
		respondServiceError(c, err)
	default:
		respondError(c, http.StatusInternalServerError, "Failed to save your profile. Please try again.", err)
	}
}
