package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notethatdown/notethatdown-api/internal/access"
	"github.com/notethatdown/notethatdown-api/internal/middleware"
	"github.com/notethatdown/notethatdown-api/internal/models"
	"github.com/notethatdown/notethatdown-api/internal/services"
)

// FormHandler accepts feedback, standup and suggestion submissions
type FormHandler struct {
	service services.FormServiceInterface
}

// NewFormHandler creates a new FormHandler
func NewFormHandler(service services.FormServiceInterface) *FormHandler {
	return &FormHandler{service: service}
}

// SubmitFeedback handles POST /protected/questions
func (h *FormHandler) SubmitFeedback(c *gin.Context) {
	var req models.FeedbackRequest
	if !bindForm(c, &req) {
		return
	}

	if err := h.service.SubmitFeedback(c.Request.Context(), callerID(c), &req); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SubmissionResponse{
		Success:    true,
		Message:    "Thanks for your feedback!",
		RedirectTo: access.ProtectedPath,
	})
}

// SubmitStandup handles POST /protected/standup
func (h *FormHandler) SubmitStandup(c *gin.Context) {
	var req models.StandupRequest
	if !bindForm(c, &req) {
		return
	}

	if err := h.service.SubmitStandup(c.Request.Context(), callerID(c), &req); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SubmissionResponse{
		Success: true,
		Message: "Your standup has been saved.",
	})
}

// SubmitSuggestion handles POST /protected/suggestions
func (h *FormHandler) SubmitSuggestion(c *gin.Context) {
	var req models.SuggestionRequest
	if !bindForm(c, &req) {
		return
	}

	if err := h.service.SubmitSuggestion(c.Request.Context(), callerID(c), &req); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SubmissionResponse{
		Success: true,
		Message: "Thank you for your suggestion!",
	})
}

func bindForm(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondBindError(c, err)
		return false
	}
	return true
}

// callerID is the authenticated user's id; routes are mounted behind RequireSubject
func callerID(c *gin.Context) string {
	subject, _ := middleware.GetSubject(c) //nolint:errcheck
	return subject.UserID
}
