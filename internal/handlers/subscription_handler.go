package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notethatdown/notethatdown-api/internal/models"
	"github.com/notethatdown/notethatdown-api/internal/services"
)

type SubscriptionHandler struct {
	service services.SubscriptionServiceInterface
}

func NewSubscriptionHandler(service services.SubscriptionServiceInterface) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

// Subscribe handles POST /api/v1/subscribe
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	var req models.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.service.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, http.StatusInternalServerError, genericErrorMessage, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
