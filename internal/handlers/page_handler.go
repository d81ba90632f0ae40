package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notethatdown/notethatdown-api/internal/middleware"
	"github.com/notethatdown/notethatdown-api/internal/models"
	"github.com/notethatdown/notethatdown-api/internal/services"
)

const (
	onboardingFormPath = "/protected/onboarding/form"
	previewImagePath   = "/coming-soon-preview.png"
)

var dashboardLinks = []models.PageLink{
	{Title: "Questions", Path: "/protected/questions"},
	{Title: "Suggestions", Path: "/protected/suggestions"},
	{Title: "Profile", Path: "/protected/profile"},
}

// PageHandler serves the page models the frontend renders
type PageHandler struct {
	auth     services.AuthServiceInterface
	devHosts []string
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(auth services.AuthServiceInterface, devHosts []string) *PageHandler {
	return &PageHandler{
		auth:     auth,
		devHosts: devHosts,
	}
}

// Landing handles GET /
func (h *PageHandler) Landing(c *gin.Context) {
	tab := "signup"
	if c.Query("tab") == "login" {
		tab = "login"
	}

	c.JSON(http.StatusOK, models.LandingPage{
		DefaultTab:      tab,
		DeveloperAccess: middleware.IsDevHost(c.Request.Host, h.devHosts),
	})
}

// Login handles GET /login
func (h *PageHandler) Login(c *gin.Context) {
	c.JSON(http.StatusOK, models.LoginPage{
		DefaultTab: "login",
		Error:      c.Query("error"),
	})
}

// ComingSoon handles GET /coming-soon
func (h *PageHandler) ComingSoon(c *gin.Context) {
	c.JSON(http.StatusOK, models.ComingSoonPage{
		Title:        "Note That Down",
		Tagline:      "Elevate your standups. Capture your progress. Organize your workflow.",
		PreviewImage: previewImagePath,
	})
}

// Dashboard handles GET /protected
func (h *PageHandler) Dashboard(c *gin.Context) {
	subject, err := middleware.GetSubject(c)
	if err != nil || !subject.IsAuthenticated() {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	c.JSON(http.StatusOK, models.DashboardPage{
		Email: subject.Email,
		Links: dashboardLinks,
	})
}

// Profile handles GET /protected/profile with the provider's account record
func (h *PageHandler) Profile(c *gin.Context) {
	user, err := h.auth.GetUser(c.Request.Context(), middleware.GetAccessToken(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	c.JSON(http.StatusOK, models.ProfilePage{
		Email:        user.Email,
		CreatedAt:    user.CreatedAt,
		LastSignInAt: user.LastSignInAt,
	})
}

// Onboarding handles GET /protected/onboarding
func (h *PageHandler) Onboarding(c *gin.Context) {
	subject, err := middleware.GetSubject(c)
	if err != nil || !subject.IsAuthenticated() {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	c.JSON(http.StatusOK, models.OnboardingPage{
		Email:    subject.Email,
		FormPath: onboardingFormPath,
	})
}

// Questions handles GET /protected/questions
func (h *PageHandler) Questions(c *gin.Context) {
	c.JSON(http.StatusOK, models.QuestionsPage{
		Feedback: models.FeedbackQuestions,
		Standup:  models.StandupQuestions,
	})
}

// Suggestions handles GET /protected/suggestions
func (h *PageHandler) Suggestions(c *gin.Context) {
	c.JSON(http.StatusOK, models.SuggestionsPage{
		Categories: models.SuggestionCategories,
	})
}
