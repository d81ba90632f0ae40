package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/notethatdown/notethatdown-api/config"
	"github.com/notethatdown/notethatdown-api/internal/access"
	"github.com/notethatdown/notethatdown-api/internal/middleware"
	"github.com/notethatdown/notethatdown-api/internal/models"
	"github.com/notethatdown/notethatdown-api/internal/services"
	"github.com/notethatdown/notethatdown-api/pkg/logger"
	"github.com/notethatdown/notethatdown-api/pkg/supabase"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)

	if err := logger.Initialize(logger.Config{Level: "error", Environment: "development"}); err != nil {
		panic(err)
	}
}

const (
	testUserID = "0b7c5a1e-2f0c-4c59-9a0e-8d4f2b9e6a13"
	testEmail  = "ada@example.com"
)

func testCookies() *middleware.SessionCookies {
	return middleware.NewSessionCookies(config.SessionConfig{CookieSecure: true, RefreshTTLHours: 24})
}

// withSubject stands in for RequestGate
func withSubject(subject access.Subject, accessToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.SubjectContextKey, subject)
		if accessToken != "" {
			c.Set(middleware.AccessTokenContextKey, accessToken)
		}
		c.Next()
	}
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) ResolveCaller(ctx context.Context, tokens models.SessionTokens) *services.CallerResolution {
	return m.Called(ctx, tokens).Get(0).(*services.CallerResolution)
}

func (m *MockAuthService) SignIn(ctx context.Context, req *models.LoginRequest) (*models.SessionTokens, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionTokens), args.Error(1)
}

func (m *MockAuthService) SignUp(ctx context.Context, req *models.SignupRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockAuthService) SignOut(ctx context.Context, accessToken string) {
	m.Called(ctx, accessToken)
}

func (m *MockAuthService) RequestMagicLink(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthService) GetUser(ctx context.Context, accessToken string) (*supabase.User, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supabase.User), args.Error(1)
}

type MockMagicLinkService struct {
	mock.Mock
}

func (m *MockMagicLinkService) Validate(ctx context.Context, token string) (models.MagicLinkGrant, bool) {
	args := m.Called(ctx, token)
	return args.Get(0).(models.MagicLinkGrant), args.Bool(1)
}

func (m *MockMagicLinkService) Redeem(ctx context.Context, token string) (*models.SessionTokens, string, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*models.SessionTokens), args.String(1), args.Error(2)
}

type MockOnboardingService struct {
	mock.Mock
}

func (m *MockOnboardingService) Submit(ctx context.Context, subject access.Subject, req *models.OnboardingRequest) error {
	return m.Called(ctx, subject, req).Error(0)
}

type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) Subscribe(ctx context.Context, email string) (*models.SubscribeResponse, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubscribeResponse), args.Error(1)
}

type MockFormService struct {
	mock.Mock
}

func (m *MockFormService) SubmitFeedback(ctx context.Context, userID string, req *models.FeedbackRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}

func (m *MockFormService) SubmitStandup(ctx context.Context, userID string, req *models.StandupRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}

func (m *MockFormService) SubmitSuggestion(ctx context.Context, userID string, req *models.SuggestionRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}
