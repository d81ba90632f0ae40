package services

import (
	"context"
	"time"

	"github.com/notethatdown/notethatdown-api/internal/access"
	"github.com/notethatdown/notethatdown-api/internal/models"
	"github.com/notethatdown/notethatdown-api/pkg/supabase"
)

// IdentityProvider is the part of the managed auth API the services use
type IdentityProvider interface {
	GetUser(ctx context.Context, accessToken string) (*supabase.User, error)
	SignInWithPassword(ctx context.Context, email, password string) (*supabase.Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (*supabase.Session, error)
	SignUp(ctx context.Context, email, password, redirectTo string) error
	SignOut(ctx context.Context, accessToken string) error
	SignInWithOTP(ctx context.Context, email, redirectTo string) error
}

// ProfileStore answers and records onboarding completion
type ProfileStore interface {
	Exists(ctx context.Context, userID string) (bool, error)
	Create(ctx context.Context, p *models.OnboardingProfile) error
}

// MagicLinkStore reads stored magic links
type MagicLinkStore interface {
	GetMagicLinkByToken(ctx context.Context, token string) (*models.MagicLink, error)
	DeleteMagicLink(ctx context.Context, token string) error
}

// SubscriberStore manages the waitlist
type SubscriberStore interface {
	CreateSubscriber(ctx context.Context, email string) (*models.Subscriber, error)
	ListSubscribers(ctx context.Context) ([]models.Subscriber, error)
}

// SubmissionStore persists form submissions
type SubmissionStore interface {
	CreateFeedback(ctx context.Context, userID string, answers map[string]string) (*models.Submission, error)
	CreateStandupEntry(ctx context.Context, userID string, answers map[string]string, createdAt time.Time) (*models.Submission, error)
	CreateSuggestion(ctx context.Context, userID, suggestion, category string) (*models.Submission, error)
}

// Uploader stores an object and returns its location
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// AuthServiceInterface defines the session and credential operations
type AuthServiceInterface interface {
	ResolveCaller(ctx context.Context, tokens models.SessionTokens) *CallerResolution
	SignIn(ctx context.Context, req *models.LoginRequest) (*models.SessionTokens, error)
	SignUp(ctx context.Context, req *models.SignupRequest) error
	SignOut(ctx context.Context, accessToken string)
	RequestMagicLink(ctx context.Context, email string) error
	GetUser(ctx context.Context, accessToken string) (*supabase.User, error)
}

// MagicLinkServiceInterface defines magic link validation and redemption
type MagicLinkServiceInterface interface {
	Validate(ctx context.Context, token string) (models.MagicLinkGrant, bool)
	Redeem(ctx context.Context, token string) (*models.SessionTokens, string, error)
}

// OnboardingServiceInterface defines onboarding submission
type OnboardingServiceInterface interface {
	Submit(ctx context.Context, subject access.Subject, req *models.OnboardingRequest) error
}

// SubscriptionServiceInterface defines the waitlist sign-up
type SubscriptionServiceInterface interface {
	Subscribe(ctx context.Context, email string) (*models.SubscribeResponse, error)
}

// FormServiceInterface defines the feedback form submissions
type FormServiceInterface interface {
	SubmitFeedback(ctx context.Context, userID string, req *models.FeedbackRequest) error
	SubmitStandup(ctx context.Context, userID string, req *models.StandupRequest) error
	SubmitSuggestion(ctx context.Context, userID string, req *models.SuggestionRequest) error
}

// Ensure services implement their interfaces
var (
	_ AuthServiceInterface         = (*AuthService)(nil)
	_ MagicLinkServiceInterface    = (*MagicLinkService)(nil)
	_ OnboardingServiceInterface   = (*OnboardingService)(nil)
	_ SubscriptionServiceInterface = (*SubscriptionService)(nil)
	_ FormServiceInterface         = (*FormService)(nil)
	_ IdentityProvider             = (*supabase.Client)(nil)
)
