package repository

import (
	"context"
	"time"

	"github.com/notethatdown/notethatdown-api/internal/database/postgres"
	"github.com/notethatdown/notethatdown-api/internal/models"
)

// ProfileDataSource reads and writes onboarding profiles
type ProfileDataSource interface {
	ProfileExists(ctx context.Context, userID string) (bool, error)
	CreateProfile(ctx context.Context, p *models.OnboardingProfile) error
}

// MagicLinkDataSource reads and deletes stored magic links
type MagicLinkDataSource interface {
	GetMagicLinkByToken(ctx context.Context, token string) (*models.MagicLink, error)
	DeleteMagicLink(ctx context.Context, token string) error
}

// SubscriberDataSource manages the waitlist
type SubscriberDataSource interface {
	CreateSubscriber(ctx context.Context, email string) (*models.Subscriber, error)
	ListSubscribers(ctx context.Context) ([]models.Subscriber, error)
}

// SubmissionDataSource stores form submissions
type SubmissionDataSource interface {
	CreateFeedback(ctx context.Context, userID string, answers map[string]string) (*models.Submission, error)
	CreateStandupEntry(ctx context.Context, userID string, answers map[string]string, createdAt time.Time) (*models.Submission, error)
	CreateSuggestion(ctx context.Context, userID, suggestion, category string) (*models.Submission, error)
}

var (
	_ ProfileDataSource    = (*postgres.Client)(nil)
	_ MagicLinkDataSource  = (*postgres.Client)(nil)
	_ SubscriberDataSource = (*postgres.Client)(nil)
	_ SubmissionDataSource = (*postgres.Client)(nil)
)
