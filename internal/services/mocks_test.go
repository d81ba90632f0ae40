package services_test

import (
	"context"
	"time"

	"github.com/notethatdown/notethatdown-api/internal/models"
	"github.com/notethatdown/notethatdown-api/pkg/supabase"
	"github.com/stretchr/testify/mock"
)

// MockIdentityProvider is a mock implementation of IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) GetUser(ctx context.Context, accessToken string) (*supabase.User, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supabase.User), args.Error(1)
}

func (m *MockIdentityProvider) SignInWithPassword(ctx context.Context, email, password string) (*supabase.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supabase.Session), args.Error(1)
}

func (m *MockIdentityProvider) RefreshSession(ctx context.Context, refreshToken string) (*supabase.Session, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supabase.Session), args.Error(1)
}

func (m *MockIdentityProvider) SignUp(ctx context.Context, email, password, redirectTo string) error {
	return m.Called(ctx, email, password, redirectTo).Error(0)
}

func (m *MockIdentityProvider) SignOut(ctx context.Context, accessToken string) error {
	return m.Called(ctx, accessToken).Error(0)
}

func (m *MockIdentityProvider) SignInWithOTP(ctx context.Context, email, redirectTo string) error {
	return m.Called(ctx, email, redirectTo).Error(0)
}

// MockProfileStore is a mock implementation of ProfileStore
type MockProfileStore struct {
	mock.Mock
}

func (m *MockProfileStore) Exists(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileStore) Create(ctx context.Context, p *models.OnboardingProfile) error {
	return m.Called(ctx, p).Error(0)
}

// MockMagicLinkStore is a mock implementation of MagicLinkStore
type MockMagicLinkStore struct {
	mock.Mock
}

func (m *MockMagicLinkStore) GetMagicLinkByToken(ctx context.Context, token string) (*models.MagicLink, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MagicLink), args.Error(1)
}

func (m *MockMagicLinkStore) DeleteMagicLink(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

// MockSubscriberStore is a mock implementation of SubscriberStore
type MockSubscriberStore struct {
	mock.Mock
}

func (m *MockSubscriberStore) CreateSubscriber(ctx context.Context, email string) (*models.Subscriber, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscriber), args.Error(1)
}

func (m *MockSubscriberStore) ListSubscribers(ctx context.Context) ([]models.Subscriber, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Subscriber), args.Error(1)
}

// MockSubmissionStore is a mock implementation of SubmissionStore
type MockSubmissionStore struct {
	mock.Mock
}

func (m *MockSubmissionStore) CreateFeedback(ctx context.Context, userID string, answers map[string]string) (*models.Submission, error) {
	args := m.Called(ctx, userID, answers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Submission), args.Error(1)
}

func (m *MockSubmissionStore) CreateStandupEntry(ctx context.Context, userID string, answers map[string]string, createdAt time.Time) (*models.Submission, error) {
	args := m.Called(ctx, userID, answers, createdAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Submission), args.Error(1)
}

func (m *MockSubmissionStore) CreateSuggestion(ctx context.Context, userID, suggestion, category string) (*models.Submission, error) {
	args := m.Called(ctx, userID, suggestion, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Submission), args.Error(1)
}

// MockUploader is a mock implementation of Uploader
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	args := m.Called(ctx, key, contentType, body)
	return args.String(0), args.Error(1)
}
