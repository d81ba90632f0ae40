package repository

import (
	"context"

	"github.com/notethatdown/notethatdown-api/internal/cache"
	"github.com/notethatdown/notethatdown-api/internal/models"
	"github.com/notethatdown/notethatdown-api/pkg/logger"
	"go.uber.org/zap"
)

// ProfileRepository answers "has this user onboarded" with a positive-only cache in front
type ProfileRepository struct {
	source ProfileDataSource
	cache  *cache.ProfileCache
}

// NewProfileRepository creates a repository; a nil cache reads the data source every time
func NewProfileRepository(source ProfileDataSource, profileCache *cache.ProfileCache) *ProfileRepository {
	if profileCache == nil {
		logger.Warn("Profile cache disabled, every gated request reads the database")
	}
	return &ProfileRepository{source: source, cache: profileCache}
}

// Exists reports whether userID has a profile row
func (r *ProfileRepository) Exists(ctx context.Context, userID string) (bool, error) {
	if r.cache != nil && r.cache.Known(userID) {
		return true, nil
	}

	exists, err := r.source.ProfileExists(ctx, userID)
	if err != nil {
		return false, err
	}

	if exists && r.cache != nil {
		r.cache.Remember(userID)
	}
	return exists, nil
}

// Create stores the onboarding questionnaire and marks the user as onboarded
func (r *ProfileRepository) Create(ctx context.Context, p *models.OnboardingProfile) error {
	if err := r.source.CreateProfile(ctx, p); err != nil {
		return err
	}

	if r.cache != nil {
		r.cache.Remember(p.UserID)
	}
	logger.Debug("Profile created", zap.String("user_id", p.UserID))
	return nil
}
