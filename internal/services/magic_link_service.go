package services

import (
	"context"
	"time"

	"github.com/notethatdown/notethatdown-api/config"
	"github.com/notethatdown/notethatdown-api/internal/models"
	pkgerrors "github.com/notethatdown/notethatdown-api/pkg/errors"
	"github.com/notethatdown/notethatdown-api/pkg/logger"
	"github.com/notethatdown/notethatdown-api/pkg/metrics"
	"go.uber.org/zap"
)

// MagicLinkService validates stored magic links and signs their owners in
type MagicLinkService struct {
	links        MagicLinkStore
	identity     IdentityProvider
	consumeOnUse bool
	now          func() time.Time
}

// NewMagicLinkService creates a new MagicLinkService
func NewMagicLinkService(links MagicLinkStore, identity IdentityProvider, cfg *config.Config) *MagicLinkService {
	return &MagicLinkService{
		links:        links,
		identity:     identity,
		consumeOnUse: cfg.MagicLink.ConsumeOnUse,
		now:          time.Now,
	}
}

// Validate looks the token up and returns its grant when the link exists and has not expired.
// The token is matched by equality in storage; nothing is hashed or compared here.
func (s *MagicLinkService) Validate(ctx context.Context, token string) (models.MagicLinkGrant, bool) {
	link, err := s.links.GetMagicLinkByToken(ctx, token)
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.ErrNotFound) {
			metrics.MagicLinkValidations.WithLabelValues("not_found").Inc()
		} else {
			logger.Warn("Magic link lookup failed", zap.Error(err))
			metrics.MagicLinkValidations.WithLabelValues("lookup_error").Inc()
		}
		return models.MagicLinkGrant{}, false
	}

	if link.ExpiresAt.Before(s.now()) {
		metrics.MagicLinkValidations.WithLabelValues("expired").Inc()
		return models.MagicLinkGrant{}, false
	}

	metrics.MagicLinkValidations.WithLabelValues("valid").Inc()
	return models.MagicLinkGrant{
		UserID:    link.UserID,
		FormType:  link.FormType,
		ExpiresAt: link.ExpiresAt,
	}, true
}

// Redeem validates the token and signs its owner in, using the grant's user id as the
// login identifier and the token as the password. It returns the new session and the
// page the link opens.
func (s *MagicLinkService) Redeem(ctx context.Context, token string) (*models.SessionTokens, string, error) {
	grant, ok := s.Validate(ctx, token)
	if !ok {
		return nil, "", ErrInvalidMagicLink
	}

	session, err := s.identity.SignInWithPassword(ctx, grant.UserID, token)
	if err != nil {
		logger.Warn("Magic link sign-in failed",
			zap.String("user_id", grant.UserID),
			zap.Error(err))
		metrics.AuthRequests.WithLabelValues("magic_link_sign_in", outcome(err)).Inc()
		return nil, "", ErrMagicLinkAuthFailed
	}
	metrics.AuthRequests.WithLabelValues("magic_link_sign_in", "success").Inc()

	if s.consumeOnUse {
		if err := s.links.DeleteMagicLink(ctx, token); err != nil {
			logger.Error("Failed to consume magic link", zap.String("user_id", grant.UserID), zap.Error(err))
		}
	}

	return sessionTokens(session), grant.FormType.Destination(), nil
}
