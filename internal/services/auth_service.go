package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/notethatdown/notethatdown-api/config"
	"github.com/notethatdown/notethatdown-api/internal/access"
	"github.com/notethatdown/notethatdown-api/internal/models"
	"github.com/notethatdown/notethatdown-api/pkg/jwt"
	"github.com/notethatdown/notethatdown-api/pkg/logger"
	"github.com/notethatdown/notethatdown-api/pkg/metrics"
	"github.com/notethatdown/notethatdown-api/pkg/supabase"
	"go.uber.org/zap"
)

const (
	authCallbackPath = "/auth/callback"
	magicLinkLanding = "/protected/questions"
)

// CallerResolution is the outcome of resolving the caller behind a request's session cookies
type CallerResolution struct {
	Subject access.Subject
	// Refreshed holds new tokens when the session was refreshed; they must be written back
	Refreshed *models.SessionTokens
	// ClearSession asks for the session cookies to be removed
	ClearSession bool
}

// AuthService wraps the identity provider for sessions, sign-in and sign-up
type AuthService struct {
	identity IdentityProvider
	profiles ProfileStore
	decoder  *jwt.Decoder
	baseURL  string
}

// NewAuthService creates a new AuthService
func NewAuthService(identity IdentityProvider, profiles ProfileStore, cfg *config.Config) *AuthService {
	return &AuthService{
		identity: identity,
		profiles: profiles,
		decoder:  jwt.NewDecoder(cfg.Supabase.JWTSecret),
		baseURL:  cfg.Server.BaseURL,
	}
}

// ResolveCaller turns session tokens into a Subject. Identity lookup failures yield an
// anonymous caller and profile lookup failures yield a caller without a profile; neither
// is reported as an error.
func (s *AuthService) ResolveCaller(ctx context.Context, tokens models.SessionTokens) *CallerResolution {
	res := &CallerResolution{Subject: access.Anonymous()}

	if tokens.AccessToken == "" && tokens.RefreshToken == "" {
		metrics.SessionResolutions.WithLabelValues("no_session").Inc()
		return res
	}

	accessToken := tokens.AccessToken
	if s.needsRefresh(accessToken) {
		if tokens.RefreshToken == "" {
			metrics.SessionResolutions.WithLabelValues("expired").Inc()
			res.ClearSession = true
			return res
		}

		session, err := s.identity.RefreshSession(ctx, tokens.RefreshToken)
		if err != nil {
			logger.Warn("Session refresh failed", zap.Error(err))
			metrics.SessionResolutions.WithLabelValues("refresh_failed").Inc()
			res.ClearSession = true
			return res
		}

		res.Refreshed = sessionTokens(session)
		accessToken = session.AccessToken
	}

	user, err := s.identity.GetUser(ctx, accessToken)
	if err != nil {
		logger.Warn("Failed to resolve caller", zap.Error(err))
		metrics.SessionResolutions.WithLabelValues("identity_error").Inc()
		return res
	}
	if _, err := uuid.Parse(user.ID); err != nil {
		logger.Warn("Identity provider returned a malformed user id", zap.String("user_id", user.ID))
		metrics.SessionResolutions.WithLabelValues("identity_error").Inc()
		return res
	}

	hasProfile, err := s.profiles.Exists(ctx, user.ID)
	if err != nil {
		logger.Warn("Profile lookup failed, treating caller as not onboarded",
			zap.String("user_id", user.ID),
			zap.Error(err))
		metrics.SessionResolutions.WithLabelValues("profile_error").Inc()
		hasProfile = false
	} else {
		metrics.SessionResolutions.WithLabelValues("authenticated").Inc()
	}

	res.Subject = access.Authenticated(user.ID, user.Email, hasProfile)
	return res
}

// needsRefresh reports whether the access token is missing, unreadable or expired
func (s *AuthService) needsRefresh(accessToken string) bool {
	if accessToken == "" {
		return true
	}
	_, err := s.decoder.Decode(accessToken)
	return err != nil
}

// GetUser returns the provider's record of the caller
func (s *AuthService) GetUser(ctx context.Context, accessToken string) (*supabase.User, error) {
	if accessToken == "" {
		return nil, ErrNotAuthenticated
	}
	return s.identity.GetUser(ctx, accessToken)
}

// SignIn exchanges email and password for session tokens
func (s *AuthService) SignIn(ctx context.Context, req *models.LoginRequest) (*models.SessionTokens, error) {
	session, err := s.identity.SignInWithPassword(ctx, normalizeEmail(req.Email), req.Password)
	if err != nil {
		metrics.AuthRequests.WithLabelValues("sign_in", outcome(err)).Inc()
		return nil, rejectedOr(err)
	}

	metrics.AuthRequests.WithLabelValues("sign_in", "success").Inc()
	logger.Info("User signed in", zap.String("user_id", session.User.ID))
	return sessionTokens(session), nil
}

// SignUp registers an account; the confirmation email links back to the auth callback
func (s *AuthService) SignUp(ctx context.Context, req *models.SignupRequest) error {
	if req.Password != req.ConfirmPassword {
		metrics.AuthRequests.WithLabelValues("sign_up", "password_mismatch").Inc()
		return ErrPasswordMismatch
	}

	err := s.identity.SignUp(ctx, normalizeEmail(req.Email), req.Password, s.baseURL+authCallbackPath)
	if err != nil {
		metrics.AuthRequests.WithLabelValues("sign_up", outcome(err)).Inc()
		return rejectedOr(err)
	}

	metrics.AuthRequests.WithLabelValues("sign_up", "success").Inc()
	return nil
}

// SignOut revokes the session. Failures are logged only; the caller is signed out locally regardless.
func (s *AuthService) SignOut(ctx context.Context, accessToken string) {
	if accessToken == "" {
		return
	}
	if err := s.identity.SignOut(ctx, accessToken); err != nil {
		logger.Warn("Provider sign-out failed", zap.Error(err))
		metrics.AuthRequests.WithLabelValues("sign_out", outcome(err)).Inc()
		return
	}
	metrics.AuthRequests.WithLabelValues("sign_out", "success").Inc()
}

// RequestMagicLink emails the caller a one-time sign-in link to the questions page
func (s *AuthService) RequestMagicLink(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		metrics.AuthRequests.WithLabelValues("magic_link", "no_email").Inc()
		return ErrNoEmail
	}

	if err := s.identity.SignInWithOTP(ctx, normalizeEmail(email), s.baseURL+magicLinkLanding); err != nil {
		metrics.AuthRequests.WithLabelValues("magic_link", outcome(err)).Inc()
		return rejectedOr(err)
	}

	metrics.AuthRequests.WithLabelValues("magic_link", "success").Inc()
	return nil
}

func sessionTokens(session *supabase.Session) *models.SessionTokens {
	return &models.SessionTokens{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresIn:    session.ExpiresIn,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// rejectedOr converts a provider 4xx into a RejectedError and passes other errors through
func rejectedOr(err error) error {
	var apiErr *supabase.APIError
	if errors.As(err, &apiErr) && supabase.IsClientError(err) {
		return &RejectedError{Message: apiErr.Message}
	}
	return err
}

func outcome(err error) string {
	if supabase.IsClientError(err) {
		return "rejected"
	}
	return "error"
}
