package services

import (
	"context"
	"strings"

	"github.com/notethatdown/notethatdown-api/internal/access"
	"github.com/notethatdown/notethatdown-api/internal/models"
	pkgerrors "github.com/notethatdown/notethatdown-api/pkg/errors"
	"github.com/notethatdown/notethatdown-api/pkg/logger"
	"github.com/notethatdown/notethatdown-api/pkg/metrics"
	"go.uber.org/zap"
)

// OnboardingService stores the onboarding questionnaire
type OnboardingService struct {
	profiles ProfileStore
}

// NewOnboardingService creates a new OnboardingService
func NewOnboardingService(profiles ProfileStore) *OnboardingService {
	return &OnboardingService{profiles: profiles}
}

// Submit records the questionnaire for an authenticated caller without a profile
func (s *OnboardingService) Submit(ctx context.Context, subject access.Subject, req *models.OnboardingRequest) error {
	if !subject.IsAuthenticated() {
		metrics.OnboardingSubmissions.WithLabelValues("unauthenticated").Inc()
		return ErrNotAuthenticated
	}
	if subject.HasProfile {
		metrics.OnboardingSubmissions.WithLabelValues("already_onboarded").Inc()
		return ErrProfileExists
	}

	profile := &models.OnboardingProfile{UserID: subject.UserID, OnboardingRequest: *req}
	normalizeOnboarding(&profile.OnboardingRequest)
	if err := checkOnboarding(&profile.OnboardingRequest); err != nil {
		metrics.OnboardingSubmissions.WithLabelValues("invalid").Inc()
		return err
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		if pkgerrors.Is(err, pkgerrors.ErrConflict) {
			metrics.OnboardingSubmissions.WithLabelValues("already_onboarded").Inc()
			return ErrProfileExists
		}
		logger.Error("Failed to store onboarding", zap.String("user_id", subject.UserID), zap.Error(err))
		metrics.OnboardingSubmissions.WithLabelValues("error").Inc()
		return err
	}

	metrics.OnboardingSubmissions.WithLabelValues("success").Inc()
	logger.Info("Onboarding completed",
		zap.String("user_id", subject.UserID),
		zap.String("department", profile.Department))
	return nil
}

// normalizeOnboarding trims free text, drops duplicate task types and fills defaults
func normalizeOnboarding(req *models.OnboardingRequest) {
	req.JobTitle = strings.TrimSpace(req.JobTitle)
	req.ValuableInformation = strings.TrimSpace(req.ValuableInformation)
	req.BiggestChallenge = strings.TrimSpace(req.BiggestChallenge)
	req.CurrentTrackingMethod = strings.TrimSpace(req.CurrentTrackingMethod)
	req.SignupReason = strings.TrimSpace(req.SignupReason)

	seen := make(map[string]bool, len(req.TaskTypes))
	tasks := req.TaskTypes[:0]
	for _, t := range req.TaskTypes {
		if !seen[t] {
			seen[t] = true
			tasks = append(tasks, t)
		}
	}
	req.TaskTypes = tasks

	if req.CheckinTime == "" {
		req.CheckinTime = models.DefaultCheckinTime
	}
}

// checkOnboarding rejects answers that were only whitespace
func checkOnboarding(req *models.OnboardingRequest) error {
	if req.JobTitle == "" {
		return &ValidationError{Field: "jobTitle", Message: "Please enter your job title."}
	}
	for _, r := range req.Responsibilities {
		if strings.TrimSpace(r) != "" {
			return nil
		}
	}
	return &ValidationError{Field: "responsibilities", Message: "Please list at least one responsibility."}
}
