package services

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/notethatdown/notethatdown-api/config"
	"github.com/notethatdown/notethatdown-api/internal/models"
	"github.com/notethatdown/notethatdown-api/pkg/httpclient"
	"github.com/notethatdown/notethatdown-api/pkg/logger"
	"github.com/notethatdown/notethatdown-api/pkg/metrics"
	"github.com/notethatdown/notethatdown-api/pkg/trigger"
	"go.uber.org/zap"
)

// FormService stores feedback, standup and suggestion submissions
type FormService struct {
	submissions SubmissionStore
	triggerURL  string
	httpClient  httpclient.Client
	now         func() time.Time
}

// NewFormService creates a new FormService
func NewFormService(submissions SubmissionStore, cfg *config.Config, httpClient httpclient.Client) *FormService {
	return &FormService{
		submissions: submissions,
		triggerURL:  cfg.EventTriggers.StandupSubmittedTriggerURL,
		httpClient:  httpClient,
		now:         time.Now,
	}
}

// SubmitFeedback stores answers to the feedback questions
func (s *FormService) SubmitFeedback(ctx context.Context, userID string, req *models.FeedbackRequest) error {
	answers, err := cleanAnswers(req.Answers, models.FeedbackQuestions)
	if err != nil {
		metrics.FormSubmissions.WithLabelValues("feedback", "invalid").Inc()
		return err
	}
	if len(answers) == 0 {
		metrics.FormSubmissions.WithLabelValues("feedback", "invalid").Inc()
		return &ValidationError{Field: "answers", Message: "answer at least one question"}
	}

	if _, err := s.submissions.CreateFeedback(ctx, userID, answers); err != nil {
		return s.storeFailed("feedback", userID, err)
	}

	metrics.FormSubmissions.WithLabelValues("feedback", "success").Inc()
	return nil
}

// SubmitStandup stores a standup entry and fires the summary trigger
func (s *FormService) SubmitStandup(ctx context.Context, userID string, req *models.StandupRequest) error {
	answers, err := cleanAnswers(req.Answers, models.StandupQuestions)
	if err == nil {
		err = checkStandup(answers)
	}
	if err != nil {
		metrics.FormSubmissions.WithLabelValues("standup", "invalid").Inc()
		return err
	}

	entry, err := s.submissions.CreateStandupEntry(ctx, userID, answers, s.now().UTC())
	if err != nil {
		return s.storeFailed("standup", userID, err)
	}

	metrics.FormSubmissions.WithLabelValues("standup", "success").Inc()
	trigger.CallAsync(s.triggerURL, trigger.Event{
		Type:       "standup.submitted",
		RecordID:   strconv.FormatInt(entry.ID, 10),
		OccurredAt: entry.CreatedAt,
	}, s.httpClient)
	return nil
}

// SubmitSuggestion stores a product suggestion
func (s *FormService) SubmitSuggestion(ctx context.Context, userID string, req *models.SuggestionRequest) error {
	suggestion := strings.TrimSpace(req.Suggestion)
	if suggestion == "" {
		metrics.FormSubmissions.WithLabelValues("suggestion", "invalid").Inc()
		return &ValidationError{Field: "suggestion", Message: "Please enter a suggestion before submitting."}
	}

	if _, err := s.submissions.CreateSuggestion(ctx, userID, suggestion, req.Category); err != nil {
		return s.storeFailed("suggestion", userID, err)
	}

	metrics.FormSubmissions.WithLabelValues("suggestion", "success").Inc()
	return nil
}

func (s *FormService) storeFailed(form, userID string, err error) error {
	logger.Error("Failed to store form submission",
		zap.String("form", form),
		zap.String("user_id", userID),
		zap.Error(err))
	metrics.FormSubmissions.WithLabelValues(form, "error").Inc()
	return err
}

// cleanAnswers trims answers, drops blank ones and rejects ids that are not in the form
func cleanAnswers(raw map[string]string, questions []models.Question) (map[string]string, error) {
	answers := make(map[string]string, len(raw))
	for id, value := range raw {
		if !slices.ContainsFunc(questions, func(q models.Question) bool { return q.ID == id }) {
			return nil, &ValidationError{Field: id, Message: "unknown question"}
		}
		if value = strings.TrimSpace(value); value != "" {
			answers[id] = value
		}
	}
	return answers, nil
}

// checkStandup enforces required questions and the task status options
func checkStandup(answers map[string]string) error {
	for _, q := range models.StandupQuestions {
		if q.Required && answers[q.ID] == "" {
			return &ValidationError{Field: q.ID, Message: "Please fill out all required fields."}
		}
	}
	if !slices.Contains(models.TaskStatuses, answers["task_status"]) {
		return &ValidationError{Field: "task_status", Message: "must be one of " + strings.Join(models.TaskStatuses, ", ")}
	}
	if hours, ok := answers["time_spent"]; ok {
		if v, err := strconv.ParseFloat(hours, 64); err != nil || v < 0 || v > 24 {
			return &ValidationError{Field: "time_spent", Message: "must be a number of hours between 0 and 24"}
		}
	}
	return nil
}
