package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/notethatdown/notethatdown-api/internal/models"
	pkgerrors "github.com/notethatdown/notethatdown-api/pkg/errors"
)

// ProfileExists reports whether the user has a user_profiles row
func (c *Client) ProfileExists(ctx context.Context, userID string) (exists bool, err error) {
	start := time.Now()
	defer func() { observe(ctx, "profileExists", start, err) }()

	err = c.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_profiles WHERE id = $1)`, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check profile: %w", err)
	}
	return exists, nil
}

// CreateProfile writes the whole onboarding questionnaire in one transaction.
// The user_profiles row goes first so a second submission fails before anything else is written.
func (c *Client) CreateProfile(ctx context.Context, p *models.OnboardingProfile) (err error) {
	start := time.Now()
	defer func() { observe(ctx, "createProfile", start, err) }()

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err = tx.Exec(ctx,
		`INSERT INTO user_profiles (id, job_title, department) VALUES ($1, $2, $3)`,
		p.UserID, p.JobTitle, p.Department,
	); err != nil {
		if isUniqueViolation(err) {
			return pkgerrors.ConflictError("user profile")
		}
		return fmt.Errorf("failed to insert user profile: %w", err)
	}

	batch := &pgx.Batch{}
	for _, taskType := range p.TaskTypes {
		batch.Queue(`INSERT INTO user_tasks (user_id, task_type) VALUES ($1, $2)`, p.UserID, taskType)
	}
	for _, r := range nonBlank(p.Responsibilities) {
		batch.Queue(`INSERT INTO user_responsibilities (user_id, responsibility) VALUES ($1, $2)`, p.UserID, r)
	}
	batch.Queue(
		`INSERT INTO work_preferences (user_id, organization_method, work_style) VALUES ($1, $2, $3)`,
		p.UserID, p.OrganizationMethod, p.WorkStyle,
	)
	batch.Queue(
		`INSERT INTO standup_preferences (user_id, frequency, valuable_information, biggest_challenge, current_tracking_method)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.UserID, p.StandupFrequency, p.ValuableInformation, p.BiggestChallenge, p.CurrentTrackingMethod,
	)
	for _, goal := range nonBlank(p.ProfessionalGoals) {
		batch.Queue(`INSERT INTO professional_goals (user_id, goal) VALUES ($1, $2)`, p.UserID, goal)
	}
	for _, metric := range nonBlank(p.PerformanceMetrics) {
		batch.Queue(`INSERT INTO performance_metrics (user_id, metric) VALUES ($1, $2)`, p.UserID, metric)
	}
	batch.Queue(
		`INSERT INTO app_preferences (user_id, signup_reason, checkin_time, question_style) VALUES ($1, $2, $3::text::time, $4)`,
		p.UserID, p.SignupReason, p.CheckinTime, p.QuestionStyle,
	)

	if err = tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert onboarding answers: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit onboarding: %w", err)
	}
	return nil
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			out = append(out, item)
		}
	}
	return out
}
