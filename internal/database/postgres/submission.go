package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/notethatdown/notethatdown-api/internal/models"
)

// CreateFeedback stores answers to the feedback questions
func (c *Client) CreateFeedback(ctx context.Context, userID string, answers map[string]string) (sub *models.Submission, err error) {
	start := time.Now()
	defer func() { observe(ctx, "createFeedback", start, err) }()

	s := models.Submission{UserID: userID}
	err = c.pool.QueryRow(ctx,
		`INSERT INTO feedback (user_id, answers) VALUES ($1, $2) RETURNING id, created_at`,
		userID, answers,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert feedback: %w", err)
	}
	return &s, nil
}

// CreateStandupEntry stores a standup entry stamped with createdAt
func (c *Client) CreateStandupEntry(ctx context.Context, userID string, answers map[string]string, createdAt time.Time) (sub *models.Submission, err error) {
	start := time.Now()
	defer func() { observe(ctx, "createStandupEntry", start, err) }()

	s := models.Submission{UserID: userID}
	err = c.pool.QueryRow(ctx,
		`INSERT INTO standup_entries (user_id, answers, created_at) VALUES ($1, $2, $3) RETURNING id, created_at`,
		userID, answers, createdAt,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert standup entry: %w", err)
	}
	return &s, nil
}

// CreateSuggestion stores a product suggestion; an empty category is stored as NULL
func (c *Client) CreateSuggestion(ctx context.Context, userID, suggestion, category string) (sub *models.Submission, err error) {
	start := time.Now()
	defer func() { observe(ctx, "createSuggestion", start, err) }()

	var cat *string
	if category != "" {
		cat = &category
	}

	s := models.Submission{UserID: userID}
	err = c.pool.QueryRow(ctx,
		`INSERT INTO suggestions (user_id, suggestion, category) VALUES ($1, $2, $3) RETURNING id, created_at`,
		userID, suggestion, cat,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert suggestion: %w", err)
	}
	return &s, nil
}
