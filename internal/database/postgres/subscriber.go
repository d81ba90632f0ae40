package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/notethatdown/notethatdown-api/internal/models"
	pkgerrors "github.com/notethatdown/notethatdown-api/pkg/errors"
)

// CreateSubscriber adds an email to the waitlist
func (c *Client) CreateSubscriber(ctx context.Context, email string) (sub *models.Subscriber, err error) {
	start := time.Now()
	defer func() { observe(ctx, "createSubscriber", start, err) }()

	s := models.Subscriber{Email: email}
	err = c.pool.QueryRow(ctx,
		`INSERT INTO email_subscribers (email) VALUES ($1) RETURNING id, created_at`, email,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, pkgerrors.ConflictError("subscriber")
		}
		return nil, fmt.Errorf("failed to insert subscriber: %w", err)
	}
	return &s, nil
}

// ListSubscribers returns the whole waitlist, oldest first
func (c *Client) ListSubscribers(ctx context.Context) (subs []models.Subscriber, err error) {
	start := time.Now()
	defer func() { observe(ctx, "listSubscribers", start, err) }()

	rows, err := c.pool.Query(ctx, `SELECT id, email, created_at FROM email_subscribers ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}

	subs, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Subscriber, error) {
		var s models.Subscriber
		scanErr := row.Scan(&s.ID, &s.Email, &s.CreatedAt)
		return s, scanErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read subscribers: %w", err)
	}
	return subs, nil
}
