package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/notethatdown/notethatdown-api/internal/models"
	pkgerrors "github.com/notethatdown/notethatdown-api/pkg/errors"
)

// GetMagicLinkByToken returns the magic link stored under token
func (c *Client) GetMagicLinkByToken(ctx context.Context, token string) (link *models.MagicLink, err error) {
	start := time.Now()
	defer func() { observe(ctx, "getMagicLinkByToken", start, err) }()

	var ml models.MagicLink
	var formType string
	err = c.pool.QueryRow(ctx,
		`SELECT token, user_id::text, form_type, expires_at, created_at FROM magic_links WHERE token = $1`,
		token,
	).Scan(&ml.Token, &ml.UserID, &formType, &ml.ExpiresAt, &ml.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pkgerrors.NotFoundError("magic link")
		}
		return nil, fmt.Errorf("failed to get magic link: %w", err)
	}
	ml.FormType = models.FormType(formType)

	return &ml, nil
}

// DeleteMagicLink removes the magic link stored under token; deleting a missing link is not an error
func (c *Client) DeleteMagicLink(ctx context.Context, token string) (err error) {
	start := time.Now()
	defer func() { observe(ctx, "deleteMagicLink", start, err) }()

	if _, err = c.pool.Exec(ctx, `DELETE FROM magic_links WHERE token = $1`, token); err != nil {
		return fmt.Errorf("failed to delete magic link: %w", err)
	}
	return nil
}
