package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	pkgerrors "github.com/notethatdown/notethatdown-api/pkg/errors"
	"github.com/notethatdown/notethatdown-api/pkg/logger"
	"github.com/notethatdown/notethatdown-api/pkg/metrics"
	"go.uber.org/zap"
)

// uniqueViolation is the SQLSTATE for a unique constraint violation
const uniqueViolation = "23505"

// Client wraps a pgx connection pool with observability
type Client struct {
	pool *pgxpool.Pool
}

// NewClient wraps an open pool
func NewClient(pool *pgxpool.Pool) *Client {
	return &Client{pool: pool}
}

// Ping checks if the database connection is alive
func (c *Client) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// observe records metrics and a log line for one database operation.
// Expected outcomes (no rows, unique violation) count as success.
func observe(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil && !expected(err) {
		status = "error"
	}

	duration := metrics.MeasureDuration(start)
	metrics.DBRequestDuration.WithLabelValues(operation, status).Observe(duration)
	metrics.DBRequestTotal.WithLabelValues(operation, status).Inc()

	if status == "error" {
		logger.LogAPICall(ctx, "postgres", operation, status, duration, zap.Error(err))
		return
	}
	logger.LogAPICall(ctx, "postgres", operation, status, duration)
}

func expected(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) ||
		errors.Is(err, pkgerrors.ErrNotFound) ||
		errors.Is(err, pkgerrors.ErrConflict) ||
		isUniqueViolation(err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
