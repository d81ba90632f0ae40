package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/notethatdown/notethatdown-api/internal/models"
	"github.com/notethatdown/notethatdown-api/pkg/logger"
	"go.uber.org/zap"
)

// ExportResult describes an uploaded waitlist export
type ExportResult struct {
	Location string
	Count    int
}

// ExportService writes the waitlist to object storage
type ExportService struct {
	subscribers SubscriberStore
	uploader    Uploader
	now         func() time.Time
}

// NewExportService creates a new ExportService
func NewExportService(subscribers SubscriberStore, uploader Uploader) *ExportService {
	return &ExportService{subscribers: subscribers, uploader: uploader, now: time.Now}
}

// ExportSubscribers uploads every subscriber as CSV under exports/subscribers-<UTC timestamp>.csv
func (s *ExportService) ExportSubscribers(ctx context.Context) (*ExportResult, error) {
	subs, err := s.subscribers.ListSubscribers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}

	body, err := encodeSubscribers(subs)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("exports/subscribers-%s.csv", s.now().UTC().Format("20060102T150405Z"))
	location, err := s.uploader.Upload(ctx, key, "text/csv", body)
	if err != nil {
		return nil, err
	}

	logger.Info("Waitlist exported", zap.String("location", location), zap.Int("count", len(subs)))
	return &ExportResult{Location: location, Count: len(subs)}, nil
}

func encodeSubscribers(subs []models.Subscriber) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"email", "created_at"}); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, sub := range subs {
		if err := w.Write([]string{sub.Email, sub.CreatedAt.UTC().Format(time.RFC3339)}); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to encode csv: %w", err)
	}
	return buf.Bytes(), nil
}
