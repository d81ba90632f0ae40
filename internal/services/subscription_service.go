package services

import (
	"context"
	"strconv"
	"time"

	"github.com/notethatdown/notethatdown-api/config"
	"github.com/notethatdown/notethatdown-api/internal/models"
	pkgerrors "github.com/notethatdown/notethatdown-api/pkg/errors"
	"github.com/notethatdown/notethatdown-api/pkg/httpclient"
	"github.com/notethatdown/notethatdown-api/pkg/logger"
	"github.com/notethatdown/notethatdown-api/pkg/metrics"
	"github.com/notethatdown/notethatdown-api/pkg/trigger"
	"go.uber.org/zap"
)

const (
	subscribedMessage        = "Thanks! We'll let you know when we launch."
	alreadySubscribedMessage = "You're already on the list."
)

// SubscriptionService handles waitlist sign-ups
type SubscriptionService struct {
	subscribers SubscriberStore
	triggerURL  string
	httpClient  httpclient.Client
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(subscribers SubscriberStore, cfg *config.Config, httpClient httpclient.Client) *SubscriptionService {
	return &SubscriptionService{
		subscribers: subscribers,
		triggerURL:  cfg.EventTriggers.SubscriberCreatedTriggerURL,
		httpClient:  httpClient,
	}
}

// Subscribe adds email to the waitlist. Subscribing twice is a success.
func (s *SubscriptionService) Subscribe(ctx context.Context, email string) (*models.SubscribeResponse, error) {
	sub, err := s.subscribers.CreateSubscriber(ctx, normalizeEmail(email))
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.ErrConflict) {
			metrics.SubscriptionSubmissions.WithLabelValues("duplicate").Inc()
			return &models.SubscribeResponse{Success: true, AlreadySubscribed: true, Message: alreadySubscribedMessage}, nil
		}
		logger.Error("Failed to store subscriber", zap.Error(err))
		metrics.SubscriptionSubmissions.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.SubscriptionSubmissions.WithLabelValues("success").Inc()
	trigger.CallAsync(s.triggerURL, trigger.Event{
		Type:       "subscriber.created",
		RecordID:   strconv.FormatInt(sub.ID, 10),
		OccurredAt: time.Now().UTC(),
	}, s.httpClient)

	return &models.SubscribeResponse{Success: true, Message: subscribedMessage}, nil
}
