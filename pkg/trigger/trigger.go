package trigger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/notethatdown/notethatdown-api/pkg/httpclient"
	"github.com/notethatdown/notethatdown-api/pkg/logger"
	"go.uber.org/zap"
)

const callTimeout = 10 * time.Second

// Event is the JSON body posted to a trigger URL
type Event struct {
	Type       string    `json:"type"`
	RecordID   string    `json:"recordId"`
	OccurredAt time.Time `json:"occurredAt"`
}

// CallAsync posts the event to triggerURL in the background.
// An empty URL disables the trigger. Failures are logged and never reach the caller.
func CallAsync(triggerURL string, event Event, httpClient httpclient.Client) {
	if triggerURL == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		if err := call(ctx, triggerURL, event, httpClient); err != nil {
			logger.Error("Failed to call trigger URL",
				zap.Error(err),
				zap.String("event", event.Type),
				zap.String("record_id", event.RecordID))
			return
		}

		logger.Info("Trigger URL called",
			zap.String("event", event.Type),
			zap.String("record_id", event.RecordID))
	}()
}

func call(ctx context.Context, triggerURL string, event Event, httpClient httpclient.Client) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, triggerURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("trigger returned status %d", resp.StatusCode)
	}
	return nil
}
