package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
)

// WebhookNotifier posts commission events to an operator callback URL.
type WebhookNotifier struct {
	callbackURL string
	client      *http.Client
	now         func() time.Time
}

func NewWebhookNotifier(callbackURL string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookNotifier{
		callbackURL: callbackURL,
		client:      &http.Client{Timeout: timeout},
		now:         time.Now,
	}
}

func (n *WebhookNotifier) Notify(ctx context.Context, event domain.CommissionEvent) error {
	body, err := json.Marshal(CallbackPayload{
		Type:         event.Type,
		VendorID:     event.VendorID,
		Period:       event.Period,
		Rate:         event.Rate,
		RecordIDs:    event.RecordIDs,
		RowsAffected: event.RowsAffected,
		SentAt:       n.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal callback: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.callbackURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create callback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("callback to %s failed: %w", n.callbackURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("callback to %s returned status %d", n.callbackURL, resp.StatusCode)
	}
	return nil
}

// Fanout delivers an event to every notifier and joins their errors.
type Fanout []domain.CommissionNotifier

func (f Fanout) Notify(ctx context.Context, event domain.CommissionEvent) error {
	var errs []error
	for _, n := range f {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
