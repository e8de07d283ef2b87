package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/priyankverma/cleansched/pkg/models"
)

// WebhookNotifier posts intents as JSON to an external notification service
// (the message composition and channel choice live there, not here).
type WebhookNotifier struct {
	baseURL string
	client  *http.Client
}

// NewWebhookNotifier creates a new WebhookNotifier.
func NewWebhookNotifier(baseURL string, timeout time.Duration) *WebhookNotifier {
	return &WebhookNotifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (n *WebhookNotifier) NotifyAssignment(ctx context.Context, intent Intent) error {
	return n.post(ctx, "/notifications/assignment", intent)
}

func (n *WebhookNotifier) NotifySwapDecision(ctx context.Context, intent Intent) error {
	return n.post(ctx, "/notifications/swap-decision", intent)
}

// SendPaymentReminder posts one invoice reminder to the notification service.
func (n *WebhookNotifier) SendPaymentReminder(ctx context.Context, candidate models.ReminderCandidate) error {
	return n.post(ctx, "/notifications/payment-reminder", candidate)
}

func (n *WebhookNotifier) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// NoopNotifier drops every notification. Used when no webhook is configured
// and in tests.
type NoopNotifier struct{}

func (NoopNotifier) NotifyAssignment(context.Context, Intent) error   { return nil }
func (NoopNotifier) NotifySwapDecision(context.Context, Intent) error { return nil }
func (NoopNotifier) SendPaymentReminder(context.Context, models.ReminderCandidate) error {
	return nil
}

var _ Notifier = (*WebhookNotifier)(nil)
var _ Notifier = NoopNotifier{}
