package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type payload struct {
	AlertID  string `json:"alert_id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Severity string `json:"severity"`
	Service  string `json:"service"`
	SentAt   string `json:"sent_at"`
}

// WebhookNotifier posts alerts to the operations webhook. Delivery is
// fire-and-forget: a failed post is logged and dropped, never surfaced to
// the operation that raised the alert.
type WebhookNotifier struct {
	url     string
	service string
	client  *http.Client
	logger  *slog.Logger
}

func NewWebhookNotifier(url, service string, logger *slog.Logger) *WebhookNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookNotifier{
		url:     url,
		service: service,
		client:  &http.Client{Timeout: 5 * time.Second},
		logger:  logger,
	}
}

func (n *WebhookNotifier) Notify(ctx context.Context, title string, body string, severity string) {
	if n == nil || n.url == "" {
		return
	}

	raw, err := json.Marshal(payload{
		AlertID:  uuid.NewString(),
		Title:    title,
		Body:     body,
		Severity: severity,
		Service:  n.service,
		SentAt:   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(raw))
	if err != nil {
		n.logFailure(title, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logFailure(title, err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		n.logger.Warn("alert webhook rejected notification",
			"event", "alert_webhook_rejected",
			"module", "internal/platform/alerting",
			"layer", "platform",
			"title", title,
			"status", resp.StatusCode,
		)
	}
}

func (n *WebhookNotifier) logFailure(title string, err error) {
	n.logger.Warn("alert webhook delivery failed",
		"event", "alert_webhook_failed",
		"module", "internal/platform/alerting",
		"layer", "platform",
		"title", title,
		"error", err.Error(),
	)
}
