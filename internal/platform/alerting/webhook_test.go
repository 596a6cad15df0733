package alerting

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifyPostsAlertPayload(t *testing.T) {
	received := make(chan payload, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p payload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("decode alert payload failed: %v", err)
		}
		received <- p
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(server.URL, "sourcing-dashboard", discardLogger())
	notifier.Notify(context.Background(), "Claim reconciliation incomplete", "2 orders skipped", "error")

	p := <-received
	if p.Title != "Claim reconciliation incomplete" || p.Severity != "error" {
		t.Fatalf("unexpected alert payload: %+v", p)
	}
	if p.Service != "sourcing-dashboard" {
		t.Fatalf("expected service name in payload, got %q", p.Service)
	}
	if p.AlertID == "" || p.SentAt == "" {
		t.Fatalf("expected alert id and timestamp set, got %+v", p)
	}
}

func TestNotifySwallowsDeliveryFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	notifier := NewWebhookNotifier(server.URL, "sourcing-dashboard", discardLogger())
	notifier.Notify(context.Background(), "rejected", "body", "warning")

	server.Close()
	// Endpoint gone entirely; still must not panic or error out.
	notifier.Notify(context.Background(), "unreachable", "body", "warning")
}

func TestNotifyWithoutURLIsNoop(t *testing.T) {
	notifier := NewWebhookNotifier("", "sourcing-dashboard", discardLogger())
	notifier.Notify(context.Background(), "dropped", "body", "info")

	var nilNotifier *WebhookNotifier
	nilNotifier.Notify(context.Background(), "dropped", "body", "info")
}
