// Package notify delivers new-comment notifications to an optional
// outbound webhook. Delivery is best effort; a failed notification
// never fails the comment submission that triggered it.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ishan/vaahaka/internal/model"
)

// CommentNotifier is the notification interface the comment engine
// calls after a successful submission.
type CommentNotifier interface {
	// NotifyComment posts the comment to the configured webhook.
	NotifyComment(ctx context.Context, comment *model.Comment) error
}

// commentPayload is the webhook request body.
type commentPayload struct {
	CommentID  int64  `json:"comment_id"`
	TargetKind string `json:"target_kind"`
	TargetID   int64  `json:"target_id"`
	Username   string `json:"username"`
	Body       string `json:"body"`
	CreatedAt  string `json:"created_at"`
}

// WebhookNotifier posts new comments to a single configured URL.
// The HTTP client must come from security.SSRFGuardService so the
// webhook URL can never be pointed at internal addresses.
type WebhookNotifier struct {
	httpClient *http.Client
	logger     *slog.Logger
	webhookURL string
}

// NewWebhookNotifier creates a WebhookNotifier.
func NewWebhookNotifier(httpClient *http.Client, logger *slog.Logger, webhookURL string) *WebhookNotifier {
	return &WebhookNotifier{
		httpClient: httpClient,
		logger:     logger,
		webhookURL: webhookURL,
	}
}

// NotifyComment posts the comment as JSON to the webhook URL.
func (n *WebhookNotifier) NotifyComment(ctx context.Context, comment *model.Comment) error {
	payload := commentPayload{
		CommentID:  comment.ID,
		TargetKind: string(comment.Target.Kind),
		TargetID:   comment.Target.ID,
		Username:   comment.Username,
		Body:       comment.Body,
		CreatedAt:  comment.CreatedAt.UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Vaahaka/1.0 Comment Notifier")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.logger.Error("webhook delivery failed",
			slog.String("error", err.Error()),
			slog.Int64("comment_id", comment.ID),
		)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		n.logger.Error("webhook returned error status",
			slog.Int("http_status", resp.StatusCode),
			slog.Int64("comment_id", comment.ID),
		)
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}

// NopNotifier is used when no webhook URL is configured.
type NopNotifier struct{}

// NotifyComment does nothing.
func (NopNotifier) NotifyComment(ctx context.Context, comment *model.Comment) error {
	return nil
}
