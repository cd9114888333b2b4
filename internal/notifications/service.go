package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"modq/internal/config"
	"modq/internal/review"
)

const userAgent = "modq/0.1.0"

// Service defines the notification surface exposed to the review
// pipeline.
type Service interface {
	NotifySubmissionReceived(ctx context.Context, item *review.Item) error
	NotifyHighRiskPending(ctx context.Context, item *review.Item) error
	NotifyDecision(ctx context.Context, item *review.Item) error
	NotifyBacklogCleared(ctx context.Context, decided int, duration time.Duration) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint:  topic,
		client:    client,
		highRisk:  cfg.Notifications.HighRisk,
		decisions: cfg.Notifications.Decisions,
		errors:    cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint  string
	client    *http.Client
	highRisk  bool
	decisions bool
	errors    bool
}

func (n *ntfyService) NotifySubmissionReceived(ctx context.Context, item *review.Item) error {
	if item == nil {
		return nil
	}
	data := payload{
		title:   "modq - Submission Received",
		message: fmt.Sprintf("New story queued: %s (%s risk)", itemLabel(item), item.RiskLevel),
		tags:    []string{"modq", "submission", "queued"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyHighRiskPending(ctx context.Context, item *review.Item) error {
	if !n.highRisk || item == nil {
		return nil
	}
	message := fmt.Sprintf("High-risk story awaiting review: %s", itemLabel(item))
	if len(item.FlaggedTerms) > 0 {
		message = fmt.Sprintf("%s\nFlagged: %s", message, strings.Join(item.FlaggedTerms, ", "))
	}
	data := payload{
		title:    "modq - High Risk Pending",
		message:  message,
		tags:     []string{"modq", "risk", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyDecision(ctx context.Context, item *review.Item) error {
	if !n.decisions || item == nil {
		return nil
	}
	var message string
	switch item.Status {
	case review.StatusApproved:
		message = fmt.Sprintf("Approved: %s", itemLabel(item))
	case review.StatusRejected:
		message = fmt.Sprintf("Rejected: %s", itemLabel(item))
		if reason := strings.TrimSpace(item.DecisionReason); reason != "" {
			message = fmt.Sprintf("%s\nReason: %s", message, reason)
		}
	default:
		return nil
	}
	if item.DecidedBy != "" {
		message = fmt.Sprintf("%s\nReviewer: %s", message, item.DecidedBy)
	}
	data := payload{
		title:   "modq - Decision Recorded",
		message: message,
		tags:    []string{"modq", "decision", string(item.Status)},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyBacklogCleared(ctx context.Context, decided int, duration time.Duration) error {
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	durationText := duration.String()
	if duration == 0 {
		durationText = "0s"
	}
	data := payload{
		title:   "modq - Backlog Clear",
		message: fmt.Sprintf("Pending backlog cleared: %d decisions in %s", decided, durationText),
		tags:    []string{"modq", "backlog", "cleared"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "modq - Error",
		message:  builder.String(),
		tags:     []string{"modq", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "modq - Test",
		message:  "Notification system test",
		tags:     []string{"modq", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func itemLabel(item *review.Item) string {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = item.ID
	}
	if author := strings.TrimSpace(item.AuthorName); author != "" {
		return fmt.Sprintf("%s by %s", title, author)
	}
	return title
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifySubmissionReceived(context.Context, *review.Item) error      { return nil }
func (noopService) NotifyHighRiskPending(context.Context, *review.Item) error         { return nil }
func (noopService) NotifyDecision(context.Context, *review.Item) error                { return nil }
func (noopService) NotifyBacklogCleared(context.Context, int, time.Duration) error    { return nil }
func (noopService) NotifyError(context.Context, error, string) error                  { return nil }
func (noopService) TestNotification(context.Context) error                            { return nil }
