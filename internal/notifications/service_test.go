package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"modq/internal/config"
	"modq/internal/notifications"
	"modq/internal/review"
)

func highRiskItem() *review.Item {
	return &review.Item{
		ID:           "2b1d2c8e",
		Status:       review.StatusPending,
		RiskLevel:    review.RiskHigh,
		FlaggedTerms: []string{"hopeless", "give up"},
		SubmittedAt:  time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC),
		AuthorName:   "River",
		Title:        "Midnight Letters",
	}
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyHighRiskPending(context.Background(), highRiskItem()); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		send           func(svc notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "high risk pending",
			send: func(svc notifications.Service) error {
				return svc.NotifyHighRiskPending(context.Background(), highRiskItem())
			},
			expectTitle:    "modq - High Risk Pending",
			expectMessage:  "High-risk story awaiting review: Midnight Letters by River\nFlagged: hopeless, give up",
			expectTags:     "modq,risk,alert",
			expectPriority: "high",
		},
		{
			name: "submission received",
			send: func(svc notifications.Service) error {
				item := highRiskItem()
				item.RiskLevel = review.RiskLow
				return svc.NotifySubmissionReceived(context.Background(), item)
			},
			expectTitle:   "modq - Submission Received",
			expectMessage: "New story queued: Midnight Letters by River (low risk)",
			expectTags:    "modq,submission,queued",
		},
		{
			name: "approval decision",
			send: func(svc notifications.Service) error {
				item := highRiskItem()
				item.Status = review.StatusApproved
				item.DecidedBy = "casey"
				return svc.NotifyDecision(context.Background(), item)
			},
			expectTitle:   "modq - Decision Recorded",
			expectMessage: "Approved: Midnight Letters by River\nReviewer: casey",
			expectTags:    "modq,decision,approved",
		},
		{
			name: "rejection decision with reason",
			send: func(svc notifications.Service) error {
				item := highRiskItem()
				item.Status = review.StatusRejected
				item.DecisionReason = review.DefaultRejectReason
				return svc.NotifyDecision(context.Background(), item)
			},
			expectTitle:   "modq - Decision Recorded",
			expectMessage: "Rejected: Midnight Letters by River\nReason: " + review.DefaultRejectReason,
			expectTags:    "modq,decision,rejected",
		},
		{
			name: "backlog cleared",
			send: func(svc notifications.Service) error {
				return svc.NotifyBacklogCleared(context.Background(), 12, 95*time.Second)
			},
			expectTitle:   "modq - Backlog Clear",
			expectMessage: "Pending backlog cleared: 12 decisions in 1m35s",
			expectTags:    "modq,backlog,cleared",
		},
		{
			name: "error",
			send: func(svc notifications.Service) error {
				return svc.NotifyError(context.Background(), errors.New("database locked"), "decision")
			},
			expectTitle:    "modq - Error",
			expectMessage:  "Error with decision: database locked",
			expectTags:     "modq,error,alert",
			expectPriority: "high",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Fatalf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatalf("read body: %v", err)
				}
				captured.body = string(body)
				_ = r.Body.Close()
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5
			cfg.Notifications.HighRisk = true
			cfg.Notifications.Decisions = true
			cfg.Notifications.Errors = true

			svc := notifications.NewService(&cfg)
			if err := tc.send(svc); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceHonorsChannelToggles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected call for suppressed channel: %s", r.URL.String())
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.HighRisk = false
	cfg.Notifications.Decisions = false
	cfg.Notifications.Errors = false

	svc := notifications.NewService(&cfg)
	item := highRiskItem()
	if err := svc.NotifyHighRiskPending(context.Background(), item); err != nil {
		t.Fatalf("suppressed high-risk channel returned error: %v", err)
	}
	item.Status = review.StatusApproved
	if err := svc.NotifyDecision(context.Background(), item); err != nil {
		t.Fatalf("suppressed decision channel returned error: %v", err)
	}
	if err := svc.NotifyError(context.Background(), errors.New("boom"), "poll"); err != nil {
		t.Fatalf("suppressed error channel returned error: %v", err)
	}
}

func TestNtfyServiceSurfacesServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic over quota", http.StatusTooManyRequests)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL

	svc := notifications.NewService(&cfg)
	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error from failing ntfy endpoint")
	}
}
