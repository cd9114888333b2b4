package itemstore_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"modq/internal/config"
	"modq/internal/itemstore"
	"modq/internal/review"
)

func newClient(t *testing.T, serverURL string) *itemstore.HTTPClient {
	t.Helper()
	cfg := config.Default()
	cfg.Reviewer.ServerURL = serverURL
	cfg.Reviewer.APIToken = "sekret"
	cfg.Reviewer.Name = "casey"
	cfg.Reviewer.RequestTimeout = 5
	return itemstore.NewHTTPClient(&cfg)
}

func pendingPayload(id string) itemstore.ItemPayload {
	return itemstore.ItemPayload{
		ID:          id,
		Status:      string(review.StatusPending),
		RiskLevel:   string(review.RiskLow),
		SubmittedAt: time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC).Format(time.RFC3339Nano),
		AuthorName:  "River",
		Title:       "Midnight Letters",
		WordCount:   120,
	}
}

func TestListPendingSendsAuthAndPagination(t *testing.T) {
	var gotPath, gotAuth, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(itemstore.PendingPage{
			Items:      []itemstore.ItemPayload{pendingPayload("item-1")},
			TotalCount: 9,
		})
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	page, err := client.ListPending(context.Background(), 4, 8)
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if gotPath != "/api/review/pending" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotQuery != "limit=4&offset=8" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if gotAuth != "Bearer sekret" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if page.TotalCount != 9 || len(page.Items) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestGetItemMapsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	if _, err := client.GetItem(context.Background(), "gone"); !errors.Is(err, review.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestDecideSendsReviewerIdentity(t *testing.T) {
	var got itemstore.DecisionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		payload := pendingPayload("item-1")
		payload.Status = string(review.StatusRejected)
		payload.DecisionReason = got.Reason
		_ = json.NewEncoder(w).Encode(itemstore.DecisionResponse{OK: true, Item: payload})
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	item, err := client.Decide(context.Background(), "item-1", review.OutcomeReject, "too graphic")
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if got.Outcome != "reject" || got.Reason != "too graphic" || got.DecidedBy != "casey" {
		t.Fatalf("unexpected decision request: %+v", got)
	}
	if item.Status != review.StatusRejected {
		t.Fatalf("expected rejected item, got %s", item.Status)
	}
}

func TestDecideConflictMapsToAlreadyResolved(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(itemstore.DecisionResponse{ErrorCode: review.CodeAlreadyResolved})
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	if _, err := client.Decide(context.Background(), "item-1", review.OutcomeApprove, ""); !errors.Is(err, review.ErrAlreadyResolved) {
		t.Fatalf("expected already-resolved error, got %v", err)
	}
}

func TestDecideServerErrorMapsToUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(itemstore.DecisionResponse{ErrorCode: review.CodeServerError})
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	if _, err := client.Decide(context.Background(), "item-1", review.OutcomeApprove, ""); !errors.Is(err, review.ErrUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestUnreachableServerMapsToUnavailable(t *testing.T) {
	client := newClient(t, "http://127.0.0.1:1")
	if _, err := client.PendingTotal(context.Background()); !errors.Is(err, review.ErrUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestSubmitRoundtrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req itemstore.SubmissionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		payload := pendingPayload("item-9")
		payload.Title = req.Title
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(itemstore.ItemResponse{Item: payload})
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	item, err := client.Submit(context.Background(), itemstore.SubmissionRequest{
		AuthorName: "River",
		Title:      "New Story",
		Body:       "text",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if item.ID != "item-9" || item.Title != "New Story" {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestPayloadRoundtripPreservesTimestamps(t *testing.T) {
	decided := time.Date(2026, time.March, 5, 8, 30, 0, 0, time.UTC)
	item := &review.Item{
		ID:          "item-1",
		Status:      review.StatusApproved,
		RiskLevel:   review.RiskMedium,
		SubmittedAt: time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC),
		DecidedAt:   &decided,
		DecidedBy:   "casey",
	}

	back := itemstore.FromItem(item).ToItem()
	if !back.SubmittedAt.Equal(item.SubmittedAt) {
		t.Fatalf("submitted_at drifted: %v", back.SubmittedAt)
	}
	if back.DecidedAt == nil || !back.DecidedAt.Equal(decided) {
		t.Fatalf("decided_at drifted: %v", back.DecidedAt)
	}
}
