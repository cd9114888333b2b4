package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"modq/internal/review"
	"modq/internal/store"
	"modq/internal/testsupport"
)

func TestOpenAppliesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item, err := st.Submit(ctx, store.Submission{
		AuthorName: "Rowan",
		Title:      "First Light",
		Body:       "a calm morning on the pier",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if item.ID == "" {
		t.Fatal("expected item ID to be assigned")
	}
	if item.Status != review.StatusPending {
		t.Fatalf("expected pending status, got %s", item.Status)
	}
	if item.WordCount != 6 {
		t.Fatalf("expected word count 6, got %d", item.WordCount)
	}

	fetched, err := st.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched == nil || fetched.Title != "First Light" {
		t.Fatalf("unexpected fetched item: %#v", fetched)
	}
}

func TestSubmitRequiresBody(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	if _, err := st.Submit(context.Background(), store.Submission{Title: "Empty"}); !errors.Is(err, review.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitAnnotatesRisk(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item, err := st.Submit(ctx, store.Submission{
		Title: "Dark Hours",
		Body:  "some nights I just want to die and nothing helps",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if item.RiskLevel != review.RiskHigh {
		t.Fatalf("expected high risk, got %s", item.RiskLevel)
	}
	if len(item.FlaggedTerms) == 0 {
		t.Fatal("expected flagged terms on a high-risk item")
	}
}

func TestListPendingOldestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	seeded := testsupport.SeedPending(t, st, 6)

	ctx := context.Background()
	items, total, err := st.ListPending(ctx, 4, 0)
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if total != 6 {
		t.Fatalf("expected total 6, got %d", total)
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}
	for i, item := range items {
		if item.ID != seeded[i].ID {
			t.Fatalf("expected oldest-first order, item %d is %s", i, item.ID)
		}
	}

	rest, _, err := st.ListPending(ctx, 4, 4)
	if err != nil {
		t.Fatalf("ListPending offset failed: %v", err)
	}
	if len(rest) != 2 || rest[0].ID != seeded[4].ID {
		t.Fatalf("unexpected page at offset 4: %#v", rest)
	}
}

func TestDecideApprove(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	item := testsupport.SubmitItem(t, st, "Sam", "Harbor", "boats drift past the lighthouse")

	ctx := context.Background()
	decided, err := st.Decide(ctx, item.ID, review.OutcomeApprove, "looks fine", "casey")
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if decided.Status != review.StatusApproved {
		t.Fatalf("expected approved, got %s", decided.Status)
	}
	if decided.DecisionReason != "" {
		t.Fatalf("approval must clear the reason, got %q", decided.DecisionReason)
	}
	if decided.DecidedBy != "casey" {
		t.Fatalf("expected decided_by casey, got %q", decided.DecidedBy)
	}
	if decided.DecidedAt == nil {
		t.Fatal("expected decided_at to be set")
	}

	total, err := st.PendingTotal(ctx)
	if err != nil {
		t.Fatalf("PendingTotal failed: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected no pending items, got %d", total)
	}
}

func TestDecideRejectDefaultsReason(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	item := testsupport.SubmitItem(t, st, "Sam", "Harbor", "boats drift past the lighthouse")

	decided, err := st.Decide(context.Background(), item.ID, review.OutcomeReject, "", "casey")
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if decided.Status != review.StatusRejected {
		t.Fatalf("expected rejected, got %s", decided.Status)
	}
	if decided.DecisionReason != review.DefaultRejectReason {
		t.Fatalf("expected default reason, got %q", decided.DecisionReason)
	}
}

func TestDecideGuardsConcurrentReviewers(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	item := testsupport.SubmitItem(t, st, "Sam", "Harbor", "boats drift past the lighthouse")

	ctx := context.Background()
	if _, err := st.Decide(ctx, item.ID, review.OutcomeApprove, "", "first"); err != nil {
		t.Fatalf("first decision failed: %v", err)
	}

	_, err := st.Decide(ctx, item.ID, review.OutcomeReject, "", "second")
	if !errors.Is(err, review.ErrAlreadyResolved) {
		t.Fatalf("expected already-resolved error, got %v", err)
	}

	fetched, err := st.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.Status != review.StatusApproved {
		t.Fatalf("losing decision must not overwrite, got %s", fetched.Status)
	}
}

func TestDecideMissingItem(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	_, err := st.Decide(context.Background(), "does-not-exist", review.OutcomeApprove, "", "casey")
	if !errors.Is(err, review.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestStatsAndRiskBreakdown(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	seeded := testsupport.SeedPending(t, st, 3)

	ctx := context.Background()
	if _, err := st.Decide(ctx, seeded[0].ID, review.OutcomeApprove, "", "casey"); err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if _, err := st.Decide(ctx, seeded[1].ID, review.OutcomeReject, "", "casey"); err != nil {
		t.Fatalf("Decide failed: %v", err)
	}

	stats, err := st.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats[review.StatusPending] != 1 || stats[review.StatusApproved] != 1 || stats[review.StatusRejected] != 1 {
		t.Fatalf("unexpected stats: %#v", stats)
	}

	risks, err := st.RiskBreakdown(ctx)
	if err != nil {
		t.Fatalf("RiskBreakdown failed: %v", err)
	}
	if risks[review.RiskMinimal] != 1 {
		t.Fatalf("expected 1 pending minimal-risk item, got %#v", risks)
	}
}

func TestClearResolved(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	seeded := testsupport.SeedPending(t, st, 2)

	ctx := context.Background()
	if _, err := st.Decide(ctx, seeded[0].ID, review.OutcomeApprove, "", "casey"); err != nil {
		t.Fatalf("Decide failed: %v", err)
	}

	removed, err := st.ClearResolved(ctx, time.Now().UTC().Add(time.Minute))
	if err != nil {
		t.Fatalf("ClearResolved failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}

	total, err := st.PendingTotal(ctx)
	if err != nil {
		t.Fatalf("PendingTotal failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("pending item must survive clearing, got total %d", total)
	}
}

func TestCheckHealth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedPending(t, st, 1)

	health, err := st.CheckHealth(context.Background())
	if err != nil {
		t.Fatalf("CheckHealth failed: %v", err)
	}
	if !health.TableExists || !health.IntegrityCheck || len(health.MissingColumns) > 0 {
		t.Fatalf("expected healthy database, got %#v", health)
	}
	if health.TotalItems != 1 {
		t.Fatalf("expected 1 item, got %d", health.TotalItems)
	}
}
