package testsupport

import (
	"context"
	"fmt"
	"testing"

	"modq/internal/config"
	"modq/internal/review"
	"modq/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SubmitItem queues one story for tests using the provided store.
func SubmitItem(t testing.TB, st *store.Store, author, title, body string) *review.Item {
	t.Helper()

	item, err := st.Submit(context.Background(), store.Submission{
		AuthorName: author,
		Title:      title,
		Body:       body,
	})
	if err != nil {
		t.Fatalf("store.Submit: %v", err)
	}
	return item
}

// SeedPending queues n low-risk stories and returns them in submission
// order.
func SeedPending(t testing.TB, st *store.Store, n int) []*review.Item {
	t.Helper()

	items := make([]*review.Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, SubmitItem(t, st,
			fmt.Sprintf("author-%02d", i),
			fmt.Sprintf("story %02d", i),
			"a quiet walk through the park"))
	}
	return items
}
