package main

import (
	"testing"

	"modq/internal/testsupport"
)

func TestPendingListsSeededItems(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedPending(t, env.store, 3)

	out, _, err := runCLI(t, []string{"pending"}, env.serverURL, env.configPath)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	requireContains(t, out, "author-00")
	requireContains(t, out, "story 02")
	requireContains(t, out, "Showing 3 of 3 pending")
}

func TestPendingHonorsPagination(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedPending(t, env.store, 5)

	out, _, err := runCLI(t, []string{"pending", "--limit", "2", "--offset", "2"}, env.serverURL, env.configPath)
	if err != nil {
		t.Fatalf("pending paginated: %v", err)
	}
	requireContains(t, out, "story 02")
	requireContains(t, out, "story 03")
	requireContains(t, out, "Showing 2 of 5 pending")
}

func TestPendingEmptyQueue(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"pending"}, env.serverURL, env.configPath)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	requireContains(t, out, "No pending submissions")
}

func TestPendingJSONOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	items := testsupport.SeedPending(t, env.store, 1)

	out, _, err := runCLI(t, []string{"pending", "--json"}, env.serverURL, env.configPath)
	if err != nil {
		t.Fatalf("pending --json: %v", err)
	}
	requireContains(t, out, items[0].ID)
	requireContains(t, out, "\"total_count\": 1")
}
