package main

import (
	"strings"
	"testing"

	"modq/internal/testsupport"
)

func TestShowDisplaysFullSubmission(t *testing.T) {
	env := setupCLITestEnv(t)
	item := testsupport.SubmitItem(t, env.store, "River", "Midnight Letters", "a quiet walk through the park")

	out, _, err := runCLI(t, []string{"show", item.ID}, env.serverURL, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "Midnight Letters")
	requireContains(t, out, "River")
	requireContains(t, out, "a quiet walk through the park")
}

func TestShowUnknownItem(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"show", "missing-id"}, env.serverURL, env.configPath)
	if err == nil {
		t.Fatal("expected error for unknown id")
	}
	if !strings.Contains(err.Error(), "no item with id missing-id") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStatsRendersStatusAndRiskTables(t *testing.T) {
	env := setupCLITestEnv(t)
	items := testsupport.SeedPending(t, env.store, 3)

	if _, _, err := runCLI(t, []string{"approve", items[0].ID}, env.serverURL, env.configPath); err != nil {
		t.Fatalf("approve: %v", err)
	}

	out, _, err := runCLI(t, []string{"stats"}, env.serverURL, env.configPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	requireContains(t, out, "pending")
	requireContains(t, out, "approved")
	requireContains(t, out, "minimal")
}

func TestClearRemovesResolvedItems(t *testing.T) {
	env := setupCLITestEnv(t)
	items := testsupport.SeedPending(t, env.store, 3)

	if _, _, err := runCLI(t, []string{"approve", items[0].ID}, env.serverURL, env.configPath); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, _, err := runCLI(t, []string{"reject", items[1].ID}, env.serverURL, env.configPath); err != nil {
		t.Fatalf("reject: %v", err)
	}

	out, _, err := runCLI(t, []string{"clear"}, env.serverURL, env.configPath)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	requireContains(t, out, "Cleared 2 resolved items")

	// the pending item survives
	out, _, err = runCLI(t, []string{"pending"}, env.serverURL, env.configPath)
	if err != nil {
		t.Fatalf("pending after clear: %v", err)
	}
	requireContains(t, out, "Showing 1 of 1 pending")
}

func TestStatsJSONOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedPending(t, env.store, 2)

	out, _, err := runCLI(t, []string{"stats", "--json"}, env.serverURL, env.configPath)
	if err != nil {
		t.Fatalf("stats --json: %v", err)
	}
	requireContains(t, out, "\"by_status\"")
	requireContains(t, out, "\"pending\": 2")
}

func TestShowJSONKeepsRawBody(t *testing.T) {
	env := setupCLITestEnv(t)
	item := testsupport.SubmitItem(t, env.store, "Sage", "Diner Notes", "fish & chips <3 at the corner diner")

	out, _, err := runCLI(t, []string{"show", item.ID, "--json"}, env.serverURL, env.configPath)
	if err != nil {
		t.Fatalf("show --json: %v", err)
	}
	requireContains(t, out, "fish & chips <3 at the corner diner")
}

func TestStatusCommandReportsHealth(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedPending(t, env.store, 2)

	out, _, err := runCLI(t, []string{"status"}, env.serverURL, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Running:")
	requireContains(t, out, "Database health:")
	requireContains(t, out, "Integrity:")
	requireContains(t, out, "Total items:")
}

func TestStatusJSONOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedPending(t, env.store, 2)

	out, _, err := runCLI(t, []string{"status", "--json"}, env.serverURL, env.configPath)
	if err != nil {
		t.Fatalf("status --json: %v", err)
	}
	requireContains(t, out, "\"pending_count\": 2")
	requireContains(t, out, "\"integrity_ok\": true")
}
