package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSubmitWithBodyFlag(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{
		"submit",
		"--author", "River",
		"--title", "Midnight Letters",
		"--body", "a quiet walk through the park",
	}, env.serverURL, env.configPath)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	requireContains(t, out, "Queued ")
	requireContains(t, out, "minimal risk")
	requireContains(t, out, "6 words")
}

func TestSubmitFromFile(t *testing.T) {
	env := setupCLITestEnv(t)

	storyPath := filepath.Join(t.TempDir(), "story.txt")
	if err := os.WriteFile(storyPath, []byte("lately everything feels hopeless\n"), 0o644); err != nil {
		t.Fatalf("write story: %v", err)
	}

	out, _, err := runCLI(t, []string{"submit", "--file", storyPath}, env.serverURL, env.configPath)
	if err != nil {
		t.Fatalf("submit --file: %v", err)
	}
	requireContains(t, out, "low risk")
}

func TestSubmitFromStdin(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLIWithInput(t, []string{"submit"}, env.serverURL, env.configPath,
		strings.NewReader("a story piped in from another tool\n"))
	if err != nil {
		t.Fatalf("submit stdin: %v", err)
	}
	requireContains(t, out, "Queued ")
}

func TestSubmitRequiresBody(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLIWithInput(t, []string{"submit"}, env.serverURL, env.configPath, strings.NewReader(""))
	if err == nil {
		t.Fatal("expected error for empty body")
	}
	if !strings.Contains(err.Error(), "story body is required") {
		t.Fatalf("unexpected error: %v", err)
	}
}
