package classify

import (
	"testing"

	"modq/internal/review"
)

func TestAssess(t *testing.T) {
	cases := []struct {
		name      string
		text      string
		wantLevel review.RiskLevel
		wantTerms []string
	}{
		{
			name:      "clean text",
			text:      "a quiet walk through the park on a sunny day",
			wantLevel: review.RiskMinimal,
		},
		{
			name:      "single concern term",
			text:      "lately everything feels hopeless at work",
			wantLevel: review.RiskLow,
			wantTerms: []string{"hopeless"},
		},
		{
			name:      "three concern terms",
			text:      "I feel hopeless, I'm giving up, I'm so scared of tomorrow",
			wantLevel: review.RiskMedium,
			wantTerms: []string{"hopeless", "giving up", "scared"},
		},
		{
			name:      "crisis term dominates",
			text:      "I am scared and I want to die",
			wantLevel: review.RiskHigh,
		},
		{
			name:      "crisis term case-insensitive",
			text:      "THOUGHTS OF SUICIDE",
			wantLevel: review.RiskHigh,
			wantTerms: []string{"suicide"},
		},
		{
			name:      "typographic apostrophe folds",
			text:      "some days I can’t cope at all",
			wantLevel: review.RiskLow,
			wantTerms: []string{"can't cope"},
		},
		{
			name:      "empty text",
			text:      "",
			wantLevel: review.RiskMinimal,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Assess(tc.text)
			if got.Level != tc.wantLevel {
				t.Fatalf("Assess(%q).Level = %s, want %s", tc.text, got.Level, tc.wantLevel)
			}
			if tc.wantTerms != nil {
				if len(got.Terms) != len(tc.wantTerms) {
					t.Fatalf("Assess(%q).Terms = %v, want %v", tc.text, got.Terms, tc.wantTerms)
				}
				for i, term := range tc.wantTerms {
					if got.Terms[i] != term {
						t.Fatalf("Assess(%q).Terms = %v, want %v", tc.text, got.Terms, tc.wantTerms)
					}
				}
			}
		})
	}
}

func TestAssessHighRiskKeepsAllFlaggedTerms(t *testing.T) {
	got := Assess("I want to die, everything is hopeless")
	if got.Level != review.RiskHigh {
		t.Fatalf("expected high risk, got %s", got.Level)
	}
	want := []string{"want to die", "hopeless"}
	if len(got.Terms) != len(want) {
		t.Fatalf("Terms = %v, want %v", got.Terms, want)
	}
	for i, term := range want {
		if got.Terms[i] != term {
			t.Fatalf("Terms = %v, want %v", got.Terms, want)
		}
	}
}
