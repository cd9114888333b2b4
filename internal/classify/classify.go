package classify

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"modq/internal/review"
)

// crisisTerms escalate straight to high risk on a single match.
var crisisTerms = []string{
	"suicide",
	"kill myself",
	"end it all",
	"not worth living",
	"hurt myself",
	"self harm",
	"overdose",
	"want to die",
}

// concernTerms escalate by count: three or more is medium, one is low.
var concernTerms = []string{
	"hopeless",
	"can't cope",
	"giving up",
	"breaking down",
	"can't handle",
	"losing control",
	"scared",
	"terrified",
	"panic",
}

// Annotation is the risk metadata attached to a stored item.
type Annotation struct {
	Level review.RiskLevel
	Terms []string
}

var foldCaser = cases.Fold()

// Assess classifies free-form submission text.
//
// Matching is substring-based over the normalized text; Terms preserves the
// order of the term tables so flagged output is stable for a given input.
func Assess(text string) Annotation {
	normalized := normalize(text)

	annotation := Annotation{Level: review.RiskMinimal}

	for _, term := range crisisTerms {
		if strings.Contains(normalized, term) {
			annotation.Level = review.RiskHigh
			annotation.Terms = append(annotation.Terms, term)
		}
	}

	concernCount := 0
	for _, term := range concernTerms {
		if strings.Contains(normalized, term) {
			concernCount++
			annotation.Terms = append(annotation.Terms, term)
		}
	}

	if annotation.Level == review.RiskHigh {
		return annotation
	}
	switch {
	case concernCount >= 3:
		annotation.Level = review.RiskMedium
	case concernCount >= 1:
		annotation.Level = review.RiskLow
	}
	return annotation
}

func normalize(text string) string {
	folded := foldCaser.String(norm.NFKC.String(text))
	// Fold typographic apostrophes so "can’t" matches "can't".
	return strings.ReplaceAll(folded, "’", "'")
}
