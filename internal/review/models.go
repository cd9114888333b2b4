package review

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a review item.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// DefaultRejectReason is recorded when a reviewer rejects without giving one.
const DefaultRejectReason = "Does not meet community guidelines"

var allStatuses = []Status{
	StatusPending,
	StatusApproved,
	StatusRejected,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// RiskLevel classifies how urgently an item needs reviewer attention.
type RiskLevel string

const (
	RiskMinimal RiskLevel = "minimal"
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
)

var allRiskLevels = []RiskLevel{
	RiskMinimal,
	RiskLow,
	RiskMedium,
	RiskHigh,
}

var riskSet = func() map[RiskLevel]struct{} {
	set := make(map[RiskLevel]struct{}, len(allRiskLevels))
	for _, level := range allRiskLevels {
		set[level] = struct{}{}
	}
	return set
}()

// Outcome is a reviewer's requested decision.
type Outcome string

const (
	OutcomeApprove Outcome = "approve"
	OutcomeReject  Outcome = "reject"
)

// Item represents one unit of submitted content moving through moderation.
type Item struct {
	ID             string
	Status         Status
	RiskLevel      RiskLevel
	FlaggedTerms   []string
	SubmittedAt    time.Time
	DecidedAt      *time.Time
	DecidedBy      string
	DecisionReason string

	// Submission content, immutable after intake and used only for display.
	AuthorName string
	Title      string
	Body       string
	WordCount  int
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// AllRiskLevels returns the ordered list of known risk levels, mildest first.
func AllRiskLevels() []RiskLevel {
	cp := make([]RiskLevel, len(allRiskLevels))
	copy(cp, allRiskLevels)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// ParseRiskLevel converts a string into a known RiskLevel.
func ParseRiskLevel(value string) (RiskLevel, bool) {
	normalized := RiskLevel(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := riskSet[normalized]
	return normalized, ok
}

// ParseOutcome converts a string into a known Outcome.
func ParseOutcome(value string) (Outcome, bool) {
	switch Outcome(strings.ToLower(strings.TrimSpace(value))) {
	case OutcomeApprove:
		return OutcomeApprove, true
	case OutcomeReject:
		return OutcomeReject, true
	default:
		return "", false
	}
}

// Status returns the terminal status an outcome resolves to.
func (o Outcome) Status() Status {
	if o == OutcomeReject {
		return StatusRejected
	}
	return StatusApproved
}

// IsTerminal reports whether a status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// IsPending reports whether the item still awaits a decision.
func (i Item) IsPending() bool {
	return i.Status == StatusPending
}

// Severity orders risk levels for display and alerting; higher is riskier.
func (r RiskLevel) Severity() int {
	switch r {
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	case RiskLow:
		return 1
	default:
		return 0
	}
}
