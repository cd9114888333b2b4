package itemstore

import (
	"time"

	"modq/internal/review"
)

// ItemPayload is the wire representation of a review item.
type ItemPayload struct {
	ID             string   `json:"id"`
	Status         string   `json:"status"`
	RiskLevel      string   `json:"risk_level"`
	FlaggedTerms   []string `json:"flagged_terms,omitempty"`
	SubmittedAt    string   `json:"submitted_at"`
	DecidedAt      string   `json:"decided_at,omitempty"`
	DecidedBy      string   `json:"decided_by,omitempty"`
	DecisionReason string   `json:"decision_reason,omitempty"`
	AuthorName     string   `json:"author_name,omitempty"`
	Title          string   `json:"title,omitempty"`
	Body           string   `json:"body,omitempty"`
	WordCount      int      `json:"word_count"`
}

// PendingPage is one page of the pending listing plus the authoritative total.
type PendingPage struct {
	Items      []ItemPayload `json:"items"`
	TotalCount int           `json:"total_count"`
}

// TotalResponse carries the authoritative pending count.
type TotalResponse struct {
	TotalCount int `json:"total_count"`
}

// ItemResponse wraps a single item.
type ItemResponse struct {
	Item ItemPayload `json:"item"`
}

// DecisionRequest asks the store to resolve a pending item.
type DecisionRequest struct {
	Outcome   string `json:"outcome"`
	Reason    string `json:"reason,omitempty"`
	DecidedBy string `json:"decided_by,omitempty"`
}

// DecisionResponse reports the result of a decision attempt.
type DecisionResponse struct {
	OK        bool        `json:"ok"`
	ErrorCode string      `json:"error_code,omitempty"`
	Item      ItemPayload `json:"item,omitempty"`
}

// SubmissionRequest carries new content into the pending queue.
type SubmissionRequest struct {
	AuthorName string `json:"author_name,omitempty"`
	Title      string `json:"title,omitempty"`
	Body       string `json:"body"`
}

// ClearResponse reports how many resolved items a cleanup removed.
type ClearResponse struct {
	Removed int `json:"removed"`
}

// DatabaseHealthPayload is the wire form of the store diagnostics.
type DatabaseHealthPayload struct {
	Path           string   `json:"path"`
	Exists         bool     `json:"exists"`
	Readable       bool     `json:"readable"`
	TableExists    bool     `json:"table_exists"`
	MissingColumns []string `json:"missing_columns,omitempty"`
	IntegrityOK    bool     `json:"integrity_ok"`
	TotalItems     int      `json:"total_items"`
	Error          string   `json:"error,omitempty"`
}

// StatusResponse describes a running daemon, including database
// diagnostics.
type StatusResponse struct {
	Running      bool                  `json:"running"`
	PID          int                   `json:"pid"`
	DatabasePath string                `json:"database_path"`
	LockPath     string                `json:"lock_path"`
	PendingCount int                   `json:"pending_count"`
	Database     DatabaseHealthPayload `json:"database"`
}

// NotifyTestResponse reports the outcome of a test notification.
type NotifyTestResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// StatsResponse aggregates queue counts for operators.
type StatsResponse struct {
	ByStatus map[string]int `json:"by_status"`
	ByRisk   map[string]int `json:"by_risk"`
}

// FromItem converts a model item to its wire form.
func FromItem(item *review.Item) ItemPayload {
	if item == nil {
		return ItemPayload{}
	}
	payload := ItemPayload{
		ID:             item.ID,
		Status:         string(item.Status),
		RiskLevel:      string(item.RiskLevel),
		FlaggedTerms:   item.FlaggedTerms,
		SubmittedAt:    item.SubmittedAt.UTC().Format(time.RFC3339Nano),
		DecidedBy:      item.DecidedBy,
		DecisionReason: item.DecisionReason,
		AuthorName:     item.AuthorName,
		Title:          item.Title,
		Body:           item.Body,
		WordCount:      item.WordCount,
	}
	if item.DecidedAt != nil {
		payload.DecidedAt = item.DecidedAt.UTC().Format(time.RFC3339Nano)
	}
	return payload
}

// ToItem converts a wire payload back to the model form.
func (p ItemPayload) ToItem() *review.Item {
	item := &review.Item{
		ID:             p.ID,
		Status:         review.Status(p.Status),
		RiskLevel:      review.RiskLevel(p.RiskLevel),
		FlaggedTerms:   p.FlaggedTerms,
		DecidedBy:      p.DecidedBy,
		DecisionReason: p.DecisionReason,
		AuthorName:     p.AuthorName,
		Title:          p.Title,
		Body:           p.Body,
		WordCount:      p.WordCount,
	}
	if t, err := time.Parse(time.RFC3339Nano, p.SubmittedAt); err == nil {
		item.SubmittedAt = t
	}
	if p.DecidedAt != "" {
		if t, err := time.Parse(time.RFC3339Nano, p.DecidedAt); err == nil {
			item.DecidedAt = &t
		}
	}
	return item
}
