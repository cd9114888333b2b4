package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"modq/internal/classify"
	"modq/internal/config"
	"modq/internal/review"
)

// Store manages review item persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Submission carries the content fields of a new item awaiting intake.
type Submission struct {
	AuthorName string
	Title      string
	Body       string
}

// Open initializes or connects to the review database and applies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Submit stores a new pending item, attaching its risk annotation.
func (s *Store) Submit(ctx context.Context, sub Submission) (*review.Item, error) {
	body := strings.TrimSpace(sub.Body)
	if body == "" {
		return nil, fmt.Errorf("%w: submission body is empty", review.ErrValidation)
	}

	annotation := classify.Assess(sub.Title + " " + body)
	termsJSON, err := json.Marshal(annotation.Terms)
	if err != nil {
		return nil, fmt.Errorf("marshal flagged terms: %w", err)
	}

	id := uuid.NewString()
	now := time.Now().UTC()

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO review_items (
            id, status, risk_level, flagged_terms, submitted_at,
            author_name, title, body, word_count
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		review.StatusPending,
		annotation.Level,
		string(termsJSON),
		now.Format(time.RFC3339Nano),
		nullableString(strings.TrimSpace(sub.AuthorName)),
		nullableString(strings.TrimSpace(sub.Title)),
		body,
		len(strings.Fields(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches a review item by identifier. Returns nil when absent.
func (s *Store) GetByID(ctx context.Context, id string) (*review.Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM review_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// ListPending returns pending items oldest-first along with the total pending
// count. Ordering uses the item id as a tiebreak so offset pagination stays
// stable across successive calls.
func (s *Store) ListPending(ctx context.Context, limit, offset int) ([]*review.Item, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	total, err := s.PendingTotal(ctx)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+itemColumns+` FROM review_items
         WHERE status = ? ORDER BY submitted_at, id LIMIT ? OFFSET ?`,
		review.StatusPending, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list pending: %w", err)
	}
	defer rows.Close()

	var items []*review.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

// PendingTotal returns the authoritative count of pending items.
func (s *Store) PendingTotal(ctx context.Context) (int, error) {
	var total int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM review_items WHERE status = ?`, review.StatusPending)
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("pending total: %w", err)
	}
	return total, nil
}

// Decide applies a terminal decision to a pending item.
//
// The transition is guarded in SQL: the UPDATE only matches while the item is
// still pending, so concurrent reviewers cannot both win. On a lost race the
// caller receives review.ErrAlreadyResolved; a missing item yields
// review.ErrNotFound.
func (s *Store) Decide(ctx context.Context, id string, outcome review.Outcome, reason, decidedBy string) (*review.Item, error) {
	status := outcome.Status()
	reason = strings.TrimSpace(reason)
	if status == review.StatusRejected && reason == "" {
		reason = review.DefaultRejectReason
	}
	if status == review.StatusApproved {
		reason = ""
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE review_items
         SET status = ?, decided_at = ?, decided_by = ?, decision_reason = ?
         WHERE id = ? AND status = ?`,
		status,
		now.Format(time.RFC3339Nano),
		nullableString(strings.TrimSpace(decidedBy)),
		nullableString(reason),
		id,
		review.StatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("decide item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		existing, getErr := s.GetByID(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		if existing == nil {
			return nil, fmt.Errorf("decide %s: %w", id, review.ErrNotFound)
		}
		return nil, fmt.Errorf("decide %s: %w", id, review.ErrAlreadyResolved)
	}

	return s.GetByID(ctx, id)
}

// Stats returns a count of items grouped by status.
func (s *Store) Stats(ctx context.Context) (map[review.Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM review_items GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("review stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[review.Status]int)
	for rows.Next() {
		var status review.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// RiskBreakdown returns pending item counts grouped by risk level.
func (s *Store) RiskBreakdown(ctx context.Context) (map[review.RiskLevel]int, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT risk_level, COUNT(1) FROM review_items WHERE status = ? GROUP BY risk_level`,
		review.StatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("risk breakdown: %w", err)
	}
	defer rows.Close()

	breakdown := make(map[review.RiskLevel]int)
	for rows.Next() {
		var level review.RiskLevel
		var count int
		if err := rows.Scan(&level, &count); err != nil {
			return nil, err
		}
		breakdown[level] = count
	}
	return breakdown, rows.Err()
}

// ClearResolved removes terminal items older than the cutoff.
func (s *Store) ClearResolved(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`DELETE FROM review_items WHERE status IN (?, ?) AND decided_at < ?`,
		review.StatusApproved,
		review.StatusRejected,
		cutoff.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("clear resolved: %w", err)
	}
	return res.RowsAffected()
}

const itemColumns = "id, status, risk_level, flagged_terms, submitted_at, decided_at, decided_by, decision_reason, author_name, title, body, word_count"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*review.Item, error) {
	var (
		id           string
		statusStr    string
		riskStr      string
		termsRaw     sql.NullString
		submittedRaw string
		decidedRaw   sql.NullString
		decidedBy    sql.NullString
		reason       sql.NullString
		authorName   sql.NullString
		title        sql.NullString
		body         sql.NullString
		wordCount    sql.NullInt64
	)

	if err := scanner.Scan(
		&id,
		&statusStr,
		&riskStr,
		&termsRaw,
		&submittedRaw,
		&decidedRaw,
		&decidedBy,
		&reason,
		&authorName,
		&title,
		&body,
		&wordCount,
	); err != nil {
		return nil, err
	}

	item := &review.Item{
		ID:             id,
		Status:         review.Status(statusStr),
		RiskLevel:      review.RiskLevel(riskStr),
		DecidedBy:      decidedBy.String,
		DecisionReason: reason.String,
		AuthorName:     authorName.String,
		Title:          title.String,
		Body:           body.String,
		WordCount:      int(wordCount.Int64),
	}

	if termsRaw.Valid && termsRaw.String != "" {
		if err := json.Unmarshal([]byte(termsRaw.String), &item.FlaggedTerms); err != nil {
			return nil, fmt.Errorf("decode flagged terms for %s: %w", id, err)
		}
	}
	if submitted, err := parseTimeString(submittedRaw); err == nil {
		item.SubmittedAt = submitted
	}
	if decidedRaw.Valid {
		if decided, err := parseTimeString(decidedRaw.String); err == nil {
			item.DecidedAt = &decided
		}
	}
	return item, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
