package window

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"modq/internal/itemstore"
	"modq/internal/logging"
	"modq/internal/review"
)

// ErrDecisionInFlight marks a decision attempt for an item whose
// previous submission has not completed yet.
var ErrDecisionInFlight = errors.New("decision already in flight")

// Controller commits reviewer decisions against the item store and keeps
// the window consistent afterwards. The store confirms every decision
// before any local state changes; a failed submission leaves the window,
// offsets, and totals exactly as they were.
type Controller struct {
	client itemstore.Client
	window *Manager
	detail *DetailController
	logger *slog.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewController builds a decision controller. detail may be nil when the
// surface has no detail view to close.
func NewController(client itemstore.Client, window *Manager, detail *DetailController, logger *slog.Logger) *Controller {
	return &Controller{
		client:   client,
		window:   window,
		detail:   detail,
		logger:   logging.NewComponentLogger(logger, "decision"),
		inflight: make(map[string]struct{}),
	}
}

// Decide submits outcome for the identified item. While a submission for
// an id is outstanding further attempts for the same id fail fast with
// ErrDecisionInFlight. On confirmation the item is retired from the
// window, any detail view showing it is closed, and a backfill pass
// runs; the decided item is returned for the caller's confirmation
// message. On any failure nothing local changes and the mapped store
// error is returned.
func (c *Controller) Decide(ctx context.Context, id string, outcome review.Outcome, reason string) (*review.Item, error) {
	if err := c.begin(id); err != nil {
		return nil, err
	}
	defer c.finish(id)

	item, err := c.client.Decide(ctx, id, outcome, reason)
	if err != nil {
		c.logger.Warn("decision rejected by store",
			logging.String(logging.FieldItemID, id),
			logging.String(logging.FieldOutcome, string(outcome)),
			logging.Error(err))
		return nil, err
	}

	c.logger.Info("decision recorded",
		logging.String(logging.FieldItemID, id),
		logging.String(logging.FieldOutcome, string(outcome)))

	if c.detail != nil {
		c.detail.CloseIf(id)
	}
	c.window.Retire(id)
	if err := c.window.BackfillIfNeeded(ctx); err != nil {
		// The decision itself stands; the window just runs short until
		// the next reconciliation.
		c.logger.Warn("backfill after decision failed", logging.Error(err))
	}
	return item, nil
}

// Approve is shorthand for Decide with the approve outcome.
func (c *Controller) Approve(ctx context.Context, id string) (*review.Item, error) {
	return c.Decide(ctx, id, review.OutcomeApprove, "")
}

// Reject is shorthand for Decide with the reject outcome. An empty
// reason lets the store apply its default.
func (c *Controller) Reject(ctx context.Context, id, reason string) (*review.Item, error) {
	return c.Decide(ctx, id, review.OutcomeReject, reason)
}

func (c *Controller) begin(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inflight[id]; busy {
		return fmt.Errorf("item %s: %w", id, ErrDecisionInFlight)
	}
	c.inflight[id] = struct{}{}
	return nil
}

func (c *Controller) finish(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, id)
}
