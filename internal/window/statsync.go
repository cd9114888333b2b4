package window

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"modq/internal/itemstore"
	"modq/internal/logging"
)

// DefaultPollInterval paces the stats reconciliation loop when the
// configuration does not supply its own interval.
const DefaultPollInterval = 30 * time.Second

// Scheduler keeps the window's cached pending total aligned with the
// store while a review surface is active. Start fires one immediate
// reconciliation and then polls on the interval; Stop halts the loop.
// The scheduler only runs between Start and Stop, so a closed surface
// generates no background traffic.
type Scheduler struct {
	client   itemstore.Client
	window   *Manager
	interval time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	// Baselines from the previous poll, owned by the polling goroutine.
	// prevTotal is -1 until the first poll establishes one.
	prevTotal   int
	prevRetired int
}

// NewScheduler builds a stats scheduler over client feeding window. A
// non-positive interval falls back to DefaultPollInterval.
func NewScheduler(client itemstore.Client, window *Manager, interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Scheduler{
		client:    client,
		window:    window,
		interval:  interval,
		logger:    logging.NewComponentLogger(logger, "statsync"),
		prevTotal: -1,
	}
}

// Start launches the polling loop. The first reconciliation runs
// immediately so a freshly opened surface does not wait a full interval
// for its totals. Starting an already running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx, s.done)
	s.logger.Debug("stats polling started", logging.Duration("interval", s.interval))
}

// Stop halts the polling loop and waits for the in-flight pass, if any,
// to finish. Stopping a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.logger.Debug("stats polling stopped")
}

// Running reports whether the polling loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	s.reconcile(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.reconcile(ctx)
		}
	}
}

// reconcile pulls the authoritative pending count and tops the window up
// when other reviewers have drained or grown the backlog underneath it.
// A reload is forced when the total falls below the window's own length,
// or when it dropped between polls by more than the local retires in the
// same span: either way entries were resolved elsewhere and only a
// reload reveals which ones went stale. A failed poll is skipped; the
// next tick retries with the same cadence.
func (s *Scheduler) reconcile(ctx context.Context) {
	total, err := s.client.PendingTotal(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.logger.Debug("stats poll failed", logging.Error(err))
		return
	}

	retired := s.window.RetiredCount()
	externalDrop := false
	if s.prevTotal >= 0 {
		externalDrop = s.prevTotal-total > retired-s.prevRetired
	}
	s.prevTotal = total
	s.prevRetired = retired

	s.window.SetServerTotal(total)
	if s.window.Loaded() && (externalDrop || total < len(s.window.Items())) {
		if err := s.window.LoadInitial(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Debug("reconcile reload failed", logging.Error(err))
		}
		return
	}
	if s.window.Shortfall() == 0 {
		return
	}
	if err := s.window.BackfillIfNeeded(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Debug("reconcile backfill failed", logging.Error(err))
	}
}
