package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"log/slog"

	"github.com/gofrs/flock"

	"modq/internal/config"
	"modq/internal/logging"
	"modq/internal/notifications"
	"modq/internal/store"
)

// Daemon hosts the item store API and enforces single-instance execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	notifier notifications.Service
	api      *apiServer

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc

	backlogMu    sync.Mutex
	backlogSince time.Time
	decidedCount int
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	DatabasePath string
	LockFilePath string
	PendingCount int
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || st == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, and logger")
	}

	lockPath := cfg.LockPath()
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    st,
		notifier: notifications.NewService(cfg),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	api, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = api
	return d, nil
}

// Start acquires the daemon lock and brings the API server up.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another modq daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.api.start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		if notifyErr := d.notifier.NotifyError(ctx, err, "api server start"); notifyErr != nil {
			d.logger.Warn("startup error notification failed", logging.Error(notifyErr))
		}
		return fmt.Errorf("start api server: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("modq daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop shuts the API server down and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("modq daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// noteSubmission marks the moment the backlog became non-empty so a
// later backlog-cleared notification can report how long the run took.
func (d *Daemon) noteSubmission() {
	d.backlogMu.Lock()
	defer d.backlogMu.Unlock()
	if d.backlogSince.IsZero() {
		d.backlogSince = time.Now()
		d.decidedCount = 0
	}
}

// noteDecision counts a resolved item and, when the pending backlog hits
// zero, fires the backlog-cleared notification and resets the run.
func (d *Daemon) noteDecision(ctx context.Context) {
	d.backlogMu.Lock()
	d.decidedCount++
	decided := d.decidedCount
	since := d.backlogSince
	d.backlogMu.Unlock()

	pending, err := d.store.PendingTotal(ctx)
	if err != nil || pending > 0 {
		return
	}

	d.backlogMu.Lock()
	d.backlogSince = time.Time{}
	d.decidedCount = 0
	d.backlogMu.Unlock()

	duration := time.Duration(0)
	if !since.IsZero() {
		duration = time.Since(since)
	}
	if notifyErr := d.notifier.NotifyBacklogCleared(ctx, decided, duration); notifyErr != nil {
		d.logger.Warn("backlog-cleared notification failed", logging.Error(notifyErr))
	}
}

// APIAddr reports the bound API listen address, or empty before Start.
func (d *Daemon) APIAddr() string {
	return d.api.addr()
}

// TestNotification triggers a test notification using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" {
		return false, "ntfy topic not configured", nil
	}
	if err := d.notifier.TestNotification(ctx); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}

// DatabaseHealth returns detailed database diagnostics.
func (d *Daemon) DatabaseHealth(ctx context.Context) (store.DatabaseHealth, error) {
	return d.store.CheckHealth(ctx)
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	pending, err := d.store.PendingTotal(ctx)
	if err != nil {
		pending = -1
	}
	return Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		DatabasePath: d.cfg.DatabasePath(),
		LockFilePath: d.lockPath,
		PendingCount: pending,
	}
}
