package window

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"modq/internal/itemstore"
	"modq/internal/logging"
	"modq/internal/review"
)

// DefaultCapacity bounds the window when the configuration does not
// supply its own limit.
const DefaultCapacity = 4

// EventKind classifies a window change notification.
type EventKind string

const (
	// EventInserted fires after an item settles into the window, either
	// from the initial load or from a backfill pull.
	EventInserted EventKind = "inserted"
	// EventRetired fires after an item leaves the window.
	EventRetired EventKind = "retired"
	// EventReloaded fires after the window is replaced wholesale.
	EventReloaded EventKind = "reloaded"
)

// Event describes a single window change. Item is zero-valued for
// EventReloaded.
type Event struct {
	Kind EventKind
	Item review.Item
}

// Listener receives window change events. Listeners run synchronously
// after the mutation commits and must not call back into the Manager.
type Listener func(Event)

// Manager mirrors a fixed-capacity slice of the server's pending backlog.
// All exported methods are safe for concurrent use; network fetches run
// outside the state lock, so observers may see the window transiently
// short between a retire and its backfill.
type Manager struct {
	client   itemstore.Client
	capacity int
	logger   *slog.Logger

	mu          sync.Mutex
	items       []review.Item
	serverTotal int
	nextOffset  int
	retired     int
	loaded      bool
	listeners   []Listener
}

// NewManager builds a window over client holding at most capacity items.
// A non-positive capacity falls back to DefaultCapacity.
func NewManager(client itemstore.Client, capacity int, logger *slog.Logger) *Manager {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Manager{
		client:   client,
		capacity: capacity,
		logger:   logging.NewComponentLogger(logger, "window"),
	}
}

// Capacity reports the fixed window limit.
func (m *Manager) Capacity() int {
	return m.capacity
}

// Subscribe registers a listener for window change events.
func (m *Manager) Subscribe(fn Listener) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// LoadInitial replaces the window with the first page of pending items.
// On failure the previous contents are discarded and Loaded reports
// false, so an unreachable store is distinguishable from a truly empty
// backlog; the call is safe to retry.
func (m *Manager) LoadInitial(ctx context.Context) error {
	page, err := m.client.ListPending(ctx, m.capacity, 0)
	if err != nil {
		m.mu.Lock()
		m.items = nil
		m.serverTotal = 0
		m.nextOffset = 0
		m.loaded = false
		m.mu.Unlock()
		return fmt.Errorf("load pending window: %w", err)
	}

	m.mu.Lock()
	m.items = m.items[:0]
	m.serverTotal = page.TotalCount
	m.appendLocked(toItems(page.Items))
	m.nextOffset = len(m.items)
	m.loaded = true
	count := len(m.items)
	listeners := m.snapshotListenersLocked()
	m.mu.Unlock()

	m.logger.Info("window loaded",
		logging.Int("items", count),
		logging.Int("server_total", page.TotalCount))
	emit(listeners, Event{Kind: EventReloaded})
	return nil
}

// Loaded reports whether the last LoadInitial succeeded. An empty loaded
// window means the backlog is clear; an unloaded one means the store was
// unreachable.
func (m *Manager) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

// Items returns a copy of the current window contents in display order.
func (m *Manager) Items() []review.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]review.Item, len(m.items))
	copy(out, m.items)
	return out
}

// ServerTotal reports the last-known authoritative pending count.
func (m *Manager) ServerTotal() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.serverTotal
}

// NextOffset reports the pagination offset the next backfill pull will
// use. It only ever grows until the next full reload.
func (m *Manager) NextOffset() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nextOffset
}

// SetServerTotal replaces the cached pending count with a fresh
// authoritative value, typically from a stats poll.
func (m *Manager) SetServerTotal(total int) {
	if total < 0 {
		total = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.serverTotal = total
}

// RetiredCount reports how many items have been retired from the window
// over its lifetime. The count only ever grows, so two readings bracket
// the number of local retires between them.
func (m *Manager) RetiredCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.retired
}

// Shortfall reports how many items the window is missing relative to
// what the server could supply: min(capacity, serverTotal) minus the
// current occupancy, floored at zero.
func (m *Manager) Shortfall() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shortfallLocked()
}

// Retire removes the identified item from the window and decrements the
// cached server total. Retiring an id that is not present is a logged
// no-op that leaves all state unchanged, so repeated retires for the
// same decision are harmless. It reports whether the window is now
// short of what the server could supply.
func (m *Manager) Retire(id string) bool {
	m.mu.Lock()
	idx := -1
	for i := range m.items {
		if m.items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		short := m.shortfallLocked() > 0
		m.mu.Unlock()
		m.logger.Debug("retire skipped, item not in window", logging.String(logging.FieldItemID, id))
		return short
	}

	retired := m.items[idx]
	m.items = append(m.items[:idx], m.items[idx+1:]...)
	m.retired++
	if m.serverTotal > 0 {
		m.serverTotal--
	}
	short := m.shortfallLocked() > 0
	listeners := m.snapshotListenersLocked()
	m.mu.Unlock()

	m.logger.Debug("item retired", logging.String(logging.FieldItemID, id))
	emit(listeners, Event{Kind: EventRetired, Item: retired})
	return short
}

// BackfillIfNeeded pulls items one at a time at the advancing offset
// until the window holds min(capacity, serverTotal) items. An empty
// fetch ends the pass quietly; the cached total is reconciled from each
// page so a stale count cannot loop forever. Fetch errors abort the
// pass and leave the window as it stands.
func (m *Manager) BackfillIfNeeded(ctx context.Context) error {
	for {
		m.mu.Lock()
		if !m.loaded || m.shortfallLocked() == 0 {
			m.mu.Unlock()
			return nil
		}
		offset := m.nextOffset
		m.mu.Unlock()

		page, err := m.client.ListPending(ctx, 1, offset)
		if err != nil {
			return fmt.Errorf("backfill at offset %d: %w", offset, err)
		}

		m.mu.Lock()
		m.serverTotal = page.TotalCount
		if len(page.Items) == 0 {
			// The server has nothing at this offset; the cached total
			// was ahead of reality.
			m.mu.Unlock()
			m.logger.Debug("backfill drained", logging.Int("offset", offset))
			return nil
		}
		m.nextOffset = offset + 1
		added := m.appendLocked(toItems(page.Items))
		listeners := m.snapshotListenersLocked()
		m.mu.Unlock()

		for _, item := range added {
			m.logger.Debug("item backfilled",
				logging.String(logging.FieldItemID, item.ID),
				logging.Int("offset", offset))
			emit(listeners, Event{Kind: EventInserted, Item: item})
		}
	}
}

// appendLocked adds items to the window up to capacity, skipping any id
// already present. It returns the items actually admitted. Callers hold
// the state lock.
func (m *Manager) appendLocked(items []review.Item) []review.Item {
	var added []review.Item
	for _, item := range items {
		if len(m.items) >= m.capacity {
			break
		}
		if m.containsLocked(item.ID) {
			m.logger.Debug("duplicate item dropped", logging.String(logging.FieldItemID, item.ID))
			continue
		}
		m.items = append(m.items, item)
		added = append(added, item)
	}
	return added
}

func (m *Manager) containsLocked(id string) bool {
	for i := range m.items {
		if m.items[i].ID == id {
			return true
		}
	}
	return false
}

func (m *Manager) shortfallLocked() int {
	target := m.capacity
	if m.serverTotal < target {
		target = m.serverTotal
	}
	if short := target - len(m.items); short > 0 {
		return short
	}
	return 0
}

func (m *Manager) snapshotListenersLocked() []Listener {
	if len(m.listeners) == 0 {
		return nil
	}
	out := make([]Listener, len(m.listeners))
	copy(out, m.listeners)
	return out
}

func emit(listeners []Listener, event Event) {
	for _, fn := range listeners {
		fn(event)
	}
}

func toItems(payloads []itemstore.ItemPayload) []review.Item {
	items := make([]review.Item, 0, len(payloads))
	for _, p := range payloads {
		items = append(items, *p.ToItem())
	}
	return items
}
