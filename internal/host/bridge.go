package host

import (
	"context"
	"sync"

	"github.com/MrSnakeDoc/tabas/internal/domain"
	"github.com/MrSnakeDoc/tabas/internal/logger"
)

// subscriberBuffer bounds each subscriber queue; a slow subscriber drops events
// rather than blocking the reporter.
const subscriberBuffer = 16

// Bridge is the host environment fed by the browser extension.
// The extension reports the current window (tabs + which one is active) and
// the bridge answers queries from that snapshot and fans out events.
// It is safe for concurrent use.
type Bridge struct {
	mu     sync.RWMutex
	tabs   []domain.BrowserTab
	subs   map[int]chan TabEvent
	nextID int
	logger logger.Logger
}

// NewBridge creates an empty bridge: no active tab until the first report.
func NewBridge(log logger.Logger) *Bridge {
	return &Bridge{
		subs:   make(map[int]chan TabEvent),
		logger: log,
	}
}

// ActiveTab returns a copy of the active tab, nil when none was reported.
func (b *Bridge) ActiveTab(_ context.Context) (*domain.BrowserTab, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, t := range b.tabs {
		if t.Active {
			tab := t
			return &tab, nil
		}
	}
	return nil, nil
}

// WindowTabs returns a copy of the reported window.
func (b *Bridge) WindowTabs(_ context.Context) ([]domain.BrowserTab, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]domain.BrowserTab, len(b.tabs))
	copy(out, b.tabs)
	return out, nil
}

// Report replaces the window snapshot and publishes the event that caused it.
func (b *Bridge) Report(tabs []domain.BrowserTab, ev TabEvent) {
	snapshot := make([]domain.BrowserTab, len(tabs))
	copy(snapshot, tabs)

	// sends are non-blocking, so holding the lock keeps unsubscribe from
	// closing a channel mid-send
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tabs = snapshot
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.logger.Warn("tab event dropped, subscriber is lagging",
				logger.String("kind", string(ev.Kind)),
				logger.String("tab_id", ev.TabID))
		}
	}
}

// Subscribe registers a listener. Call the returned func to unsubscribe; the
// channel is closed then.
func (b *Bridge) Subscribe() (<-chan TabEvent, func()) {
	ch := make(chan TabEvent, subscriberBuffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers returns the number of active listeners.
func (b *Bridge) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs)
}
