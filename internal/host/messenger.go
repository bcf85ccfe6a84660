package host

import (
	"context"
	"sync"
)

// Signal is a one-way message between surfaces.
type Signal struct {
	Kind   string `json:"kind"`
	Sender string `json:"sender"`
}

const (
	// SignalPageOpen tells popups that the full-page view is already open.
	SignalPageOpen = "page-open"
	// SignalPopupHello asks open pages to announce themselves again.
	SignalPopupHello = "popup-hello"
)

// Messenger carries signals between surfaces. Subscriptions end with ctx.
type Messenger interface {
	Publish(ctx context.Context, sig Signal) error
	Subscribe(ctx context.Context) (<-chan Signal, error)
	Close() error
}

// MemoryMessenger connects surfaces living in the same process.
type MemoryMessenger struct {
	mu     sync.Mutex
	subs   map[chan Signal]struct{}
	closed bool
}

func NewMemoryMessenger() *MemoryMessenger {
	return &MemoryMessenger{subs: make(map[chan Signal]struct{})}
}

// Publish delivers sig to every subscriber that has room for it.
func (m *MemoryMessenger) Publish(_ context.Context, sig Signal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for ch := range m.subs {
		select {
		case ch <- sig:
		default:
		}
	}
	return nil
}

func (m *MemoryMessenger) Subscribe(ctx context.Context) (<-chan Signal, error) {
	ch := make(chan Signal, subscriberBuffer)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		close(ch)
		return ch, nil
	}
	m.subs[ch] = struct{}{}
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.remove(ch)
	}()
	return ch, nil
}

func (m *MemoryMessenger) remove(ch chan Signal) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.subs[ch]; ok {
		delete(m.subs, ch)
		close(ch)
	}
}

// Close ends every subscription.
func (m *MemoryMessenger) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for ch := range m.subs {
		delete(m.subs, ch)
		close(ch)
	}
	m.closed = true
	return nil
}

// Subscribers returns the number of live subscriptions.
func (m *MemoryMessenger) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.subs)
}
