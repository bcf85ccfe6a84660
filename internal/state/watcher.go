package state

import (
	"context"

	"github.com/MrSnakeDoc/tabas/internal/host"
	"github.com/MrSnakeDoc/tabas/internal/logger"
)

// Mount subscribes to host tab events, reads the active tab and loads the
// stored state. The event watcher keeps running even when the initial fetch
// fails; the container then stays uninitialized until a later Refresh.
// Mounting again replaces the previous watcher.
func (c *Container) Mount(ctx context.Context) error {
	c.Close()
	events, unsubscribe := c.env.Subscribe()

	watchCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	c.mu.Lock()
	c.watchCancel = cancel
	c.watchDone = done
	c.mu.Unlock()

	go func() {
		defer close(done)
		defer unsubscribe()
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				c.handleTabEvent(watchCtx, ev)
			case <-watchCtx.Done():
				return
			}
		}
	}()

	c.refreshActivePage(ctx)
	return c.Refresh(ctx)
}

// Close stops the event watcher. It is safe to call more than once.
func (c *Container) Close() {
	c.mu.Lock()
	cancel, done := c.watchCancel, c.watchDone
	c.watchCancel, c.watchDone = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// handleTabEvent re-reads the active tab on activation, and on updates of the
// tab currently tracked (or of any tab while none is tracked yet).
func (c *Container) handleTabEvent(ctx context.Context, ev host.TabEvent) {
	switch ev.Kind {
	case host.TabActivated:
	case host.TabUpdated:
		c.mu.RLock()
		tracked := c.activeTabID
		c.mu.RUnlock()
		if tracked != "" && ev.TabID != "" && ev.TabID != tracked {
			return
		}
	default:
		c.logger.Debug("ignoring tab event", logger.String("kind", string(ev.Kind)))
		return
	}
	c.refreshActivePage(ctx)
}

// refreshActivePage keeps the previous URL when the host reports no active
// tab or one without a URL.
func (c *Container) refreshActivePage(ctx context.Context) {
	tab, err := c.env.ActiveTab(ctx)
	if err != nil {
		c.logger.Warn("failed to query active tab", logger.Error(err))
		return
	}
	if tab == nil || tab.URL == "" {
		return
	}

	c.mu.Lock()
	c.activeURL = tab.URL
	c.activeTabID = tab.ID
	c.mu.Unlock()
}
