package host

import (
	"context"

	"github.com/MrSnakeDoc/tabas/internal/domain"
)

// TabQuerier reads the browser's live tab state.
type TabQuerier interface {
	// ActiveTab returns the focused tab of the current window, nil when unknown.
	ActiveTab(ctx context.Context) (*domain.BrowserTab, error)
	// WindowTabs returns every tab of the current window in window order.
	WindowTabs(ctx context.Context) ([]domain.BrowserTab, error)
}

// EventKind tells which browser notification fired.
type EventKind string

const (
	TabActivated EventKind = "activated"
	TabUpdated   EventKind = "updated"
)

// TabEvent carries enough identity to decide whether the active URL changed.
type TabEvent struct {
	Kind  EventKind `json:"kind"`
	TabID string    `json:"tabId"`
	URL   string    `json:"url,omitempty"`
}

// TabEvents delivers tab notifications. The returned func unsubscribes.
type TabEvents interface {
	Subscribe() (<-chan TabEvent, func())
}

// Environment is everything a state container needs from the browser.
type Environment interface {
	TabQuerier
	TabEvents
}
