package host

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/tabas/internal/logger"
)

// SurfaceKind names a UI surface.
type SurfaceKind string

const (
	SurfacePopup SurfaceKind = "popup"
	SurfacePage  SurfaceKind = "page"
)

// ParseSurfaceKind validates a configured surface name.
func ParseSurfaceKind(s string) (SurfaceKind, error) {
	switch SurfaceKind(s) {
	case SurfacePopup, SurfacePage:
		return SurfaceKind(s), nil
	default:
		return "", fmt.Errorf("unknown surface %q (want popup or page)", s)
	}
}

// SurfaceMonitor implements the "full-page view is already open" signal.
// A page surface announces itself; a popup listens and switches PageOpen on.
type SurfaceMonitor struct {
	kind      SurfaceKind
	id        string
	messenger Messenger
	logger    logger.Logger
	pageOpen  atomic.Bool
}

func NewSurfaceMonitor(kind SurfaceKind, messenger Messenger, log logger.Logger) *SurfaceMonitor {
	return &SurfaceMonitor{
		kind:      kind,
		id:        uuid.NewString(),
		messenger: messenger,
		logger:    log,
	}
}

// ID identifies this surface instance in published signals.
func (s *SurfaceMonitor) ID() string { return s.id }

func (s *SurfaceMonitor) Kind() SurfaceKind { return s.kind }

// PageOpen reports whether a page surface announced itself.
// A page surface always reports true.
func (s *SurfaceMonitor) PageOpen() bool {
	return s.kind == SurfacePage || s.pageOpen.Load()
}

// Announce publishes the page-open signal. Only page surfaces announce.
func (s *SurfaceMonitor) Announce(ctx context.Context) error {
	if s.kind != SurfacePage {
		return nil
	}
	if err := s.messenger.Publish(ctx, Signal{Kind: SignalPageOpen, Sender: s.id}); err != nil {
		return fmt.Errorf("announce page surface: %w", err)
	}
	s.logger.Info("page surface announced", logger.String("surface_id", s.id))
	return nil
}

// Listen consumes signals until ctx ends. Popups flip to the informational
// display on the first page-open signal from another surface. A popup greets
// on start so that an already open page answers with its announcement.
func (s *SurfaceMonitor) Listen(ctx context.Context) error {
	signals, err := s.messenger.Subscribe(ctx)
	if err != nil {
		return err
	}
	if s.kind == SurfacePopup {
		if err := s.messenger.Publish(ctx, Signal{Kind: SignalPopupHello, Sender: s.id}); err != nil {
			s.logger.Warn("failed to greet page surfaces", logger.Error(err))
		}
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case sig, ok := <-signals:
			if !ok {
				return nil
			}
			s.handle(ctx, sig)
		}
	}
}

func (s *SurfaceMonitor) handle(ctx context.Context, sig Signal) {
	if sig.Sender == s.id {
		return
	}
	switch {
	case s.kind == SurfacePage && sig.Kind == SignalPopupHello:
		if err := s.Announce(ctx); err != nil {
			s.logger.Warn("failed to answer popup greeting", logger.Error(err))
		}
	case s.kind == SurfacePopup && sig.Kind == SignalPageOpen && !s.pageOpen.Swap(true):
		s.logger.Info("full-page view is open, popup switches to informational display",
			logger.String("page_id", sig.Sender))
	}
}
