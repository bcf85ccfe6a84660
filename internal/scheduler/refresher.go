package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/tabas/internal/logger"
)

// Refreshable re-reads its state from storage.
type Refreshable interface {
	Refresh(ctx context.Context) error
}

// StateRefresher re-reads the state container on a timer and on demand.
// Storage written by another surface only shows up after such a refresh.
type StateRefresher struct {
	target        Refreshable
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	done          chan struct{}
	manualTrigger chan struct{}
}

// NewStateRefresher creates a refresher. A zero interval disables the timer;
// manual triggers still work.
func NewStateRefresher(
	target Refreshable,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *StateRefresher {
	return &StateRefresher{
		target:        target,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		done:          make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start runs the refresh loop in the background until ctx ends or Stop.
func (sr *StateRefresher) Start(ctx context.Context) {
	go func() {
		defer close(sr.done)

		var tick <-chan time.Time
		if sr.interval > 0 {
			ticker := time.NewTicker(sr.interval)
			defer ticker.Stop()
			tick = ticker.C
		}

		for {
			select {
			case <-tick:
				sr.run(ctx)
			case <-sr.manualTrigger:
				sr.logger.Info("manual refresh triggered")
				sr.run(ctx)
			case <-sr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Done is closed once the loop started by Start has returned.
func (sr *StateRefresher) Done() <-chan struct{} {
	return sr.done
}

// Stop stops the refresher. Call it once.
func (sr *StateRefresher) Stop() {
	close(sr.stopCh)
}

func (sr *StateRefresher) run(ctx context.Context) {
	if err := sr.target.Refresh(ctx); err != nil {
		sr.logger.Error("failed to refresh state", logger.Error(err))
		return
	}
	sr.logger.Debug("state refreshed")
}
