package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/tabas/internal/host"
	"github.com/MrSnakeDoc/tabas/internal/logger"
	"github.com/MrSnakeDoc/tabas/internal/state"
)

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	AllowedHosts   []string                        // Host headers allowed to access the server
	AllowedCIDRS   []string                        // networks allowed to access the server
	TrustProxy     bool                            // true if running behind a trusted reverse proxy
	RateBurst      int                             // write requests allowed in a burst per client, 0 = unlimited
	RatePerMin     int                             // write requests refilled per client and minute
	State          *state.Container                // in-memory view of the surface
	Bridge         *host.Bridge                    // receives tab reports from the browser extension
	Surface        *host.SurfaceMonitor            // page-open signal for this surface
	StorageName    string                          // "memory" | "redis" | "sqlite"
	StoragePing    func(ctx context.Context) error // optional readiness probe of the backend
	RefreshTrigger chan struct{}                   // Channel to trigger a manual state refresh
}
