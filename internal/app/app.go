package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/tabas/internal/config"
	"github.com/MrSnakeDoc/tabas/internal/domain"
	"github.com/MrSnakeDoc/tabas/internal/host"
	"github.com/MrSnakeDoc/tabas/internal/httpserver"
	"github.com/MrSnakeDoc/tabas/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tabas/internal/logger"
	"github.com/MrSnakeDoc/tabas/internal/persistence"
	"github.com/MrSnakeDoc/tabas/internal/scheduler"
	"github.com/MrSnakeDoc/tabas/internal/sources/seed"
	"github.com/MrSnakeDoc/tabas/internal/state"
	"github.com/MrSnakeDoc/tabas/internal/storage"
	"github.com/MrSnakeDoc/tabas/internal/version"
)

type App struct {
	cfg       *config.Config
	logger    logger.Logger
	backend   *Backend
	ops       *persistence.Operations
	bridge    *host.Bridge
	messenger host.Messenger
	surface   *host.SurfaceMonitor
	state     *state.Container
	refresher *scheduler.StateRefresher
	server    *httpserver.Server
}

// New wires every component for one surface. The backend is opened here so
// that a misconfigured storage fails before anything listens.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	kind, err := host.ParseSurfaceKind(cfg.Surface)
	if err != nil {
		return nil, err
	}

	backend, err := OpenBackend(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	ops := persistence.New(storage.NewAdapter(backend), log.With(logger.String("component", "persistence")))
	bridge := host.NewBridge(log.With(logger.String("component", "host")))

	var messenger host.Messenger
	if backend.Redis != nil {
		messenger = host.NewRedisMessenger(backend.Redis, host.DefaultChannel, log)
	} else {
		messenger = host.NewMemoryMessenger()
	}
	surface := host.NewSurfaceMonitor(kind, messenger, log.With(logger.String("surface", string(kind))))

	container := state.New(ops, bridge, state.WithLogger(log.With(logger.String("component", "state"))))

	refreshTrigger := make(chan struct{}, 1)
	refresher := scheduler.NewStateRefresher(container, log, cfg.RefreshInterval, refreshTrigger)

	d := deps.Deps{
		Logger:         log,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		AllowedHosts:   cfg.AllowedHosts,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		TrustProxy:     cfg.TrustProxy,
		RateBurst:      cfg.RateBurst,
		RatePerMin:     cfg.RatePerMin,
		State:          container,
		Bridge:         bridge,
		Surface:        surface,
		StorageName:    backend.Name,
		StoragePing:    backend.Ping,
		RefreshTrigger: refreshTrigger,
	}

	return &App{
		cfg:       cfg,
		logger:    log,
		backend:   backend,
		ops:       ops,
		bridge:    bridge,
		messenger: messenger,
		surface:   surface,
		state:     container,
		refresher: refresher,
		server:    httpserver.New(cfg, log, d),
	}, nil
}

// Seed imports the configured seed file when storage holds no profile yet.
func (a *App) Seed(ctx context.Context) error {
	if a.cfg.SeedFile == "" {
		return nil
	}
	doc, err := seed.NewLoader(a.cfg.SeedFile).Load()
	if err != nil {
		return err
	}
	clock := domain.RealClock{}
	importer := seed.NewImporter(a.ops, seed.NewMapper(domain.NewTimestampIDs(clock), clock), a.logger)
	seeded, err := importer.SeedIfEmpty(ctx, doc)
	if err != nil {
		return err
	}
	if seeded {
		a.logger.Info("storage seeded", logger.String("file", a.cfg.SeedFile))
	}
	return nil
}

// Run serves until ctx ends, then shuts everything down.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting tabas %s on %s", version.String(), a.cfg.ListenPort)
	defer a.close()

	if err := a.Seed(ctx); err != nil {
		return fmt.Errorf("failed to seed storage: %w", err)
	}

	// A failed first load leaves the container uninitialized (readyz says so)
	// until the refresher or POST /api/refresh succeeds.
	if err := a.state.Mount(ctx); err != nil {
		a.logger.Warn("initial state load failed", logger.Error(err))
	}

	g, gctx := errgroup.WithContext(ctx)

	a.refresher.Start(gctx)
	a.logger.Info("state refresher started",
		logger.Duration("interval", a.cfg.RefreshInterval))

	g.Go(func() error {
		if err := a.server.Start(); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return a.surface.Listen(gctx)
	})

	if err := a.surface.Announce(gctx); err != nil {
		a.logger.Warn("failed to announce surface", logger.Error(err))
	}

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("⏳ Shutting down gracefully...")
		a.refresher.Stop()
		<-a.refresher.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := a.server.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	a.logger.Info("✅ tabas stopped cleanly")
	return nil
}

func (a *App) close() {
	a.state.Close()
	if err := a.messenger.Close(); err != nil {
		a.logger.Warn("failed to close messenger", logger.Error(err))
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Warnf("failed to close %s storage: %v", a.backend.Name, err)
	} else {
		a.logger.Info("✅ storage closed cleanly", logger.String("backend", a.backend.Name))
	}
}
