package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/tabas/internal/config"
	"github.com/MrSnakeDoc/tabas/internal/logger"
	"github.com/MrSnakeDoc/tabas/internal/state"
	"github.com/MrSnakeDoc/tabas/internal/storage"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		ListenPort:          "127.0.0.1:0",
		ShutdownTimeout:     time.Second,
		RequestTimeout:      time.Second,
		Surface:             "page",
		Storage:             config.StorageSQLite,
		SQLitePath:          filepath.Join(t.TempDir(), "tabas.db"),
		RedisDT:             time.Second,
		RedisRT:             time.Second,
		RedisWT:             time.Second,
		RedisMaxWait:        100 * time.Millisecond,
		RedisPingTimeout:    time.Second,
		RedisPoolSize:       2,
		RedisConnectTimeout: time.Second,
		RedisRetryInterval:  50 * time.Millisecond,
	}
}

func TestOpenBackend(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	for _, name := range []string{config.StorageMemory, config.StorageSQLite, config.StorageRedis} {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Storage = name
			cfg.RedisAddr = mr.Addr()

			b, err := OpenBackend(ctx, cfg, logger.NewNop())
			require.NoError(t, err)
			defer b.Close()

			assert.Equal(t, name, b.Name)
			assert.Equal(t, name == config.StorageRedis, b.Redis != nil)
			if b.Ping != nil {
				assert.NoError(t, b.Ping(ctx))
			}

			a := storage.NewAdapter(b)
			require.NoError(t, a.SaveSelectedProfile(ctx, "p1"))
			got, err := a.SelectedProfile(ctx)
			require.NoError(t, err)
			assert.Equal(t, "p1", got)
		})
	}
}

func TestOpenBackendUnknown(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage = "etcd"
	_, err := OpenBackend(context.Background(), cfg, logger.NewNop())
	assert.Error(t, err)
}

func TestRunSeedsAndStops(t *testing.T) {
	cfg := testConfig(t)
	cfg.SeedFile = filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(cfg.SeedFile, []byte(`profiles:
  - name: Personal
    folders:
      - name: Reading
        tabs:
          - url: https://go.dev
`), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	a, err := New(ctx, cfg, logger.NewNop())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool { return a.state.Phase() == state.PhaseReady },
		2*time.Second, 10*time.Millisecond)
	profiles := a.state.Profiles()
	require.Len(t, profiles, 1)
	assert.Equal(t, "Personal", profiles[0].DisplayName)
	assert.Equal(t, "go.dev", profiles[0].Folders[0].Tabs[0].DisplayName)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewRejectsUnknownSurface(t *testing.T) {
	cfg := testConfig(t)
	cfg.Surface = "sidebar"
	_, err := New(context.Background(), cfg, logger.NewNop())
	assert.Error(t, err)
}
