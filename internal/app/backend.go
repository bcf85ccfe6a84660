package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/tabas/internal/config"
	"github.com/MrSnakeDoc/tabas/internal/logger"
	"github.com/MrSnakeDoc/tabas/internal/redis"
	"github.com/MrSnakeDoc/tabas/internal/storage"
	"github.com/MrSnakeDoc/tabas/internal/storage/memory"
	redisstore "github.com/MrSnakeDoc/tabas/internal/storage/redis"
	"github.com/MrSnakeDoc/tabas/internal/storage/sqlite"
)

// Backend is the configured key-value store plus what the rest of the app
// needs to know about it.
type Backend struct {
	storage.Backend
	Name string
	// Redis is the shared client when Name is "redis", nil otherwise.
	Redis *goredis.Client
	// Ping probes the backend for readiness; nil when there is nothing to probe.
	Ping func(ctx context.Context) error
}

// OpenBackend builds the backend selected by cfg.Storage. Closing it releases
// the file or the redis client.
func OpenBackend(ctx context.Context, cfg *config.Config, log logger.Logger) (*Backend, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		log.Warn("using in-memory storage, profiles are lost on exit")
		return &Backend{Backend: memory.New(), Name: cfg.Storage}, nil

	case config.StorageSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info("sqlite storage opened", logger.String("path", cfg.SQLitePath))
		return &Backend{Backend: store, Name: cfg.Storage, Ping: store.Ping}, nil

	case config.StorageRedis:
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		log.Info("Redis initialized successfully")
		store := redisstore.NewStore(client, redisstore.WithPrefix(cfg.RedisPrefix), redisstore.WithOwnedClient())
		return &Backend{Backend: store, Name: cfg.Storage, Redis: client, Ping: store.Ping}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}
