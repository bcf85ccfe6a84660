package config

import (
	"errors"
	"fmt"
	"log"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends.
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

type Config struct {
	ListenPort      string        // ex: "127.0.0.1:7420"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline for API handlers

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	Surface         string        // "page" | "popup"
	Storage         string        // "memory" | "redis" | "sqlite"
	SQLitePath      string        // path of the sqlite database file
	SeedFile        string        // optional YAML imported when storage holds no profile
	RefreshInterval time.Duration // periodic state re-read, 0 = manual only

	// Redis
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisPrefix         string        // prepended to storage keys
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // restrict access to specific networks (default: loopback only)
	TrustProxy   bool     // true => trust X-Forwarded-For headers
	RateBurst    int      // write requests per client in a burst, 0 = unlimited
	RatePerMin   int      // write requests refilled per client and minute
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("TABAS_LISTEN_PORT", "127.0.0.1:7420"),
		ShutdownTimeout: mustDuration("TABAS_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("TABAS_REQUEST_TIMEOUT", 10*time.Second),

		// Logging
		LogLevel:  getenv("TABAS_LOG_LEVEL", "info"),
		PrettyLog: mustBool("TABAS_PRETTY_LOG", true),

		// State
		Surface:         strings.ToLower(getenv("TABAS_SURFACE", "page")),
		Storage:         strings.ToLower(getenv("TABAS_STORAGE", StorageSQLite)),
		SQLitePath:      getenv("TABAS_SQLITE_PATH", "tabas.db"),
		SeedFile:        getenv("TABAS_SEED_FILE", ""),
		RefreshInterval: mustDuration("TABAS_REFRESH_INTERVAL", 0),

		// Redis settings
		RedisAddr:           getenv("TABAS_REDIS_ADDR", ""),
		RedisUser:           getenv("TABAS_REDIS_USERNAME", ""),
		RedisPassword:       getenv("TABAS_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("TABAS_REDIS_DB", 0),
		RedisPrefix:         getenv("TABAS_REDIS_PREFIX", ""),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("TABAS_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("TABAS_ALLOWED_CIDRS", "127.0.0.1/32,::1/128")),
		TrustProxy:   mustBool("TABAS_TRUST_PROXY", false),
		RateBurst:    getenvInt("TABAS_RATE_BURST", 120),
		RatePerMin:   getenvInt("TABAS_RATE_PER_MIN", 600),
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfg.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// Validate reports every inconsistent value at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage {
	case StorageMemory, StorageSQLite:
	case StorageRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("TABAS_REDIS_ADDR is required when TABAS_STORAGE=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("TABAS_STORAGE: unknown backend %q (want memory, redis or sqlite)", c.Storage))
	}

	if c.Storage == StorageSQLite && c.SQLitePath == "" {
		errs = append(errs, errors.New("TABAS_SQLITE_PATH must not be empty"))
	}

	switch c.Surface {
	case "page", "popup":
	default:
		errs = append(errs, fmt.Errorf("TABAS_SURFACE: unknown surface %q (want page or popup)", c.Surface))
	}

	for _, cidr := range c.AllowedCIDRS {
		if _, err := netip.ParsePrefix(cidr); err == nil {
			continue
		}
		if _, err := netip.ParseAddr(cidr); err != nil {
			errs = append(errs, fmt.Errorf("TABAS_ALLOWED_CIDRS: %q is neither an IP nor a CIDR", cidr))
		}
	}

	if c.RefreshInterval < 0 {
		errs = append(errs, errors.New("TABAS_REFRESH_INTERVAL must not be negative"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("TABAS_REQUEST_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
