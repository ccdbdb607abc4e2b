// Package config loads server configuration.
//
// Sources are layered, later ones winning: built-in defaults, FTD_* environment
// variables, an optional YAML file, then command-line flags the user set.
package config

import (
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// EnvPrefix prefixes every environment variable
const EnvPrefix = "FTD_"

// Config is the complete server configuration
type Config struct {
	Addr        string            `env:"ADDR" koanf:"addr"`
	LogLevel    string            `env:"LOG_LEVEL" koanf:"log_level"`
	Storage     StorageConfig     `koanf:"storage"`
	Leaderboard LeaderboardConfig `koanf:"leaderboard"`
	Metrics     MetricsConfig     `koanf:"metrics"`
}

// StorageConfig selects and configures the storage backend
type StorageConfig struct {
	Type            string `env:"STORAGE_TYPE" koanf:"type"`
	RedisURL        string `env:"REDIS_URL" koanf:"redis_url"`
	PostgresURL     string `env:"DATABASE_URL" koanf:"postgres_url"`
	SQLitePath      string `env:"SQLITE_PATH" koanf:"sqlite_path"`
	BcryptCost      int    `env:"BCRYPT_COST" koanf:"bcrypt_cost"`
	ConnectAttempts int    `env:"CONNECT_ATTEMPTS" koanf:"connect_attempts"`
}

// LeaderboardConfig configures the public ranking
type LeaderboardConfig struct {
	Size int `env:"LEADERBOARD_SIZE" koanf:"size"`
}

// MetricsConfig configures the prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `env:"METRICS_ENABLED" koanf:"enabled"`
	Path    string `env:"METRICS_PATH" koanf:"path"`
}

// Default returns the configuration used when nothing overrides it
func Default() Config {
	return Config{
		Addr:     ":8000",
		LogLevel: "info",
		Storage: StorageConfig{
			Type:            StorageMemory,
			BcryptCost:      bcrypt.DefaultCost,
			ConnectAttempts: 5,
		},
		Leaderboard: LeaderboardConfig{Size: 10},
		Metrics:     MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

// flagKeys maps flag names to configuration keys
var flagKeys = map[string]string{
	"addr":             "addr",
	"log-level":        "log_level",
	"storage":          "storage.type",
	"redis-url":        "storage.redis_url",
	"database-url":     "storage.postgres_url",
	"sqlite-path":      "storage.sqlite_path",
	"bcrypt-cost":      "storage.bcrypt_cost",
	"connect-attempts": "storage.connect_attempts",
	"leaderboard-size": "leaderboard.size",
	"metrics":          "metrics.enabled",
	"metrics-path":     "metrics.path",
}

// RegisterFlags adds every configuration flag to fs. Flag defaults are only
// shown in help; a flag overrides other sources only when it is set.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("config", "", "path to a YAML configuration file")
	fs.String("addr", d.Addr, "listen address")
	fs.String("log-level", d.LogLevel, "log level (debug, info, warn, error)")
	fs.String("storage", d.Storage.Type, "storage backend (memory, redis, postgres, sqlite)")
	fs.String("redis-url", "", "redis connection URL")
	fs.String("database-url", "", "postgres connection URL")
	fs.String("sqlite-path", "", "sqlite database file")
	fs.Int("bcrypt-cost", d.Storage.BcryptCost, "bcrypt cost for stored secrets")
	fs.Int("connect-attempts", d.Storage.ConnectAttempts, "storage connection attempts at startup")
	fs.Int("leaderboard-size", d.Leaderboard.Size, "rows returned by the leaderboard")
	fs.Bool("metrics", d.Metrics.Enabled, "expose prometheus metrics")
	fs.String("metrics-path", d.Metrics.Path, "path of the metrics endpoint")
}

// LoadOptions controls where Load reads from
type LoadOptions struct {
	// Flags holds flags registered with RegisterFlags (optional)
	Flags *pflag.FlagSet
	// Environment replaces the process environment when non-nil
	Environment map[string]string
}

// Load builds the configuration from every source and validates it
func Load(opts LoadOptions) (Config, error) {
	cfg := Default()

	if err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      EnvPrefix,
		Environment: opts.Environment,
	}); err != nil {
		return Config{}, oops.Code("CONFIG_ENV").Wrap(err)
	}

	k := koanf.New(".")

	if opts.Flags != nil {
		if path, _ := opts.Flags.GetString("config"); path != "" {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return Config{}, oops.Code("CONFIG_FILE").With("path", path).Wrap(err)
			}
		}

		err := k.Load(posflag.ProviderWithFlag(opts.Flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, known := flagKeys[f.Name]
			if !known || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(opts.Flags, f)
		}), nil)
		if err != nil {
			return Config{}, oops.Code("CONFIG_FLAGS").Wrap(err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code("CONFIG_DECODE").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with
func (c Config) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	switch c.Storage.Type {
	case StorageMemory:
	case StorageRedis:
		if c.Storage.RedisURL == "" {
			return invalid("storage.redis_url is required for redis storage")
		}
	case StoragePostgres:
		if c.Storage.PostgresURL == "" {
			return invalid("storage.postgres_url is required for postgres storage")
		}
	case StorageSQLite:
		if c.Storage.SQLitePath == "" {
			return invalid("storage.sqlite_path is required for sqlite storage")
		}
	default:
		return invalid("unknown storage type %q", c.Storage.Type)
	}

	if c.Storage.BcryptCost < bcrypt.MinCost || c.Storage.BcryptCost > bcrypt.MaxCost {
		return invalid("storage.bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.Storage.ConnectAttempts < 1 {
		return invalid("storage.connect_attempts must be at least 1")
	}
	if c.Leaderboard.Size < 1 {
		return invalid("leaderboard.size must be at least 1")
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return invalid("metrics.path must start with /")
	}
	return nil
}

// SlogLevel parses LogLevel
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, invalid("unknown log level %q", c.LogLevel)
	}
	return level, nil
}

// MetricsPath returns the metrics endpoint path, or "" when metrics are disabled
func (c Config) MetricsPath() string {
	if !c.Metrics.Enabled {
		return ""
	}
	return c.Metrics.Path
}

func invalid(format string, args ...any) error {
	return oops.Code("CONFIG_INVALID").Errorf(format, args...)
}
