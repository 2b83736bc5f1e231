package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/cnftree"
	"github.com/aretw0/cnftree/internal/config"
	"github.com/aretw0/cnftree/internal/logging"
	"github.com/aretw0/cnftree/pkg/adapters/file"
	"github.com/aretw0/cnftree/pkg/adapters/memory"
	"github.com/aretw0/cnftree/pkg/adapters/redis"
	"github.com/aretw0/cnftree/pkg/adapters/sqlite"
	"github.com/aretw0/cnftree/pkg/observability"
	"github.com/aretw0/cnftree/pkg/ports"
)

// DefaultSQLiteCache is the database used by the sqlite backend when no path
// is configured.
const DefaultSQLiteCache = ".cnftree/cache.db"

// Options carries the global flags shared by every command.
// Empty fields leave the configuration untouched.
type Options struct {
	ConfigPath string
	LogLevel   string
	BaseDir    string
}

// LoadConfig reads the configuration and applies the flag overrides.
func LoadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.BaseDir != "" {
		cfg.BaseDir = opts.BaseDir
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// NewLogger builds the application logger from the log section.
func NewLogger(cfg config.LogConfig) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	return logging.New(level, logging.Format(cfg.Format)), nil
}

// App bundles what the commands share: configuration, logger, metrics and
// the converter wired to the configured cache.
type App struct {
	Config    config.Config
	Logger    *slog.Logger
	Metrics   *observability.Metrics
	Converter *cnftree.Converter
	Cache     ports.TreeStore

	closeCache func() error
}

type appSettings struct {
	logger   *slog.Logger
	confined bool
}

// AppOption configures NewApp.
type AppOption func(*appSettings)

// WithAppLogger replaces the logger built from the configuration.
func WithAppLogger(logger *slog.Logger) AppOption {
	return func(s *appSettings) {
		s.logger = logger
	}
}

// WithConfinedIncludes rejects include paths that leave the base directory.
// Used when the converter serves untrusted input.
func WithConfinedIncludes() AppOption {
	return func(s *appSettings) {
		s.confined = true
	}
}

// NewApp wires the converter from cfg. Close releases the cache.
func NewApp(ctx context.Context, cfg config.Config, opts ...AppOption) (*App, error) {
	var settings appSettings
	for _, opt := range opts {
		opt(&settings)
	}

	logger := settings.logger
	if logger == nil {
		var err error
		if logger, err = NewLogger(cfg.Log); err != nil {
			return nil, err
		}
	}

	cache, closeCache, err := OpenCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}

	var loaderOpts []file.LoaderOption
	if settings.confined {
		loaderOpts = append(loaderOpts, file.WithConfinement())
	}

	metrics := observability.NewMetrics()
	convOpts := []cnftree.Option{
		cnftree.WithBaseDir(cfg.BaseDir),
		cnftree.WithLoader(file.NewLoader(loaderOpts...)),
		cnftree.WithLogger(logger),
		cnftree.WithLifecycleHooks(metrics.Hooks()),
		cnftree.WithLifecycleHooks(observability.LoggingHooks(logger)),
	}
	if cache != nil {
		convOpts = append(convOpts,
			cnftree.WithCache(cache),
			cnftree.WithCacheObserver(metrics.ObserveCache),
		)
	}

	logger.Debug("converter ready", "base_dir", cfg.BaseDir, "cache", cfg.Cache.Backend)
	return &App{
		Config:     cfg,
		Logger:     logger,
		Metrics:    metrics,
		Converter:  cnftree.New(convOpts...),
		Cache:      cache,
		closeCache: closeCache,
	}, nil
}

// Close releases the cache connection, if any.
func (a *App) Close() error {
	if a.closeCache == nil {
		return nil
	}
	return a.closeCache()
}

// OpenCache opens the configured tree store. A nil store means caching is
// disabled. The returned function closes the store.
func OpenCache(ctx context.Context, cfg config.CacheConfig) (ports.TreeStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case "", config.CacheNone:
		return nil, noop, nil
	case config.CacheMemory:
		return memory.NewStore(), noop, nil
	case config.CacheFile:
		return file.NewStore(cfg.Path), noop, nil
	case config.CacheRedis:
		opts := []redis.Option{}
		if cfg.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Prefix))
		}
		if cfg.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.TTL))
		}
		store := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, opts...)
		if err := store.Ping(ctx); err != nil {
			return nil, nil, errors.Join(fmt.Errorf("redis cache at %s: %w", cfg.RedisAddr, err), store.Close())
		}
		return store, store.Close, nil
	case config.CacheSQLite:
		path := cfg.Path
		if path == "" {
			path = filepath.FromSlash(DefaultSQLiteCache)
		}
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
}
