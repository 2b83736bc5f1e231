package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config is the cnftree configuration file (YAML or JSON).
type Config struct {
	// BaseDir is the TPTP root that include paths are resolved against.
	BaseDir  string       `mapstructure:"base_dir" json:"base_dir" yaml:"base_dir"`
	Format   string       `mapstructure:"format" json:"format" yaml:"format"`
	Compress bool         `mapstructure:"compress" json:"compress" yaml:"compress"`
	Log      LogConfig    `mapstructure:"log" json:"log" yaml:"log"`
	Server   ServerConfig `mapstructure:"server" json:"server" yaml:"server"`
	Cache    CacheConfig  `mapstructure:"cache" json:"cache" yaml:"cache"`
	Batch    BatchConfig  `mapstructure:"batch" json:"batch" yaml:"batch"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" json:"level" yaml:"level"`
	Format string `mapstructure:"format" json:"format" yaml:"format"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr" json:"addr" yaml:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" json:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" json:"shutdown_timeout" yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" json:"max_body_bytes" yaml:"max_body_bytes"`

	// RateLimit is requests per second across all clients; 0 disables limiting.
	RateLimit        float64 `mapstructure:"rate_limit" json:"rate_limit" yaml:"rate_limit"`
	RateBurst        int     `mapstructure:"rate_burst" json:"rate_burst" yaml:"rate_burst"`
	ValidateRequests bool    `mapstructure:"validate_requests" json:"validate_requests" yaml:"validate_requests"`
	Metrics          bool    `mapstructure:"metrics" json:"metrics" yaml:"metrics"`
}

// CacheConfig selects the tree cache backend: none, memory, file, redis or sqlite.
type CacheConfig struct {
	Backend       string        `mapstructure:"backend" json:"backend" yaml:"backend"`
	Path          string        `mapstructure:"path" json:"path" yaml:"path"`
	RedisAddr     string        `mapstructure:"redis_addr" json:"redis_addr" yaml:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password" json:"redis_password" yaml:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db" json:"redis_db" yaml:"redis_db"`
	Prefix        string        `mapstructure:"prefix" json:"prefix" yaml:"prefix"`
	TTL           time.Duration `mapstructure:"ttl" json:"ttl" yaml:"ttl"`
}

type BatchConfig struct {
	Workers   int  `mapstructure:"workers" json:"workers" yaml:"workers"`
	KeepGoing bool `mapstructure:"keep_going" json:"keep_going" yaml:"keep_going"`
}

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheFile   = "file"
	CacheRedis  = "redis"
	CacheSQLite = "sqlite"
)

// Environment variables read by ApplyEnv.
const (
	EnvBaseDir   = "CNFTREE_BASE_DIR"
	EnvTPTP      = "TPTP"
	EnvLogLevel  = "CNFTREE_LOG_LEVEL"
	EnvRedisAddr = "CNFTREE_REDIS_ADDR"
	EnvAddr      = "CNFTREE_ADDR"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseDir: ".",
		Format:  "proto",
		Log:     LogConfig{Level: "info", Format: "text"},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			MaxBodyBytes:    4 << 20,
			Metrics:         true,
		},
		Cache: CacheConfig{Backend: CacheNone, Prefix: "cnftree:"},
		Batch: BatchConfig{Workers: 4},
	}
}

// Load reads the configuration at path over the defaults, then applies the
// environment. An empty path yields the defaults plus environment. A missing
// file is an error: callers only pass paths the user asked for.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s not found", path)
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	raw := map[string]any{}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	return Decode(raw, c)
}

// Decode merges a generic map (as produced by YAML/JSON decoding) into cfg.
// Durations may be written as strings ("5s") or nanoseconds. Unknown keys are errors.
func Decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from the environment.
// CNFTREE_BASE_DIR wins over TPTP for the base directory.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvBaseDir); v != "" {
		c.BaseDir = v
	} else if v := getenv(EnvTPTP); v != "" {
		c.BaseDir = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
		if c.Cache.Backend == CacheNone || c.Cache.Backend == "" {
			c.Cache.Backend = CacheRedis
		}
	}
	if v := getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks enumerations and ranges.
func (c Config) Validate() error {
	var errs []error
	switch c.Cache.Backend {
	case "", CacheNone, CacheMemory, CacheFile, CacheRedis, CacheSQLite:
	default:
		errs = append(errs, fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend))
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisAddr == "" {
		errs = append(errs, errors.New("cache.redis_addr is required for the redis backend"))
	}
	if c.Batch.Workers < 0 {
		errs = append(errs, errors.New("batch.workers must not be negative"))
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		errs = append(errs, errors.New("server.rate_limit and server.rate_burst must not be negative"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// String renders the effective configuration as YAML, hiding secrets.
func (c Config) String() string {
	if c.Cache.RedisPassword != "" {
		c.Cache.RedisPassword = strings.Repeat("*", 8)
	}
	out, err := yaml.Marshal(c)
	if err != nil {
		return "config: " + strconv.Quote(err.Error())
	}
	return string(out)
}
