package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvBaseDir, EnvTPTP, EnvLogLevel, EnvRedisAddr, EnvAddr} {
		t.Setenv(k, "")
	}
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "cnftree.yaml", `
base_dir: /data/TPTP-v8.1.2
format: json
server:
  addr: ":9090"
  shutdown_timeout: 2s
  rate_limit: 50
cache:
  backend: sqlite
  path: /tmp/trees.db
  ttl: 1h
batch:
  workers: 8
  keep_going: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/TPTP-v8.1.2", cfg.BaseDir)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 2*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 50.0, cfg.Server.RateLimit)
	assert.Equal(t, CacheSQLite, cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 8, cfg.Batch.Workers)
	assert.True(t, cfg.Batch.KeepGoing)

	// Untouched defaults survive.
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_JSON(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "cnftree.json", `{"log": {"level": "debug", "format": "json"}, "compress": true}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Compress)
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown key":     "bogus: 1\n",
		"bad duration":    "server:\n  read_timeout: soon\n",
		"bad backend":     "cache:\n  backend: mongo\n",
		"redis no addr":   "cache:\n  backend: redis\n",
		"negative worker": "batch:\n  workers: -1\n",
		"malformed yaml":  "server: [\n",
	}
	clearEnv(t)
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "c.yaml", content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "not found")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvTPTP:      "/opt/TPTP",
		EnvLogLevel:  "warn",
		EnvRedisAddr: "localhost:6379",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "/opt/TPTP", cfg.BaseDir)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)

	env[EnvBaseDir] = "/srv/tptp"
	cfg.ApplyEnv(func(k string) string { return env[k] })
	assert.Equal(t, "/srv/tptp", cfg.BaseDir, "CNFTREE_BASE_DIR wins over TPTP")
}

func TestString_HidesPassword(t *testing.T) {
	cfg := Default()
	cfg.Cache.RedisPassword = "hunter2"
	out := cfg.String()
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, "********")
}
