package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultWorkerPort, cfg.WorkerPort)
	assert.Equal(t, DefaultMaxConns, cfg.MaxConns)
	assert.Equal(t, DefaultCohortCacheTTL, cfg.CohortCacheTTL)
	assert.Equal(t, int64(DefaultMaxBodyBytes), cfg.MaxBodyBytes)
	assert.Equal(t, "UTC", cfg.TimeZone)
	assert.Equal(t, DBPath(), cfg.DatabaseDSN)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultWorkerPort, cfg.WorkerPort)
}

func TestLoadFrom_Settings(t *testing.T) {
	path := writeSettings(t, `{
  "MOMENTUM_WORKER_PORT": 9000,
  "MOMENTUM_DATABASE_DSN": "postgres://u:p@localhost:5432/momentum",
  "MOMENTUM_MAX_CONNS": 12,
  "MOMENTUM_JWT_SECRET": "s3cret",
  "MOMENTUM_TIMEZONE": "UTC",
  "MOMENTUM_REDIS_ADDR": "localhost:6379",
  "MOMENTUM_COHORT_CACHE_TTL": 60,
  "MOMENTUM_COHORT_SEED_PATH": "/etc/momentum/cohorts.yaml",
  "MOMENTUM_LOG_LEVEL": "debug",
  "MOMENTUM_MAX_BODY_BYTES": 1024,
  "MOMENTUM_ALLOWED_ORIGINS": "https://app.example.com, ,http://localhost:5173",
  "UNRELATED_KEY": true
}`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.WorkerPort)
	assert.Equal(t, "postgres://u:p@localhost:5432/momentum", cfg.DatabaseDSN)
	assert.Equal(t, 12, cfg.MaxConns)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, time.Minute, cfg.CohortCacheTTL)
	assert.Equal(t, "/etc/momentum/cohorts.yaml", cfg.CohortSeedPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, int64(1024), cfg.MaxBodyBytes)
	assert.Equal(t, []string{"https://app.example.com", "http://localhost:5173"}, cfg.AllowedOrigins)
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	path := writeSettings(t, `{"MOMENTUM_WORKER_PORT": 9000, "MOMENTUM_LOG_LEVEL": "warn"}`)
	t.Setenv(KeyWorkerPort, "9100")
	t.Setenv(KeyCohortCacheTTL, "2m")
	t.Setenv(KeyJWTSecret, "from-env")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.WorkerPort)
	assert.Equal(t, 2*time.Minute, cfg.CohortCacheTTL)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadFrom_Errors(t *testing.T) {
	tests := []struct {
		name     string
		settings string
		env      map[string]string
	}{
		{name: "malformed json", settings: `{"MOMENTUM_WORKER_PORT": `},
		{name: "bad ttl", settings: `{"MOMENTUM_COHORT_CACHE_TTL": "soon"}`},
		{name: "unknown zone", settings: `{"MOMENTUM_TIMEZONE": "Mars/Olympus_Mons"}`},
		{name: "port out of range", settings: `{"MOMENTUM_WORKER_PORT": 70000}`},
		{name: "bad env port", settings: `{}`, env: map[string]string{KeyWorkerPort: "http"}},
		{name: "bad env body size", settings: `{}`, env: map[string]string{KeyMaxBodyBytes: "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadFrom(writeSettings(t, tt.settings))
			assert.Error(t, err)
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := Default()
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	cfg.TimeZone = ""
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestEnsureAll(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	require.NoError(t, EnsureAll())
	_, err := os.Stat(SettingsPath())
	require.NoError(t, err)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultWorkerPort, cfg.WorkerPort)

	// Existing settings are left alone.
	require.NoError(t, os.WriteFile(SettingsPath(), []byte(`{"MOMENTUM_WORKER_PORT": 9001}`), 0600))
	require.NoError(t, EnsureAll())
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 9001, cfg.WorkerPort)
}
