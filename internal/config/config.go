// Package config provides configuration management for the momentum worker.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const (
	// DefaultWorkerPort is the default HTTP port for the worker service.
	DefaultWorkerPort = 38080

	// DefaultMaxConns is the default database connection pool size.
	DefaultMaxConns = 4

	// DefaultCohortCacheTTL is the default lifetime of cached cohort lookups.
	DefaultCohortCacheTTL = 15 * time.Minute

	// DefaultMaxBodyBytes limits request bodies.
	DefaultMaxBodyBytes = 64 * 1024

	// DefaultLogLevel is the default zerolog level.
	DefaultLogLevel = "info"
)

// Settings file and environment keys.
const (
	KeyWorkerPort     = "MOMENTUM_WORKER_PORT"
	KeyDatabaseDSN    = "MOMENTUM_DATABASE_DSN"
	KeyMaxConns       = "MOMENTUM_MAX_CONNS"
	KeyJWTSecret      = "MOMENTUM_JWT_SECRET"
	KeyJWTIssuer      = "MOMENTUM_JWT_ISSUER"
	KeyTimeZone       = "MOMENTUM_TIMEZONE"
	KeyRedisAddr      = "MOMENTUM_REDIS_ADDR"
	KeyCohortCacheTTL = "MOMENTUM_COHORT_CACHE_TTL"
	KeyCohortSeedPath = "MOMENTUM_COHORT_SEED_PATH"
	KeyLogLevel       = "MOMENTUM_LOG_LEVEL"
	KeyMaxBodyBytes   = "MOMENTUM_MAX_BODY_BYTES"
	KeyAllowedOrigins = "MOMENTUM_ALLOWED_ORIGINS"
)

// Config holds the application configuration.
type Config struct {
	// Worker settings
	WorkerPort     int      `json:"worker_port"`
	MaxBodyBytes   int64    `json:"max_body_bytes"`
	AllowedOrigins []string `json:"allowed_origins"` // CORS, exact match

	// Database settings
	DatabaseDSN string `json:"database_dsn"` // postgres:// URL, SQLite file path, or "memory"
	MaxConns    int    `json:"max_conns"`

	// Auth settings
	JWTSecret string `json:"-"`
	JWTIssuer string `json:"jwt_issuer"`

	// Week boundaries are computed in this IANA zone.
	TimeZone string `json:"timezone"`

	// Cohort settings
	RedisAddr      string        `json:"redis_addr"` // empty disables the cohort cache
	CohortCacheTTL time.Duration `json:"cohort_cache_ttl"`
	CohortSeedPath string        `json:"cohort_seed_path"`

	LogLevel string `json:"log_level"`
}

// DataDir returns the data directory path (~/.career-momentum).
func DataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".career-momentum")
}

// DBPath returns the default SQLite database path.
func DBPath() string {
	return filepath.Join(DataDir(), "momentum.db")
}

// SettingsPath returns the settings file path.
func SettingsPath() string {
	return filepath.Join(DataDir(), "settings.json")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0750)
}

// EnsureSettings creates a default settings file if it doesn't exist.
func EnsureSettings() error {
	path := SettingsPath()

	if _, err := os.Stat(path); err == nil {
		return nil
	}

	defaultSettings := `{
  "MOMENTUM_WORKER_PORT": 38080,
  "MOMENTUM_TIMEZONE": "UTC",
  "MOMENTUM_LOG_LEVEL": "info"
}
`
	return os.WriteFile(path, []byte(defaultSettings), 0600)
}

// EnsureAll ensures all required directories and files exist.
func EnsureAll() error {
	if err := EnsureDataDir(); err != nil {
		return err
	}
	if err := EnsureSettings(); err != nil {
		return err
	}
	return nil
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		WorkerPort:     DefaultWorkerPort,
		MaxBodyBytes:   DefaultMaxBodyBytes,
		DatabaseDSN:    DBPath(),
		MaxConns:       DefaultMaxConns,
		TimeZone:       "UTC",
		CohortCacheTTL: DefaultCohortCacheTTL,
		LogLevel:       DefaultLogLevel,
	}
}

// Load loads configuration from the settings file, merging with defaults.
// Environment variables override file values.
func Load() (*Config, error) {
	return LoadFrom(SettingsPath())
}

// LoadFrom loads configuration from the settings file at path.
// A missing file yields defaults plus environment overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var settings map[string]interface{}
		if err := json.Unmarshal(data, &settings); err != nil {
			return nil, fmt.Errorf("parse settings %s: %w", path, err)
		}
		if err := cfg.applySettings(settings); err != nil {
			return nil, fmt.Errorf("settings %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applySettings(settings map[string]interface{}) error {
	if v, ok := settings[KeyWorkerPort].(float64); ok {
		c.WorkerPort = int(v)
	}
	if v, ok := settings[KeyDatabaseDSN].(string); ok && v != "" {
		c.DatabaseDSN = v
	}
	if v, ok := settings[KeyMaxConns].(float64); ok && v > 0 {
		c.MaxConns = int(v)
	}
	if v, ok := settings[KeyJWTSecret].(string); ok {
		c.JWTSecret = v
	}
	if v, ok := settings[KeyJWTIssuer].(string); ok {
		c.JWTIssuer = v
	}
	if v, ok := settings[KeyTimeZone].(string); ok && v != "" {
		c.TimeZone = v
	}
	if v, ok := settings[KeyRedisAddr].(string); ok {
		c.RedisAddr = v
	}
	if v, ok := settings[KeyCohortCacheTTL]; ok {
		ttl, err := parseTTL(v)
		if err != nil {
			return err
		}
		c.CohortCacheTTL = ttl
	}
	if v, ok := settings[KeyCohortSeedPath].(string); ok {
		c.CohortSeedPath = v
	}
	if v, ok := settings[KeyLogLevel].(string); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := settings[KeyMaxBodyBytes].(float64); ok && v > 0 {
		c.MaxBodyBytes = int64(v)
	}
	if v, ok := settings[KeyAllowedOrigins].(string); ok {
		c.AllowedOrigins = splitTrim(v)
	}
	return nil
}

// parseTTL accepts seconds as a number or a Go duration string.
func parseTTL(v interface{}) (time.Duration, error) {
	switch t := v.(type) {
	case float64:
		return time.Duration(t) * time.Second, nil
	case string:
		if secs, err := strconv.Atoi(t); err == nil {
			return time.Duration(secs) * time.Second, nil
		}
		d, err := time.ParseDuration(t)
		if err != nil {
			return 0, fmt.Errorf("%s: invalid duration %q", KeyCohortCacheTTL, t)
		}
		return d, nil
	default:
		return 0, fmt.Errorf("%s: unsupported type %T", KeyCohortCacheTTL, v)
	}
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(KeyWorkerPort); ok {
		p, err := strconv.Atoi(v)
		if err != nil || p <= 0 {
			return fmt.Errorf("%s: invalid port %q", KeyWorkerPort, v)
		}
		c.WorkerPort = p
	}
	if v, ok := os.LookupEnv(KeyDatabaseDSN); ok && v != "" {
		c.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv(KeyMaxConns); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s: invalid value %q", KeyMaxConns, v)
		}
		c.MaxConns = n
	}
	if v, ok := os.LookupEnv(KeyJWTSecret); ok {
		c.JWTSecret = v
	}
	if v, ok := os.LookupEnv(KeyJWTIssuer); ok {
		c.JWTIssuer = v
	}
	if v, ok := os.LookupEnv(KeyTimeZone); ok && v != "" {
		c.TimeZone = v
	}
	if v, ok := os.LookupEnv(KeyRedisAddr); ok {
		c.RedisAddr = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv(KeyCohortCacheTTL); ok {
		ttl, err := parseTTL(v)
		if err != nil {
			return err
		}
		c.CohortCacheTTL = ttl
	}
	if v, ok := os.LookupEnv(KeyCohortSeedPath); ok {
		c.CohortSeedPath = v
	}
	if v, ok := os.LookupEnv(KeyLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv(KeyMaxBodyBytes); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s: invalid value %q", KeyMaxBodyBytes, v)
		}
		c.MaxBodyBytes = n
	}
	if v, ok := os.LookupEnv(KeyAllowedOrigins); ok {
		c.AllowedOrigins = splitTrim(v)
	}
	return nil
}

// splitTrim splits a comma-separated string and trims whitespace.
func splitTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.WorkerPort <= 0 || c.WorkerPort > 65535 {
		return fmt.Errorf("worker port %d out of range", c.WorkerPort)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}
