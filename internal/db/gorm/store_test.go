package gorm

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

// testStore creates a Store backed by a temporary SQLite database.
func testStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "gorm_momentum_test_*")
	if err != nil {
		t.Fatalf("create temp dir: %v", err)
	}

	cfg := Config{
		DSN:      filepath.Join(tmpDir, "test.db"),
		MaxConns: 4,
		LogLevel: logger.Silent,
	}

	store, err := NewStore(cfg)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("NewStore failed: %v", err)
	}

	cleanup := func() {
		store.Close()
		os.RemoveAll(tmpDir)
	}

	return store, cleanup
}

func TestNewStore_SQLite(t *testing.T) {
	store, cleanup := testStore(t)
	defer cleanup()

	assert.Equal(t, "sqlite", store.Dialect())
	require.NoError(t, store.Ping(context.Background()))

	for _, table := range []string{"weekly_progress", "career_milestones", "user_activities", "benchmark_cohorts", "job_interactions"} {
		assert.True(t, store.DB.Migrator().HasTable(table), table)
	}
}

func TestNewStore_EmptyDSN(t *testing.T) {
	_, err := NewStore(Config{})
	assert.Error(t, err)
}

func TestNewStore_MigrationsIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := Config{DSN: filepath.Join(tmpDir, "test.db"), LogLevel: logger.Silent}

	first, err := NewStore(cfg)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewStore(cfg)
	require.NoError(t, err)
	defer second.Close()
}

func TestIsPostgresDSN(t *testing.T) {
	assert.True(t, IsPostgresDSN("postgres://u:p@localhost/momentum"))
	assert.True(t, IsPostgresDSN("postgresql://localhost/momentum"))
	assert.False(t, IsPostgresDSN("/var/lib/momentum/momentum.db"))
	assert.False(t, IsPostgresDSN("file:test.db?cache=shared"))
}

func TestStore_HealthCheck(t *testing.T) {
	store, cleanup := testStore(t)
	defer cleanup()

	info := store.HealthCheck(context.Background())
	require.NotNil(t, info)
	assert.NotEqual(t, "unhealthy", info.Status)
	assert.Empty(t, info.Error)

	// Served from cache within the TTL.
	assert.Same(t, info, store.HealthCheck(context.Background()))
}
