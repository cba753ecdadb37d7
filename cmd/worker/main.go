// Package main provides the entry point for the momentum worker service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm/logger"

	"github.com/thebtf/momentum/internal/auth"
	"github.com/thebtf/momentum/internal/benchmark"
	"github.com/thebtf/momentum/internal/config"
	"github.com/thebtf/momentum/internal/db"
	"github.com/thebtf/momentum/internal/db/gorm"
	"github.com/thebtf/momentum/internal/db/memory"
	"github.com/thebtf/momentum/internal/db/rediscache"
	"github.com/thebtf/momentum/internal/progress"
	"github.com/thebtf/momentum/internal/worker"
)

var Version = "dev"

// memoryDSN selects the in-process store. Data is lost on exit.
const memoryDSN = "memory"

// backingStore is what the worker needs from its primary store.
type backingStore interface {
	db.ProgressStore
	db.BenchmarkWriter
	db.Pinger
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := config.EnsureAll(); err != nil {
		log.Warn().Err(err).Msg("Could not create data directory")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("version", Version).
		Msg("Starting momentum worker")

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid time zone")
	}

	var verifierOpts []auth.Option
	if cfg.JWTIssuer != "" {
		verifierOpts = append(verifierOpts, auth.WithIssuer(cfg.JWTIssuer))
	}
	verifier, err := auth.NewVerifier(cfg.JWTSecret, verifierOpts...)
	if err != nil {
		log.Fatal().Err(err).Msgf("Set %s to the session signing secret", config.KeyJWTSecret)
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer closeStore()

	checks := map[string]db.Pinger{"database": store}

	var benchmarks db.BenchmarkStore = store
	if cfg.RedisAddr != "" {
		cache := rediscache.New(rediscache.NewPool(cfg.RedisAddr), store, cfg.CohortCacheTTL)
		defer func() { _ = cache.Close() }()
		benchmarks = cache
		checks["redis"] = cache
		log.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.CohortCacheTTL).Msg("Cohort cache enabled")
	}

	if cfg.CohortSeedPath != "" {
		if err := seedCohorts(cfg.CohortSeedPath, benchmarks); err != nil {
			log.Fatal().Err(err).Str("path", cfg.CohortSeedPath).Msg("Failed to seed benchmark cohorts")
		}
	}

	svc, err := worker.NewService(Version, cfg, worker.Dependencies{
		Progress: progress.NewService(store, benchmarks, progress.Config{Location: loc}),
		Verifier: verifier,
		Checks:   checks,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create service")
	}

	if err := svc.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start service")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := svc.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Shutdown error")
	}

	log.Info().Msg("Worker shutdown complete")
}

func openStore(cfg *config.Config) (backingStore, func(), error) {
	if cfg.DatabaseDSN == memoryDSN {
		log.Warn().Msg("Using in-memory store; data will not persist")
		return memory.NewStore(), func() {}, nil
	}

	gormLevel := logger.Warn
	if cfg.LogLevel == "debug" || cfg.LogLevel == "trace" {
		gormLevel = logger.Info
	}

	store, err := gorm.NewStore(gorm.Config{
		DSN:      cfg.DatabaseDSN,
		MaxConns: cfg.MaxConns,
		LogLevel: gormLevel,
	})
	if err != nil {
		return nil, nil, err
	}

	health := store.HealthCheck(context.Background())
	log.Info().
		Str("dialect", store.Dialect()).
		Str("status", health.Status).
		Dur("latency", health.QueryLatency).
		Int("open_conns", store.Stats().OpenConnections).
		Msg("Database ready")
	return store, func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Database close error")
		}
	}, nil
}

func seedCohorts(path string, dst db.BenchmarkWriter) error {
	cohorts, err := benchmark.LoadCohorts(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for i := range cohorts {
		if err := dst.UpsertBenchmarkCohort(ctx, &cohorts[i]); err != nil {
			return err
		}
	}
	log.Info().Int("cohorts", len(cohorts)).Msg("Seeded benchmark cohorts")
	return nil
}
