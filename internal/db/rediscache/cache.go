// Package rediscache is a read-through Redis cache in front of benchmark cohort lookups.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gomodule/redigo/redis"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/momentum/internal/db"
	"github.com/thebtf/momentum/pkg/models"
)

// DefaultTTL is used when a non-positive TTL is configured.
const DefaultTTL = 15 * time.Minute

// keyPrefix namespaces cohort keys.
const keyPrefix = "momentum:cohort:"

// absentMarker caches a lookup that found no cohort.
const absentMarker = "null"

// NewPool creates a redigo connection pool for addr (host:port).
func NewPool(addr string) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     8,
		MaxActive:   32,
		IdleTimeout: 4 * time.Minute,
		Wait:        true,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialContext(ctx, "tcp", addr,
				redis.DialConnectTimeout(2*time.Second),
				redis.DialReadTimeout(time.Second),
				redis.DialWriteTimeout(time.Second),
			)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
}

// CohortCache wraps a benchmark store with a Redis read-through cache.
// Redis failures degrade to the wrapped store and are never returned.
type CohortCache struct {
	pool *redis.Pool
	next db.BenchmarkStore
	ttl  time.Duration
}

var _ db.BenchmarkStore = (*CohortCache)(nil)

// New creates a cohort cache over next.
func New(pool *redis.Pool, next db.BenchmarkStore, ttl time.Duration) *CohortCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CohortCache{pool: pool, next: next, ttl: ttl}
}

// CohortKey returns the Redis key for a cohort.
func CohortKey(careerStage, targetRole string) string {
	return keyPrefix + careerStage + ":" + targetRole
}

// GetBenchmarkCohort serves the cohort from Redis, falling back to the store
// on a miss. Absent cohorts are cached too.
func (c *CohortCache) GetBenchmarkCohort(ctx context.Context, careerStage, targetRole string) (*models.BenchmarkCohort, error) {
	key := CohortKey(careerStage, targetRole)

	conn, err := c.pool.GetContext(ctx)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cohort cache unavailable")
		return c.next.GetBenchmarkCohort(ctx, careerStage, targetRole)
	}
	defer conn.Close()

	cached, hit, err := c.lookup(conn, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cohort cache read failed")
		return c.next.GetBenchmarkCohort(ctx, careerStage, targetRole)
	}
	if hit {
		return cached, nil
	}

	cohort, err := c.next.GetBenchmarkCohort(ctx, careerStage, targetRole)
	if err != nil {
		return nil, err
	}

	if err := c.store(conn, key, cohort); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cohort cache write failed")
	}
	return cohort, nil
}

// UpsertBenchmarkCohort writes through to the store and drops the cached entry.
func (c *CohortCache) UpsertBenchmarkCohort(ctx context.Context, cohort *models.BenchmarkCohort) error {
	if err := c.next.UpsertBenchmarkCohort(ctx, cohort); err != nil {
		return err
	}
	if err := c.Invalidate(ctx, cohort.CareerStage, cohort.TargetRole); err != nil {
		log.Warn().Err(err).Str("career_stage", cohort.CareerStage).Str("target_role", cohort.TargetRole).Msg("Cohort cache invalidation failed")
	}
	return nil
}

// Invalidate removes a cached cohort.
func (c *CohortCache) Invalidate(ctx context.Context, careerStage, targetRole string) error {
	conn, err := c.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("get redis conn: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Do("DEL", CohortKey(careerStage, targetRole)); err != nil {
		return fmt.Errorf("del cohort: %w", err)
	}
	return nil
}

// Ping verifies Redis is reachable.
func (c *CohortCache) Ping(ctx context.Context) error {
	conn, err := c.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = conn.Do("PING")
	return err
}

// Close releases the pool.
func (c *CohortCache) Close() error {
	return c.pool.Close()
}

func (c *CohortCache) lookup(conn redis.Conn, key string) (*models.BenchmarkCohort, bool, error) {
	data, err := redis.Bytes(conn.Do("GET", key))
	if errors.Is(err, redis.ErrNil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if string(data) == absentMarker {
		return nil, true, nil
	}

	var cohort models.BenchmarkCohort
	if err := json.Unmarshal(data, &cohort); err != nil {
		return nil, false, fmt.Errorf("decode cohort: %w", err)
	}
	return &cohort, true, nil
}

func (c *CohortCache) store(conn redis.Conn, key string, cohort *models.BenchmarkCohort) error {
	payload := []byte(absentMarker)
	if cohort != nil {
		var err error
		payload, err = json.Marshal(cohort)
		if err != nil {
			return fmt.Errorf("encode cohort: %w", err)
		}
	}
	_, err := conn.Do("SET", key, payload, "EX", int(c.ttl/time.Second))
	return err
}
