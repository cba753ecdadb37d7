package worker

import (
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/thebtf/momentum/internal/auth"
)

// Defaults for the per-caller limiter on /api/progress.
const (
	DefaultRateLimit = 10.0 // requests per second
	DefaultRateBurst = 30
)

// RateLimiter implements a token bucket rate limiter.
type RateLimiter struct {
	lastUpdate time.Time
	now        func() time.Time
	rate       float64
	burst      int
	tokens     float64
	requests   int64
	rejected   int64
	mu         sync.Mutex
}

// NewRateLimiter creates a new rate limiter.
// rate is the number of requests per second to allow.
// burst is the maximum burst of requests to allow.
func NewRateLimiter(rate float64, burst int) *RateLimiter {
	return newRateLimiter(rate, burst, time.Now)
}

func newRateLimiter(rate float64, burst int, now func() time.Time) *RateLimiter {
	return &RateLimiter{
		rate:       rate,
		burst:      burst,
		tokens:     float64(burst),
		now:        now,
		lastUpdate: now(),
	}
}

// Allow reports whether a request may proceed and consumes a token if so.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.requests++

	now := rl.now()
	elapsed := now.Sub(rl.lastUpdate).Seconds()
	rl.tokens += elapsed * rl.rate
	if rl.tokens > float64(rl.burst) {
		rl.tokens = float64(rl.burst)
	}
	rl.lastUpdate = now

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}

	rl.rejected++
	return false
}

// idleSince reports whether the limiter has seen no traffic since cutoff.
func (rl *RateLimiter) idleSince(cutoff time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.lastUpdate.Before(cutoff)
}

// PerClientRateLimiter keeps one token bucket per client key.
type PerClientRateLimiter struct {
	lastCleanup     time.Time
	now             func() time.Time
	clients         map[string]*RateLimiter
	rate            float64
	burst           int
	cleanupInterval time.Duration
	maxIdleTime     time.Duration
	mu              sync.Mutex
}

// NewPerClientRateLimiter creates a new per-client rate limiter.
func NewPerClientRateLimiter(rate float64, burst int) *PerClientRateLimiter {
	return newPerClientRateLimiter(rate, burst, time.Now)
}

func newPerClientRateLimiter(rate float64, burst int, now func() time.Time) *PerClientRateLimiter {
	return &PerClientRateLimiter{
		rate:            rate,
		burst:           burst,
		now:             now,
		clients:         make(map[string]*RateLimiter),
		cleanupInterval: 5 * time.Minute,
		maxIdleTime:     10 * time.Minute,
		lastCleanup:     now(),
	}
}

func (pcrl *PerClientRateLimiter) getLimiter(key string) *RateLimiter {
	pcrl.mu.Lock()
	defer pcrl.mu.Unlock()

	if pcrl.now().Sub(pcrl.lastCleanup) > pcrl.cleanupInterval {
		pcrl.cleanupLocked()
	}

	limiter, exists := pcrl.clients[key]
	if !exists {
		limiter = newRateLimiter(pcrl.rate, pcrl.burst, pcrl.now)
		pcrl.clients[key] = limiter
	}
	return limiter
}

// cleanupLocked removes idle limiters. Caller holds pcrl.mu.
func (pcrl *PerClientRateLimiter) cleanupLocked() {
	now := pcrl.now()
	cutoff := now.Add(-pcrl.maxIdleTime)
	for key, limiter := range pcrl.clients {
		if limiter.idleSince(cutoff) {
			delete(pcrl.clients, key)
		}
	}
	pcrl.lastCleanup = now
}

// Allow checks if a request from the given client should be allowed.
func (pcrl *PerClientRateLimiter) Allow(clientKey string) bool {
	return pcrl.getLimiter(clientKey).Allow()
}

// ActiveClients returns the number of tracked clients.
func (pcrl *PerClientRateLimiter) ActiveClients() int {
	pcrl.mu.Lock()
	defer pcrl.mu.Unlock()
	return len(pcrl.clients)
}

// clientKey prefers the authenticated user, then the client address set by RealIP.
func clientKey(r *http.Request) string {
	if id, ok := auth.FromContext(r.Context()); ok {
		return "user:" + id.UserID
	}
	return "addr:" + r.RemoteAddr
}

// PerClientRateLimitMiddleware applies per-client rate limiting.
// Mount it after Authenticate so limits apply per user.
func PerClientRateLimitMiddleware(limiter *PerClientRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			if !limiter.Allow(key) {
				zerolog.Ctx(r.Context()).Warn().Str("client", key).Msg("Rate limit exceeded")
				w.Header().Set("Retry-After", "1")
				writeError(w, r, http.StatusTooManyRequests, CodeRateLimited, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
