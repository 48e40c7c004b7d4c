package http

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	defaultLimiterCleanupInterval = 5 * time.Minute
	defaultLimiterIdleTTL         = time.Hour
)

type RateLimitConfig struct {
	RPS   float64
	Burst int
	// CleanupInterval and IdleTTL bound how long idle client limiters are kept.
	CleanupInterval time.Duration
	IdleTTL         time.Duration
}

func (c RateLimitConfig) Enabled() bool {
	return c.RPS > 0 && c.Burst > 0
}

type limiterStore struct {
	limiters sync.Map // client ip -> *limiterEntry
	rps      float64
	burst    int
	now      func() time.Time
}

type limiterEntry struct {
	limiter    *rate.Limiter
	mu         sync.Mutex
	lastAccess time.Time
}

func newLimiterStore(rps float64, burst int) *limiterStore {
	return &limiterStore{rps: rps, burst: burst, now: time.Now}
}

func (s *limiterStore) get(key string) *rate.Limiter {
	now := s.now()
	if val, ok := s.limiters.Load(key); ok {
		entry := val.(*limiterEntry)
		entry.mu.Lock()
		entry.lastAccess = now
		entry.mu.Unlock()
		return entry.limiter
	}

	entry := &limiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(s.rps), s.burst),
		lastAccess: now,
	}
	actual, _ := s.limiters.LoadOrStore(key, entry)
	return actual.(*limiterEntry).limiter
}

// sweep drops limiters idle for longer than ttl and returns how many it removed.
func (s *limiterStore) sweep(ttl time.Duration) int {
	threshold := s.now().Add(-ttl)
	removed := 0
	s.limiters.Range(func(key, value any) bool {
		entry := value.(*limiterEntry)
		entry.mu.Lock()
		stale := entry.lastAccess.Before(threshold)
		entry.mu.Unlock()
		if stale {
			s.limiters.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

func (s *limiterStore) runCleanup(ctx context.Context, interval time.Duration, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ttl)
		}
	}
}

// rateLimitMiddleware limits requests per client IP. The cleanup goroutine
// stops when ctx is done.
func rateLimitMiddleware(ctx context.Context, cfg RateLimitConfig, logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = defaultLimiterCleanupInterval
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = defaultLimiterIdleTTL
	}

	store := newLimiterStore(cfg.RPS, cfg.Burst)
	go store.runCleanup(ctx, cfg.CleanupInterval, cfg.IdleTTL)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		limiter := store.get(clientIP)
		if limiter.Allow() {
			c.Next()
			return
		}

		reservation := limiter.Reserve()
		retryAfter := int(math.Ceil(reservation.Delay().Seconds()))
		reservation.Cancel()
		if retryAfter < 1 {
			retryAfter = 1
		}

		logger.DebugContext(c.Request.Context(), "rate limit exceeded",
			"client_ip", clientIP,
			"route", c.FullPath(),
			"retry_after", retryAfter,
		)
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		writeProblemResponse(c, http.StatusTooManyRequests, problemTypeTooManyRequests, "Too Many Requests", "too many requests, retry later")
	}
}
