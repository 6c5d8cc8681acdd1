package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DefaultRateLimitConfig returns default rate limiting settings.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 50,
		BurstSize:         100,
	}
}

// limiterStore holds one rate.Limiter per client key. Entries that have
// been idle longer than staleAfter are evicted on the next sweep so the
// map does not grow without bound.
type limiterStore struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	config   RateLimitConfig
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const (
	staleAfter    = 10 * time.Minute
	sweepInterval = 1000 // sweep every N lookups
)

func newLimiterStore(cfg RateLimitConfig) *limiterStore {
	return &limiterStore{
		limiters: make(map[string]*clientLimiter),
		config:   cfg,
	}
}

func (s *limiterStore) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	cl, ok := s.limiters[key]
	if !ok {
		cl = &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(s.config.RequestsPerSecond), s.config.BurstSize),
		}
		s.limiters[key] = cl

		if len(s.limiters)%sweepInterval == 0 {
			s.sweepLocked()
		}
	}
	cl.lastSeen = time.Now()
	return cl.limiter
}

func (s *limiterStore) sweepLocked() {
	cutoff := time.Now().Add(-staleAfter)
	for k, cl := range s.limiters {
		if cl.lastSeen.Before(cutoff) {
			delete(s.limiters, k)
		}
	}
}

// RateLimit returns a per-client-IP rate limiting middleware backed by
// golang.org/x/time/rate token buckets.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	store := newLimiterStore(cfg)
	limitHeader := strconv.FormatFloat(cfg.RequestsPerSecond, 'f', 0, 64)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			limiter := store.get(c.RealIP())

			if !limiter.Allow() {
				c.Response().Header().Set("Retry-After", "1")
				c.Response().Header().Set("X-RateLimit-Limit", limitHeader)
				c.Response().Header().Set("X-RateLimit-Remaining", "0")
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}

			c.Response().Header().Set("X-RateLimit-Limit", limitHeader)
			return next(c)
		}
	}
}
