package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gestium/backend/internal/interfaces/http/dto"
)

// RateLimiter is an in-memory fixed-window limiter. Each key gets its own
// window; state for idle keys is dropped by a background sweep.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*window
	limit   int
	period  time.Duration
}

type window struct {
	used    int
	openedAt time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per period
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*window),
		limit:   limit,
		period:  period,
	}
	go rl.sweep()
	return rl
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(rl.period * 2)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-2 * rl.period)
		rl.mu.Lock()
		for key, w := range rl.buckets {
			if w.openedAt.Before(cutoff) {
				delete(rl.buckets, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Allow reports whether one more request from key fits in the current window
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, ok := rl.buckets[key]
	if !ok || now.Sub(w.openedAt) >= rl.period {
		rl.buckets[key] = &window{used: 1, openedAt: now}
		return true
	}
	if w.used < rl.limit {
		w.used++
		return true
	}
	return false
}

// Remaining returns how many requests key has left in the current window
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.buckets[key]
	if !ok || time.Since(w.openedAt) >= rl.period {
		return rl.limit
	}
	return rl.limit - w.used
}

// RateLimit returns a middleware keyed by organization plus client IP, so
// one noisy tenant cannot consume another tenant's budget from behind the
// same proxy
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if orgID := GetJWTOrganizationID(c); orgID != "" {
			key = orgID + ":" + key
		}

		if !limiter.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponse("RATE_LIMIT_EXCEEDED", "Too many requests. Please try again later."))
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))

		c.Next()
	}
}
