// Package ratelimit limits write endpoints per authenticated user with a
// fixed window, in Redis when configured and in memory otherwise.
package ratelimit

import (
	"context"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gravadigital/orbitview-api/internal/apperr"
	"github.com/gravadigital/orbitview-api/internal/logger"
	"github.com/gravadigital/orbitview-api/internal/middleware/auth"
	"github.com/gravadigital/orbitview-api/internal/response"
)

type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// MemoryLimiter is a per-process fixed window limiter
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	count     int
	windowEnd time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{buckets: make(map[string]*bucket), now: time.Now}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok || !now.Before(b.windowEnd) {
		l.buckets[key] = &bucket{count: 1, windowEnd: now.Add(window)}
		l.sweep(now)
		return true, nil
	}
	if b.count >= limit {
		return false, nil
	}
	b.count++
	return true, nil
}

// sweep drops expired buckets once the map grows
func (l *MemoryLimiter) sweep(now time.Time) {
	if len(l.buckets) < 1024 {
		return
	}
	for key, b := range l.buckets {
		if !now.Before(b.windowEnd) {
			delete(l.buckets, key)
		}
	}
}

// Middleware limits requests per user and scope. Limiter errors let the
// request through.
func Middleware(limiter Limiter, scope string, limit int, window time.Duration) gin.HandlerFunc {
	log := logger.HTTP()
	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 || window <= 0 {
			c.Next()
			return
		}

		key := "ratelimit:" + scope + ":"
		if id := auth.CurrentUser(c); id != uuid.Nil {
			key += id.String()
		} else {
			key += c.ClientIP()
		}

		allowed, err := limiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			log.Warn("Rate limiter unavailable", "scope", scope, "error", err)
			c.Next()
			return
		}
		if !allowed {
			log.Info("Rate limit exceeded", "scope", scope, "key", key)
			c.Header("Retry-After", retryAfter(window))
			response.AbortWithError(c, apperr.RateLimited("too many requests, try again later"))
			return
		}
		c.Next()
	}
}

// retryAfter is the window in whole seconds, rounded up
func retryAfter(window time.Duration) string {
	return strconv.Itoa(int(math.Ceil(window.Seconds())))
}
