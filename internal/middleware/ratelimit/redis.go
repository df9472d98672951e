package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gravadigital/orbitview-api/internal/logger"
)

const fixedWindowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisLimiter shares the window across API instances
type RedisLimiter struct {
	client  *redis.Client
	script  *redis.Script
	timeout time.Duration
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{
		client:  client,
		script:  redis.NewScript(fixedWindowScript),
		timeout: 250 * time.Millisecond,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	allowed, err := l.script.Run(ctx, l.client, []string{key}, ttl, limit).Int64()
	if err != nil {
		return false, fmt.Errorf("failed to run rate limit script: %w", err)
	}
	return allowed == 1, nil
}

// New returns a Redis limiter when addr is set and reachable, the in-memory
// limiter otherwise.
func New(ctx context.Context, addr, password string, db int) (Limiter, func() error) {
	if addr == "" {
		return NewMemoryLimiter(), func() error { return nil }
	}

	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.HTTP().Warn("Redis unreachable, rate limiting in memory", "addr", addr, "error", err)
		_ = client.Close()
		return NewMemoryLimiter(), func() error { return nil }
	}
	logger.HTTP().Info("Rate limiting with Redis", "addr", addr)
	return NewRedisLimiter(client), client.Close
}
