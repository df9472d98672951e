package ratelimit

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/orbitview-api/internal/logger"
	"github.com/gravadigital/orbitview-api/internal/middleware/auth"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.InitializeWithWriter(io.Discard, "error")
	os.Exit(m.Run())
}

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	l := NewMemoryLimiter()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "k", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i+1)
	}
	ok, _ := l.Allow(ctx, "k", 3, time.Minute)
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "other", 3, time.Minute)
	assert.True(t, ok, "keys are independent")

	now = now.Add(time.Minute)
	ok, _ = l.Allow(ctx, "k", 3, time.Minute)
	assert.True(t, ok, "a new window starts")
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string, int, time.Duration) (bool, error) {
	return false, errors.New("redis down")
}

func newRouter(limiter Limiter, user uuid.UUID) *gin.Engine {
	r := gin.New()
	r.POST("/reactions", func(c *gin.Context) {
		if user != uuid.Nil {
			auth.SetUser(c, user)
		}
		c.Next()
	}, Middleware(limiter, "reactions", 2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func post(r http.Handler) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reactions", nil))
	return w
}

func TestMiddleware_LimitsPerUser(t *testing.T) {
	limiter := NewMemoryLimiter()
	ada := newRouter(limiter, uuid.New())
	bob := newRouter(limiter, uuid.New())

	assert.Equal(t, http.StatusOK, post(ada).Code)
	assert.Equal(t, http.StatusOK, post(ada).Code)

	w := post(ada)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), `"kind":"rate_limited"`)

	assert.Equal(t, http.StatusOK, post(bob).Code)
}

func TestMiddleware_FailsOpen(t *testing.T) {
	r := newRouter(failingLimiter{}, uuid.New())
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, post(r).Code)
	}
}

func TestRedisLimiter_ReportsUnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	_, err := NewRedisLimiter(client).Allow(context.Background(), "k", 1, time.Second)
	assert.Error(t, err)
}

func TestNew_FallsBackToMemory(t *testing.T) {
	l, closeFn := New(context.Background(), "", "", 0)
	defer closeFn()
	assert.IsType(t, &MemoryLimiter{}, l)

	l, closeFn = New(context.Background(), "127.0.0.1:1", "", 0)
	defer closeFn()
	assert.IsType(t, &MemoryLimiter{}, l)
}
