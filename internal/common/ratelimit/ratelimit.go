package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiter decides whether one more request from key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter is a fixed-window counter shared by all instances of the service.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRedisLimiter allows limit requests per key in each window.
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window}
}

// Allow increments the key's counter for the current window.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	redisKey := "rate_limit:" + key
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}
	return count <= int64(l.limit), nil
}

// defaultIdleTTL is how long an unused bucket is kept before it is dropped.
const defaultIdleTTL = 10 * time.Minute

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter keeps a token bucket per key in process memory. Buckets idle
// for longer than the TTL are swept on later calls.
type MemoryLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	rps       rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryLimiter creates a limiter refilling rps tokens per second up to burst.
func NewMemoryLimiter(rps float64, burst int) *MemoryLimiter {
	if burst <= 0 {
		burst = 5
	}
	return &MemoryLimiter{
		buckets: make(map[string]*bucket),
		rps:     rate.Limit(rps),
		burst:   burst,
		idle:    defaultIdleTTL,
		now:     time.Now,
	}
}

// Allow takes one token from key's bucket.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.idle {
		l.sweep(now)
	}
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1), nil
}

// sweep drops buckets not used within the idle TTL. Callers hold l.mu.
func (l *MemoryLimiter) sweep(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) >= l.idle {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

// FailoverLimiter uses primary until it errors, then serves from fallback and
// retries primary once per minute.
type FailoverLimiter struct {
	primary   Limiter
	fallback  Limiter
	logger    *zap.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
	now       func() time.Time
}

// NewFailoverLimiter creates a new FailoverLimiter.
func NewFailoverLimiter(primary, fallback Limiter, logger *zap.Logger) *FailoverLimiter {
	return &FailoverLimiter{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

// Allow implements Limiter.
func (l *FailoverLimiter) Allow(ctx context.Context, key string) (bool, error) {
	retry := l.isDown.Load() && l.now().Sub(time.Unix(0, l.lastCheck.Load())) > time.Minute
	if !l.isDown.Load() || retry {
		allowed, err := l.primary.Allow(ctx, key)
		if err == nil {
			if retry {
				l.logger.Info("primary rate limiter recovered")
				l.isDown.Store(false)
			}
			return allowed, nil
		}
		if !l.isDown.Load() {
			l.logger.Error("primary rate limiter failed, falling back to memory", zap.Error(err))
		}
		l.isDown.Store(true)
		l.lastCheck.Store(l.now().UnixNano())
	}
	return l.fallback.Allow(ctx, key)
}
