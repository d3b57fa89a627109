package api

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateDecision is the outcome of one rate limit check.
type RateDecision struct {
	Allowed   bool
	Count     int
	WindowEnd time.Time
}

// RateLimiter counts requests per key in fixed windows.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) RateDecision
}

// RedisRateLimiter shares fixed-window counters across API instances.
// Redis errors fail open.
type RedisRateLimiter struct {
	client  *redis.Client
	logger  *slog.Logger
	prefix  string
	timeout time.Duration
}

// NewRedisRateLimiter creates a limiter on an existing client.
func NewRedisRateLimiter(client *redis.Client, logger *slog.Logger) *RedisRateLimiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisRateLimiter{
		client:  client,
		logger:  logger,
		prefix:  "cockpit:ratelimit:",
		timeout: 250 * time.Millisecond,
	}
}

// Allow increments the key's counter, starting the window on the first hit.
func (l *RedisRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) RateDecision {
	if limit <= 0 {
		return RateDecision{Allowed: true}
	}
	if window <= 0 {
		window = time.Minute
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	redisKey := l.prefix + key
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		l.logger.WarnContext(ctx, "rate limiter unavailable", "op", "incr", "error", err)
		return RateDecision{Allowed: true, WindowEnd: time.Now().Add(window)}
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, window).Err(); err != nil {
			l.logger.WarnContext(ctx, "rate limiter unavailable", "op", "expire", "error", err)
		}
	}

	ttl, err := l.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl <= 0 {
		ttl = window
	}
	return RateDecision{
		Allowed:   int(count) <= limit,
		Count:     int(count),
		WindowEnd: time.Now().Add(ttl),
	}
}

// MemoryRateLimiter keeps fixed-window counters in process. It is used when
// no Redis is configured.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	entries map[string]rateWindow
	now     func() time.Time
}

type rateWindow struct {
	count int
	end   time.Time
}

// NewMemoryRateLimiter creates an in-process limiter.
func NewMemoryRateLimiter() *MemoryRateLimiter {
	return &MemoryRateLimiter{
		entries: make(map[string]rateWindow),
		now:     time.Now,
	}
}

// Allow counts a request for key. Expired windows are pruned lazily.
func (l *MemoryRateLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) RateDecision {
	if limit <= 0 {
		return RateDecision{Allowed: true}
	}
	if window <= 0 {
		window = time.Minute
	}

	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.entries[key]
	if !ok || !now.Before(w.end) {
		l.prune(now)
		w = rateWindow{end: now.Add(window)}
	}
	w.count++
	l.entries[key] = w

	return RateDecision{
		Allowed:   w.count <= limit,
		Count:     w.count,
		WindowEnd: w.end,
	}
}

func (l *MemoryRateLimiter) prune(now time.Time) {
	for key, w := range l.entries {
		if !now.Before(w.end) {
			delete(l.entries, key)
		}
	}
}
