package cache

import (
	"context"
	"math"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// bucket is a per-IP token bucket held in memory.
type bucket struct {
	tokens float64
	last   time.Time
}

// Memory is an in-process rate limiter for single-instance deployments
// without Redis. Idle buckets expire after rateLimitIPTTL.
type Memory struct {
	mu      sync.Mutex
	buckets *gocache.Cache
	now     func() time.Time
}

// NewMemory creates an in-process rate limiter.
func NewMemory() *Memory {
	return &Memory{
		buckets: gocache.New(rateLimitIPTTL, time.Minute),
		now:     time.Now,
	}
}

// CheckIPRateLimit applies the same token bucket as the Redis script.
func (m *Memory) CheckIPRateLimit(ctx context.Context, ip string, ratePerSecond, burst int) (*RateLimitResult, error) {
	if ratePerSecond <= 0 {
		return unlimited(burst), nil
	}

	key := ipKey(ip)
	rate := float64(ratePerSecond)

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	b := &bucket{tokens: float64(burst), last: now}
	if v, ok := m.buckets.Get(key); ok {
		b = v.(*bucket)
	}

	elapsed := now.Sub(b.last).Seconds()
	b.tokens = math.Min(float64(burst), b.tokens+elapsed*rate)
	b.last = now

	result := &RateLimitResult{
		ResetAt: now.Add(time.Second / time.Duration(ratePerSecond)),
	}
	if b.tokens >= 1 {
		b.tokens--
		result.Allowed = true
	} else {
		result.RetryAfter = time.Duration(math.Ceil((1-b.tokens)/rate)) * time.Second
	}
	result.Remaining = int64(math.Floor(b.tokens))

	m.buckets.Set(key, b, rateLimitIPTTL)
	return result, nil
}
