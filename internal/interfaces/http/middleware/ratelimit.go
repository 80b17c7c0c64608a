package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trycco/storefront/internal/interfaces/http/dto"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client key. Each bucket holds limit
// tokens and refills at limit per span.
type RateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	limit    int
	span     time.Duration
	every    rate.Limit
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

type bucket struct {
	tokens   *rate.Limiter
	lastSeen time.Time
}

// LimiterOption configures a RateLimiter.
type LimiterOption func(*RateLimiter)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) LimiterOption {
	return func(rl *RateLimiter) { rl.now = now }
}

// NewRateLimiter allows bursts of limit requests per key, refilled at limit
// per span. A sweeper goroutine drops idle keys until Stop is called.
func NewRateLimiter(limit int, span time.Duration, opts ...LimiterOption) *RateLimiter {
	limit = max(limit, 1)
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		span:    span,
		every:   rate.Every(span / time.Duration(limit)),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(rl)
	}
	go rl.sweep(2 * span)
	return rl
}

// Stop ends the sweeper.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.evictIdle()
		}
	}
}

// evictIdle drops buckets unused for two spans; they would be full again anyway.
func (rl *RateLimiter) evictIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) > 2*rl.span {
			delete(rl.buckets, key)
		}
	}
}

// Allow takes one token from key's bucket.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: rate.NewLimiter(rl.every, rl.limit)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	return b.tokens.AllowN(now, 1)
}

// Remaining reports how many whole tokens key has left.
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	b, ok := rl.buckets[key]
	if !ok {
		return rl.limit
	}
	return max(int(b.tokens.TokensAt(rl.now())), 0)
}

// retryAfter is the time for one token to refill, in whole seconds.
func (rl *RateLimiter) retryAfter() int {
	interval := rl.span / time.Duration(rl.limit)
	return max(int((interval+time.Second-1)/time.Second), 1)
}

// RateLimit limits every request per client IP.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return limitByKey(limiter, keyByIP(""), "Too many requests. Please try again later.")
}

// OrderRateLimit limits order submissions per client IP, on a budget
// separate from the global one.
func OrderRateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return limitByKey(limiter, keyByIP("order:"), "Too many orders from this address. Please try again later.")
}

// AuthRateLimit limits admin login attempts per client IP.
func AuthRateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return limitByKey(limiter, keyByIP("auth:"), "Too many authentication attempts. Please try again later.")
}

func keyByIP(prefix string) func(*gin.Context) string {
	return func(c *gin.Context) string { return prefix + c.ClientIP() }
}

func limitByKey(limiter *RateLimiter, keyFunc func(*gin.Context) string, message string) gin.HandlerFunc {
	limit := strconv.Itoa(limiter.limit)
	retryAfter := strconv.Itoa(limiter.retryAfter())

	return func(c *gin.Context) {
		key := keyFunc(c)
		if !limiter.Allow(key) {
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeRateLimited, message, c.GetString(RequestIDKey)))
			return
		}
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))
		c.Next()
	}
}
