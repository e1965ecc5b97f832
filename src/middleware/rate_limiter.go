package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// limiterEntry holds a rate limiter with last used timestamp
type limiterEntry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// ipRateLimiter manages per-client limiters with periodic eviction
type ipRateLimiter struct {
	limiters map[string]*limiterEntry
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	stopCh   chan struct{}
	stopOnce sync.Once
}

func newIPRateLimiter(limit rate.Limit, burst int) *ipRateLimiter {
	k := &ipRateLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    limit,
		burst:    burst,
		stopCh:   make(chan struct{}),
	}
	go k.cleanupLoop()
	return k
}

func (k *ipRateLimiter) allow(key string) bool {
	k.mu.Lock()
	entry, ok := k.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.limiters[key] = entry
	}
	entry.lastUsed = time.Now()
	k.mu.Unlock()

	return entry.limiter.Allow()
}

// cleanupLoop removes stale entries every 5 minutes
func (k *ipRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			k.evictIdle(10 * time.Minute)
		case <-k.stopCh:
			return
		}
	}
}

func (k *ipRateLimiter) evictIdle(idle time.Duration) {
	k.mu.Lock()
	defer k.mu.Unlock()

	cutoff := time.Now().Add(-idle)
	for key, entry := range k.limiters {
		if entry.lastUsed.Before(cutoff) {
			delete(k.limiters, key)
		}
	}
}

func (k *ipRateLimiter) stop() {
	k.stopOnce.Do(func() { close(k.stopCh) })
}

// RateLimitConfig defines configuration for the rate limiting middleware
type RateLimitConfig struct {
	Name              string // log label, e.g. "login"
	RequestsPerMinute int
	Burst             int
}

// RateLimiter limits form submissions per client IP
type RateLimiter struct {
	name    string
	limiter *ipRateLimiter
}

// NewRateLimiter creates a per-IP limiter. Safe methods are never limited.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.RequestsPerMinute
	}

	limit := rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	return &RateLimiter{
		name:    cfg.Name,
		limiter: newIPRateLimiter(limit, cfg.Burst),
	}
}

// Middleware returns the gin handler enforcing the limit
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if !rl.limiter.allow(ip) {
			log.Warn().
				Str("request_id", GetRequestID(c)).
				Str("limiter", rl.name).
				Str("client_ip", ip).
				Msg("Rate limit exceeded")

			c.Header("Retry-After", strconv.Itoa(60))
			c.String(http.StatusTooManyRequests, "Too many requests. Please try again later.")
			c.Abort()
			return
		}

		c.Next()
	}
}

// Stop terminates the eviction goroutine
func (rl *RateLimiter) Stop() {
	rl.limiter.stop()
}
