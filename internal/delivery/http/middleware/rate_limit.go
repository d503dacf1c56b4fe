package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"talenthub-backend/internal/delivery/http/response"
	"talenthub-backend/internal/domain"
	"talenthub-backend/pkg/metrics"
	"talenthub-backend/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for one rate limit policy
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Custom key extractor (default: IP-based)
	KeyFunc func(*gin.Context) string
	// Key prefix for Redis
	KeyPrefix string
	// Reject when Redis errors instead of using the local bucket
	FailClosed bool
	// Scope label for metrics
	Scope string
}

// Fixed-window counter: INCR, set TTL on first hit.
// KEYS[1] = counter key; ARGV[1] = window in seconds
// Returns: [current_count, ttl_remaining]
var fixedWindow = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`)

// RateLimiter enforces request quotas with Redis, falling back to
// per-process token buckets when Redis is absent or failing.
type RateLimiter struct {
	client  *goredis.Client
	audit   *security.SecurityLogger
	metrics metrics.MetricsCollector
	local   *security.LocalBuckets
}

// NewRateLimiter creates a RateLimiter. client may be nil.
func NewRateLimiter(client *goredis.Client, audit *security.SecurityLogger, m metrics.MetricsCollector) *RateLimiter {
	if m == nil {
		m = metrics.Nop{}
	}
	return &RateLimiter{
		client:  client,
		audit:   audit,
		metrics: m,
		local:   security.NewLocalBuckets(security.DefaultSweepInterval),
	}
}

// Close stops sweeping idle local buckets.
func (rl *RateLimiter) Close() {
	rl.local.Close()
}

// GlobalConfig limits every request per client IP.
func GlobalConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:ip:",
		Scope:     "global",
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// WriteConfig limits mutating requests per user, or per IP when anonymous.
func WriteConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:write:",
		Scope:     "write",
		KeyFunc: func(c *gin.Context) string {
			if s := SessionFrom(c); s != nil {
				return "u:" + s.UserID
			}
			return "ip:" + c.ClientIP()
		},
	}
}

// Middleware returns a handler enforcing cfg. Safe methods pass untouched
// for the write scope. A non-positive limit or window disables the policy.
func (rl *RateLimiter) Middleware(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limit <= 0 || cfg.Window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}

	return func(c *gin.Context) {
		if cfg.Scope == "write" {
			switch c.Request.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				c.Next()
				return
			}
		}

		key := cfg.KeyPrefix + cfg.KeyFunc(c)
		allowed, remaining, resetAt, err := rl.check(c.Request.Context(), key, cfg)
		if err != nil {
			if cfg.FailClosed {
				rl.logEvent(c, map[string]interface{}{"error_type": "redis_error", "error": err.Error()})
				response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.")
				c.Abort()
				return
			}
			allowed, remaining, resetAt = rl.checkLocal(key, cfg)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetAt.UTC().Format(time.RFC3339))

		if !allowed {
			retryAfter := int(time.Until(resetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			rl.metrics.RecordRateLimited(cfg.Scope)
			rl.logEvent(c, map[string]interface{}{"scope": cfg.Scope})

			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			c.Abort()
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) check(ctx context.Context, key string, cfg RateLimitConfig) (bool, int, time.Time, error) {
	if rl.client == nil {
		allowed, remaining, resetAt := rl.checkLocal(key, cfg)
		return allowed, remaining, resetAt, nil
	}

	windowSecs := int(cfg.Window.Seconds())
	if windowSecs < 1 {
		windowSecs = 1
	}
	res, err := fixedWindow.Run(ctx, rl.client, []string{key}, windowSecs).Int64Slice()
	if err != nil {
		return false, 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}
	if len(res) < 2 {
		return false, 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}

	count, ttl := int(res[0]), res[1]
	resetAt := time.Now().Add(time.Duration(ttl) * time.Second)
	remaining := cfg.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= cfg.Limit, remaining, resetAt, nil
}

func (rl *RateLimiter) checkLocal(key string, cfg RateLimitConfig) (bool, int, time.Time) {
	now := time.Now()
	every := cfg.Window / time.Duration(cfg.Limit)
	lim := rl.local.Get(key, every, cfg.Limit, now)

	allowed := lim.AllowN(now, 1)
	remaining := int(lim.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return allowed, remaining, now.Add(every)
}

func (rl *RateLimiter) logEvent(c *gin.Context, details map[string]interface{}) {
	event := security.SecurityEvent{
		Event:     security.EventRateLimitTriggered,
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
		RequestID: c.GetString(string(domain.KeyRequestID)),
		Path:      c.FullPath(),
		Details:   details,
	}
	if s := SessionFrom(c); s != nil {
		event.UserID = s.UserID
	}
	rl.audit.Log(c.Request.Context(), event)
}
