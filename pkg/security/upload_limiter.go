package security

import (
	"context"
	"fmt"
	"time"

	"talenthub-backend/pkg/redis"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// UploadLimiter caps resume uploads per IP per minute and per user per day.
// It uses Redis when available and a process-local token bucket otherwise.
type UploadLimiter struct {
	client       *goredis.Client
	maxPerMinute int
	maxPerDay    int

	local *LocalBuckets
}

// NewUploadLimiter creates an upload rate limiter.
// Defaults: 10 uploads/min per IP, 50 uploads/day per user.
func NewUploadLimiter(client *goredis.Client, perMin, perDay int) *UploadLimiter {
	if perMin <= 0 {
		perMin = 10
	}
	if perDay <= 0 {
		perDay = 50
	}
	return &UploadLimiter{
		client:       client,
		maxPerMinute: perMin,
		maxPerDay:    perDay,
		local:        NewLocalBuckets(DefaultSweepInterval),
	}
}

// Close stops sweeping idle local buckets.
func (ul *UploadLimiter) Close() {
	ul.local.Close()
}

// AllowUpload returns (allowed, retryAfterSeconds, error).
// A Redis error denies the upload.
func (ul *UploadLimiter) AllowUpload(ctx context.Context, ip, userID string) (bool, int, error) {
	if ul.client == nil {
		return ul.allowLocal(ip, userID)
	}

	member := uuid.NewString()

	ipKey := fmt.Sprintf("ratelimit:upload:ip:%s", ip)
	allowed, err := redis.Allow(ctx, ul.client, ipKey, ul.maxPerMinute, time.Minute, member)
	if err != nil {
		return false, 60, fmt.Errorf("rate limit check failed: %w", err)
	}
	if !allowed {
		return false, 60, nil
	}

	if userID != "" {
		userKey := fmt.Sprintf("ratelimit:upload:user:%s", userID)
		allowed, err = redis.Allow(ctx, ul.client, userKey, ul.maxPerDay, 24*time.Hour, member)
		if err != nil {
			return false, 3600, fmt.Errorf("rate limit check failed: %w", err)
		}
		if !allowed {
			return false, 3600, nil
		}
	}

	return true, 0, nil
}

func (ul *UploadLimiter) allowLocal(ip, userID string) (bool, int, error) {
	now := time.Now()

	ipLim := ul.local.Get("ip:"+ip, time.Minute/time.Duration(ul.maxPerMinute), ul.maxPerMinute, now)
	if !ipLim.AllowN(now, 1) {
		return false, 60, nil
	}
	if userID != "" {
		userLim := ul.local.Get("user:"+userID, 24*time.Hour/time.Duration(ul.maxPerDay), ul.maxPerDay, now)
		if !userLim.AllowN(now, 1) {
			return false, 3600, nil
		}
	}
	return true, 0, nil
}
