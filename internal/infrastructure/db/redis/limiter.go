package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter throttles credential attempts with a fixed window counter.
// Key format: login_attempts:<email>:<ip>
type LoginLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewLoginLimiter creates a limiter allowing limit attempts per window for
// each (email, ip) pair.
func NewLoginLimiter(client *redis.Client, limit int64, window time.Duration) *LoginLimiter {
	return &LoginLimiter{client: client, limit: limit, window: window}
}

// Allow records one attempt and reports whether it is within the limit.
// The counter expires window after the first attempt in the window.
func (l *LoginLimiter) Allow(ctx context.Context, email, ip string) (bool, error) {
	key := l.key(email, ip)
	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("login limiter: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("login limiter: %w", err)
		}
	}
	return n <= l.limit, nil
}

func (l *LoginLimiter) key(email, ip string) string {
	return fmt.Sprintf("login_attempts:%s:%s", strings.ToLower(email), ip)
}
