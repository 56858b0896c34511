package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"login-service/internal/redis"

	goredis "github.com/redis/go-redis/v9"
)

// LoginLimiter counts failed login attempts per (email, client IP) in a
// fixed window. The handler consults it before the credential verifier runs,
// so verifier semantics are untouched by throttling.
type LoginLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewLoginLimiter(client *redis.Client, limit int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

func (l *LoginLimiter) key(email, ip string) string {
	return fmt.Sprintf("login_fail:%s:%s", strings.ToLower(email), ip)
}

// Allow reports whether another attempt may proceed.
func (l *LoginLimiter) Allow(ctx context.Context, email, ip string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(email, ip)).Int()
	if err == goredis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("ratelimit: counter read failed: %w", err)
	}
	return n < l.limit, nil
}

// RecordFailure bumps the window counter after a rejected attempt.
func (l *LoginLimiter) RecordFailure(ctx context.Context, email, ip string) error {
	key := l.key(email, ip)

	pipe := l.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("ratelimit: counter update failed: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email, ip string) error {
	return l.client.Del(ctx, l.key(email, ip)).Err()
}
