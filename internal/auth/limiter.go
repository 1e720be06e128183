// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultMaxAttempts is how many failed logins a key may accumulate
	// before further attempts are refused.
	DefaultMaxAttempts = 5

	// DefaultLockWindow is how long the failure counter lives. The
	// window restarts on every failure, so a locked account stays
	// locked until the attacker goes quiet.
	DefaultLockWindow = 15 * time.Minute

	attemptKeyPrefix = "login_attempts:"
)

// LoginLimiter counts failed login attempts in Valkey so the limit
// holds across every instance of the application. Counting errors fail
// open: an unreachable cache must not lock every admin out.
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLoginLimiter creates a limiter with the default attempt budget.
func NewLoginLimiter(client *redis.Client) *LoginLimiter {
	return &LoginLimiter{
		client:      client,
		maxAttempts: DefaultMaxAttempts,
		window:      DefaultLockWindow,
	}
}

// Blocked reports whether the key has exhausted its attempt budget.
func (l *LoginLimiter) Blocked(ctx context.Context, key string) bool {
	count, err := l.client.Get(ctx, attemptKeyPrefix+key).Int()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		slog.Warn("login limiter read failed", "key", key, "error", err)
		return false
	}
	return count >= l.maxAttempts
}

// RecordFailure bumps the failure counter and restarts its expiry
// window.
func (l *LoginLimiter) RecordFailure(ctx context.Context, key string) {
	full := attemptKeyPrefix + key
	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, full)
	pipe.Expire(ctx, full, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("login limiter write failed", "key", key, "error", err)
		return
	}
	if n := incr.Val(); n >= int64(l.maxAttempts) {
		slog.Warn("login attempts exhausted", "key", key, "attempts", n)
	}
}

// Reset clears the failure counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, key string) {
	if err := l.client.Del(ctx, attemptKeyPrefix+key).Err(); err != nil {
		slog.Warn("login limiter reset failed", "key", key, "error", err)
	}
}

// Key builds the counter key for a username/address pair so lockouts
// follow the source of the attempts, not just the account.
func Key(username, remoteAddr string) string {
	return fmt.Sprintf("%s@%s", username, remoteAddr)
}
