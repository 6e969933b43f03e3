// Package lock provides best-effort distributed locks for serialising ledger
// writes across API replicas. The database transaction stays the source of
// truth; a lock only keeps concurrent requests from burning retries.
package lock

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// Locker obtains a named lock. The returned release func is always safe to call.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

type noopLocker struct{}

// NewNoop returns a Locker that never blocks. Used when Redis is not configured.
func NewNoop() Locker {
	return noopLocker{}
}

func (noopLocker) Acquire(ctx context.Context, key string) (func(), error) {
	return func() {}, nil
}

type redisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy
}

// NewRedis returns a Locker backed by bsm/redislock.
func NewRedis(rdb *redis.Client, ttl time.Duration) Locker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &redisLocker{
		client: redislock.New(rdb),
		ttl:    ttl,
		retry:  redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), 40),
	}
}

// Acquire waits for the lock for a bounded time. If Redis is unreachable or the
// lock stays taken, it logs and returns a no-op release so the caller can fall
// back on the database lock.
func (l *redisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	obtained, err := l.client.Obtain(ctx, "lock:"+key, l.ttl, &redislock.Options{RetryStrategy: l.retry})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return func() {}, ctxErr
		}
		if errors.Is(err, redislock.ErrNotObtained) {
			slog.WarnContext(ctx, "Could not obtain redis lock; proceeding without it", "key", key)
		} else {
			slog.WarnContext(ctx, "Error obtaining redis lock; proceeding without it", "key", key, "error", err)
		}
		return func() {}, nil
	}

	return func() {
		// Release must outlive a cancelled request context.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := obtained.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			slog.Warn("Failed to release redis lock", "key", key, "error", err)
		}
	}, nil
}
