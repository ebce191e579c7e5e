// Package redislocker implements lock.Locker on top of bsm/redislock, for
// deployments where more than one checkout instance serves the same baskets.
package redislocker

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/monsterstore/checkout/internal/pkg/lock"
)

var _ lock.Locker = (*Locker)(nil)

// Locker wraps a redislock client.
type Locker struct {
	client *redislock.Client
}

func New(client *redis.Client) *Locker {
	return &Locker{client: redislock.New(client)}
}

// Obtain acquires the distributed lock, retrying on a fixed interval until
// the retry budget or ctx runs out.
func (l *Locker) Obtain(ctx context.Context, key string, ttl time.Duration) (lock.ReleaseFunc, error) {
	held, err := l.client.Obtain(ctx, key, ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 30),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, lock.ErrNotObtained
	}
	if err != nil {
		return nil, err
	}

	release := func(ctx context.Context) error {
		err := held.Release(ctx)
		// Expired locks release themselves; nothing for the caller to do.
		if errors.Is(err, redislock.ErrLockNotHeld) {
			return nil
		}
		return err
	}
	return release, nil
}
