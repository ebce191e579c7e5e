// Package lock provides the per-key mutual exclusion the checkout service
// holds across its read-modify-write of a basket. Two concurrent reconciles
// on a basket with no payment intent would otherwise create two remote
// intents.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotObtained is returned when the lock could not be acquired within the
// implementation's retry budget.
var ErrNotObtained = errors.New("lock not obtained")

// ReleaseFunc releases an obtained lock. Safe to call exactly once.
type ReleaseFunc func(ctx context.Context) error

// Locker serializes work per key.
type Locker interface {
	// Obtain acquires the lock for key, holding it for at most ttl.
	Obtain(ctx context.Context, key string, ttl time.Duration) (ReleaseFunc, error)
}

var _ Locker = (*KeyedMutex)(nil)

// KeyedMutex is an in-process Locker for single-instance deployments and
// tests. The ttl is ignored: an in-process lock cannot outlive its holder.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	ch   chan struct{} // buffered size 1, token semaphore
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*entry)}
}

func (m *KeyedMutex) Obtain(ctx context.Context, key string, _ time.Duration) (ReleaseFunc, error) {
	m.mu.Lock()
	e, ok := m.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		m.locks[key] = e
	}
	e.refs++
	m.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		m.unref(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	release := func(context.Context) error {
		once.Do(func() {
			<-e.ch
			m.unref(key, e)
		})
		return nil
	}
	return release, nil
}

func (m *KeyedMutex) unref(key string, e *entry) {
	m.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(m.locks, key)
	}
	m.mu.Unlock()
}
