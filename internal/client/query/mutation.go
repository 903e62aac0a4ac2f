package query

import (
	"context"
	"sync"
)

// Callbacks receive the outcome of Mutate. Any of them may be nil.
type Callbacks[Out any] struct {
	OnSuccess func(Out)
	OnError   func(error)
	OnSettled func(Out, error)
}

// Mutation issues a write and, once it succeeds, invalidates the keys it
// declares for its input. There is no retry, rollback or optimistic update.
type Mutation[In, Out any] struct {
	cache       *Cache
	fn          func(ctx context.Context, in In) (Out, error)
	invalidates func(in In) []Key

	mu      sync.Mutex
	pending int
	lastErr error
}

func NewMutation[In, Out any](c *Cache, fn func(ctx context.Context, in In) (Out, error), invalidates func(in In) []Key) *Mutation[In, Out] {
	if invalidates == nil {
		invalidates = func(In) []Key { return nil }
	}
	return &Mutation[In, Out]{cache: c, fn: fn, invalidates: invalidates}
}

// Keys returns the invalidation set for in.
func (m *Mutation[In, Out]) Keys(in In) []Key {
	return m.invalidates(in)
}

// MutateAsync runs the write and waits for it and for the refetches its
// invalidation triggers.
func (m *Mutation[In, Out]) MutateAsync(ctx context.Context, in In) (Out, error) {
	m.mu.Lock()
	m.pending++
	m.mu.Unlock()

	out, err := m.fn(ctx, in)
	if err == nil {
		if keys := m.invalidates(in); len(keys) > 0 {
			m.cache.Invalidate(ctx, keys...)
		}
	}

	m.mu.Lock()
	m.pending--
	m.lastErr = err
	m.mu.Unlock()

	return out, err
}

// Mutate runs MutateAsync in a goroutine and reports through cb. The
// returned channel is closed after OnSettled.
func (m *Mutation[In, Out]) Mutate(ctx context.Context, in In, cb Callbacks[Out]) <-chan struct{} {
	done := make(chan struct{})
	m.mu.Lock()
	m.pending++
	m.mu.Unlock()

	go func() {
		defer close(done)
		out, err := m.MutateAsync(ctx, in)

		m.mu.Lock()
		m.pending--
		m.mu.Unlock()

		if err != nil {
			if cb.OnError != nil {
				cb.OnError(err)
			}
		} else if cb.OnSuccess != nil {
			cb.OnSuccess(out)
		}
		if cb.OnSettled != nil {
			cb.OnSettled(out, err)
		}
	}()
	return done
}

func (m *Mutation[In, Out]) IsPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending > 0
}

// Err is the error of the last settled call, nil after a success.
func (m *Mutation[In, Out]) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}
