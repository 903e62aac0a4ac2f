package query

import (
	"context"
	"sync"
	"time"
)

type options struct {
	enabled   bool
	staleTime *time.Duration
}

type Option func(*options)

// Enabled gates fetching. A disabled query never calls its fetch function.
func Enabled(v bool) Option {
	return func(o *options) { o.enabled = v }
}

// StaleTime overrides the cache stale time for one query.
func StaleTime(d time.Duration) Option {
	return func(o *options) { o.staleTime = &d }
}

// Query binds a key to the accessor that loads it.
type Query[T any] struct {
	cache     *Cache
	key       Key
	fn        func(ctx context.Context) (T, error)
	enabled   bool
	staleTime time.Duration
}

func New[T any](c *Cache, key Key, fn func(ctx context.Context) (T, error), opts ...Option) *Query[T] {
	o := options{enabled: true}
	for _, opt := range opts {
		opt(&o)
	}
	q := &Query[T]{cache: c, key: key, fn: fn, enabled: o.enabled, staleTime: c.staleTime}
	if o.staleTime != nil {
		q.staleTime = *o.staleTime
	}
	return q
}

func (q *Query[T]) Key() Key {
	return q.key
}

func (q *Query[T]) fetcher() fetchFunc {
	return func(ctx context.Context) (any, error) {
		v, err := q.fn(ctx)
		return v, err
	}
}

func cast[T any](v any) T {
	t, _ := v.(T)
	return t
}

// Fetch returns fresh cached data or loads it, waiting for the result.
func (q *Query[T]) Fetch(ctx context.Context) (T, error) {
	var zero T
	e := q.cache.entry(q.key)
	s := q.cache.snapshot(e, q.staleTime)
	if s.hasData && (!s.stale || !q.enabled) {
		return cast[T](s.data), nil
	}
	if !q.enabled {
		return zero, ErrDisabled
	}
	v, err := q.cache.run(ctx, e, q.fetcher())
	if err != nil {
		return zero, err
	}
	return cast[T](v), nil
}

// Observe mounts a subscriber on the key. Missing or stale data is loaded
// in the background; call Close to unmount.
func (q *Query[T]) Observe(ctx context.Context) *Observer[T] {
	e := q.cache.entry(q.key)
	l := newListener()
	fn := q.fetcher()
	q.cache.subscribe(e, l, q.enabled, fn)

	o := &Observer[T]{query: q, entry: e, listener: l, done: make(chan struct{})}
	if q.enabled && q.cache.snapshot(e, q.staleTime).stale {
		o.initial = make(chan struct{})
		go func() {
			defer close(o.initial)
			_, _ = q.cache.run(ctx, e, fn)
		}()
	}
	return o
}

// State is what a screen renders from.
type State[T any] struct {
	Data       T
	HasData    bool
	Status     Status
	Err        error
	IsLoading  bool
	IsFetching bool
	IsSuccess  bool
	IsError    bool
	IsStale    bool
	UpdatedAt  time.Time
}

type listener struct {
	ch chan struct{}
}

func newListener() *listener {
	return &listener{ch: make(chan struct{}, 1)}
}

// poke never blocks; pending notifications coalesce.
func (l *listener) poke() {
	select {
	case l.ch <- struct{}{}:
	default:
	}
}

type Observer[T any] struct {
	query    *Query[T]
	entry    *entry
	listener *listener
	initial  chan struct{}

	closeOnce sync.Once
	done      chan struct{}
}

func (o *Observer[T]) Key() Key {
	return o.query.key
}

func (o *Observer[T]) State() State[T] {
	s := o.query.cache.snapshot(o.entry, o.query.staleTime)
	st := State[T]{
		HasData:    s.hasData,
		Status:     s.status,
		Err:        s.err,
		IsFetching: s.fetching,
		IsSuccess:  s.status == StatusSuccess,
		IsError:    s.status == StatusError,
		IsStale:    s.stale,
		UpdatedAt:  s.updatedAt,
	}
	if s.hasData {
		st.Data = cast[T](s.data)
	}
	st.IsLoading = o.query.enabled && !s.hasData && s.status == StatusPending
	return st
}

// Changes receives a value whenever the entry may have changed. It is never
// closed; select on Done as well.
func (o *Observer[T]) Changes() <-chan struct{} {
	return o.listener.ch
}

func (o *Observer[T]) Done() <-chan struct{} {
	return o.done
}

// Refetch loads the key again even when fresh, joining a fetch in flight.
func (o *Observer[T]) Refetch(ctx context.Context) (T, error) {
	var zero T
	if !o.query.enabled {
		return zero, ErrDisabled
	}
	v, err := o.query.cache.run(ctx, o.entry, o.query.fetcher())
	if err != nil {
		return zero, err
	}
	return cast[T](v), nil
}

// Await waits for the fetch started by Observe and any fetch still in
// flight, then returns the state.
func (o *Observer[T]) Await(ctx context.Context) (State[T], error) {
	if o.initial != nil {
		select {
		case <-o.initial:
		case <-ctx.Done():
			return o.State(), ctx.Err()
		}
	}
	for {
		st := o.State()
		if !st.IsFetching {
			return st, nil
		}
		select {
		case <-o.Changes():
		case <-o.done:
			return o.State(), nil
		case <-ctx.Done():
			return o.State(), ctx.Err()
		}
	}
}

// Close unmounts the observer. Results that settle later still update the
// cache but are not delivered here.
func (o *Observer[T]) Close() {
	o.closeOnce.Do(func() {
		o.query.cache.unsubscribe(o.entry, o.listener)
		close(o.done)
	})
}
