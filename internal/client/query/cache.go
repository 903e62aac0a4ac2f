// Package query is the client's cache of server state. Queries are keyed
// fetches whose results are shared by every screen observing the same key.
// Mutations write through the accessors and then invalidate the keys they
// affect, which refetches whatever is still on screen.
//
// A Cache is an explicit value; consumers receive it by injection and each
// test builds its own.
package query

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/studyshare/internal/logging"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultStaleTime = 0
	DefaultGCTime    = 5 * time.Minute
)

// ErrDisabled is returned by Fetch on a disabled query that has no data.
var ErrDisabled = errors.New("query disabled")

type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

type fetchFunc func(ctx context.Context) (any, error)

type Options struct {
	StaleTime time.Duration
	GCTime    time.Duration
	Logger    logging.Logger
	Now       func() time.Time
}

type Cache struct {
	staleTime time.Duration
	gcTime    time.Duration
	logger    logging.Logger
	now       func() time.Time

	group singleflight.Group

	mu      sync.Mutex
	entries map[string]*entry
	nextID  uint64
}

// entry is one cached key. All fields are guarded by Cache.mu.
type entry struct {
	id   uint64
	key  Key
	hash string

	status      Status
	data        any
	hasData     bool
	err         error
	updatedAt   time.Time
	invalidated bool
	// results of fetches issued at or before staleBefore cannot clear
	// invalidated.
	staleBefore uint64

	issued   uint64
	applied  uint64
	fetching int

	observers       map[*listener]bool
	unobservedSince time.Time
	fetcher         fetchFunc
}

func NewCache(opts Options) *Cache {
	c := &Cache{
		staleTime: opts.StaleTime,
		gcTime:    opts.GCTime,
		logger:    opts.Logger,
		now:       opts.Now,
		entries:   make(map[string]*entry),
	}
	if c.gcTime <= 0 {
		c.gcTime = DefaultGCTime
	}
	if c.logger == nil {
		c.logger = logging.Nop()
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

func (c *Cache) entryLocked(key Key) *entry {
	hash := key.String()
	if e, ok := c.entries[hash]; ok {
		return e
	}
	c.nextID++
	e := &entry{
		id:              c.nextID,
		key:             append(Key(nil), key...),
		hash:            hash,
		status:          StatusPending,
		observers:       make(map[*listener]bool),
		unobservedSince: c.now(),
	}
	c.entries[hash] = e
	return e
}

func (c *Cache) entry(key Key) *entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entryLocked(key)
}

func flightKey(e *entry) string {
	return e.hash + "#" + strconv.FormatUint(e.id, 10)
}

func (c *Cache) freshLocked(e *entry, staleTime time.Duration) bool {
	if e.status != StatusSuccess || e.invalidated {
		return false
	}
	return c.now().Sub(e.updatedAt) < staleTime
}

// run fetches e through fn, sharing an in-flight call for the same entry.
// The fetch itself is detached from ctx; cancelling ctx only stops the wait.
func (c *Cache) run(ctx context.Context, e *entry, fn fetchFunc) (any, error) {
	v, _, err := c.runFlight(ctx, e, fn)
	return v, err
}

// runOwn waits out any fetch in flight for e and then runs fn itself, so
// the result reflects a request issued after the call. e never has more
// than one request in flight.
func (c *Cache) runOwn(ctx context.Context, e *entry, fn fetchFunc) (any, error) {
	for {
		v, ran, err := c.runFlight(ctx, e, fn)
		if ran || ctx.Err() != nil {
			return v, err
		}
	}
}

// runFlight runs fn in the entry's flight slot or joins the call already
// there. ran reports whether fn was the call that ran.
func (c *Cache) runFlight(ctx context.Context, e *entry, fn fetchFunc) (any, bool, error) {
	detached := context.WithoutCancel(ctx)
	ran := false
	ch := c.group.DoChan(flightKey(e), func() (any, error) {
		ran = true
		c.mu.Lock()
		e.issued++
		seq := e.issued
		e.fetching++
		c.mu.Unlock()
		c.notify(e)

		v, err := fn(detached)
		c.settle(detached, e, seq, v, err)
		return v, err
	})

	select {
	case r := <-ch:
		return r.Val, ran, r.Err
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

// settle applies a fetch result unless a newer one was applied already.
func (c *Cache) settle(ctx context.Context, e *entry, seq uint64, v any, err error) {
	c.mu.Lock()
	e.fetching--
	applied := seq > e.applied
	if applied {
		e.applied = seq
		if err != nil {
			e.status = StatusError
			e.err = err
		} else {
			e.status = StatusSuccess
			e.data = v
			e.hasData = true
			e.err = nil
			e.updatedAt = c.now()
			if seq > e.staleBefore {
				e.invalidated = false
			}
		}
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Debug(ctx, "query fetch failed", "key", e.hash, "error", err)
	} else if !applied {
		c.logger.Debug(ctx, "query result superseded", "key", e.hash, "seq", seq)
	}
	c.notify(e)
}

func (c *Cache) notify(e *entry) {
	c.mu.Lock()
	ls := make([]*listener, 0, len(e.observers))
	for l := range e.observers {
		ls = append(ls, l)
	}
	c.mu.Unlock()
	for _, l := range ls {
		l.poke()
	}
}

type snapshot struct {
	status    Status
	data      any
	hasData   bool
	err       error
	updatedAt time.Time
	fetching  bool
	stale     bool
}

func (c *Cache) snapshot(e *entry, staleTime time.Duration) snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return snapshot{
		status:    e.status,
		data:      e.data,
		hasData:   e.hasData,
		err:       e.err,
		updatedAt: e.updatedAt,
		fetching:  e.fetching > 0,
		stale:     !c.freshLocked(e, staleTime),
	}
}

func (c *Cache) subscribe(e *entry, l *listener, enabled bool, fn fetchFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e.observers[l] = enabled
	if enabled {
		e.fetcher = fn
	}
}

func (c *Cache) unsubscribe(e *entry, l *listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := e.observers[l]; !ok {
		return
	}
	delete(e.observers, l)
	if len(e.observers) == 0 {
		e.unobservedSince = c.now()
	}
}

// Invalidate marks every entry whose key starts with one of prefixes as
// stale. Entries with at least one enabled observer are refetched, and
// Invalidate returns once those refetches settle or ctx is done. When such
// an entry is already fetching, the refetch is issued after that fetch
// settles.
func (c *Cache) Invalidate(ctx context.Context, prefixes ...Key) {
	encoded := make([][]string, len(prefixes))
	for i, p := range prefixes {
		encoded[i] = p.encode()
	}

	type target struct {
		e  *entry
		fn fetchFunc
	}
	var targets []target

	c.mu.Lock()
	for _, e := range c.entries {
		parts := e.key.encode()
		matched := false
		for _, p := range encoded {
			if hasPrefix(parts, p) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		e.invalidated = true
		e.staleBefore = e.issued
		if e.fetcher == nil || !hasEnabled(e.observers) {
			continue
		}
		targets = append(targets, target{e: e, fn: e.fetcher})
	}
	c.mu.Unlock()

	var wg sync.WaitGroup
	for _, t := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.runOwn(ctx, t.e, t.fn)
		}()
	}
	wg.Wait()
}

func hasEnabled(observers map[*listener]bool) bool {
	for _, enabled := range observers {
		if enabled {
			return true
		}
	}
	return false
}

// IsStale reports whether key has no fresh data under the cache stale time.
func (c *Cache) IsStale(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok {
		return true
	}
	return !c.freshLocked(e, c.staleTime)
}

func (c *Cache) Has(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key.String()]
	return ok
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every entry. Observers of dropped entries see no further
// updates; used on logout.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		c.group.Forget(flightKey(e))
	}
	c.entries = make(map[string]*entry)
}

// Collect evicts entries that have had no observers for longer than the GC
// time and are not fetching. It returns the number of evicted entries.
func (c *Cache) Collect() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	n := 0
	for hash, e := range c.entries {
		if len(e.observers) > 0 || e.fetching > 0 {
			continue
		}
		if now.Sub(e.unobservedSince) < c.gcTime {
			continue
		}
		delete(c.entries, hash)
		n++
	}
	return n
}

// RunGC calls Collect every interval until ctx is done.
func (c *Cache) RunGC(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = c.gcTime
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.Collect(); n > 0 {
				c.logger.Debug(ctx, "query cache collected", "evicted", n)
			}
		}
	}
}
