package query

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/studyshare/internal/client/models"
)

const firstPage = 1

// Pages is the accumulated data of an infinite query, in fetch order.
type Pages[T any] struct {
	Pages []models.Page[T]
}

// Items flattens all pages.
func (p Pages[T]) Items() []T {
	out := []T{}
	for _, pg := range p.Pages {
		out = append(out, pg.Items...)
	}
	return out
}

func (p Pages[T]) HasNextPage() bool {
	if len(p.Pages) == 0 {
		return false
	}
	return p.Pages[len(p.Pages)-1].HasNext()
}

func (p Pages[T]) nextPage() int {
	return p.Pages[len(p.Pages)-1].Next()
}

// PageFunc loads one page of a paginated listing.
type PageFunc[T any] func(ctx context.Context, page int) (models.Page[T], error)

// InfiniteQuery is a paginated query whose pages accumulate under one key.
type InfiniteQuery[T any] struct {
	inner *Query[Pages[T]]
	fn    PageFunc[T]
}

func NewInfinite[T any](c *Cache, key Key, fn PageFunc[T], opts ...Option) *InfiniteQuery[T] {
	q := &InfiniteQuery[T]{fn: fn}
	q.inner = New(c, key, q.reload, opts...)
	return q
}

func (q *InfiniteQuery[T]) Key() Key {
	return q.inner.key
}

// reload fetches from the first page as many pages as are loaded now, or
// just the first one. It stops early when the server reports no next page.
func (q *InfiniteQuery[T]) reload(ctx context.Context) (Pages[T], error) {
	n := 1
	s := q.inner.cache.snapshot(q.inner.cache.entry(q.inner.key), q.inner.staleTime)
	if cur := cast[Pages[T]](s.data); s.hasData && len(cur.Pages) > n {
		n = len(cur.Pages)
	}

	out := Pages[T]{Pages: make([]models.Page[T], 0, n)}
	page := firstPage
	for range n {
		p, err := q.fn(ctx, page)
		if err != nil {
			return Pages[T]{}, err
		}
		out.Pages = append(out.Pages, p)
		if !p.HasNext() {
			break
		}
		page = p.Next()
	}
	return out, nil
}

func (q *InfiniteQuery[T]) Fetch(ctx context.Context) (Pages[T], error) {
	return q.inner.Fetch(ctx)
}

func (q *InfiniteQuery[T]) Observe(ctx context.Context) *InfiniteObserver[T] {
	return &InfiniteObserver[T]{Observer: q.inner.Observe(ctx), fn: q.fn}
}

type InfiniteObserver[T any] struct {
	*Observer[Pages[T]]
	fn PageFunc[T]
}

func (o *InfiniteObserver[T]) HasNextPage() bool {
	return o.State().Data.HasNextPage()
}

// FetchNextPage appends the next page. It does nothing while a fetch is in
// flight, when there is no next page, or when the query is disabled. The
// page request shares the entry's flight slot with reloads.
func (o *InfiniteObserver[T]) FetchNextPage(ctx context.Context) error {
	st := o.State()
	if !o.query.enabled || st.IsFetching || !st.Data.HasNextPage() {
		return nil
	}
	cache := o.query.cache
	_, err := cache.runOwn(ctx, o.entry, func(ctx context.Context) (any, error) {
		prev := cast[Pages[T]](cache.snapshot(o.entry, o.query.staleTime).data)
		if !prev.HasNextPage() {
			return prev, nil
		}
		p, err := o.fn(ctx, prev.nextPage())
		if err != nil {
			return nil, err
		}
		return Pages[T]{Pages: append(slices.Clone(prev.Pages), p)}, nil
	})
	return err
}
