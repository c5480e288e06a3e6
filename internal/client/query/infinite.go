package query

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/hoagie/internal/client/models"
)

// InfiniteQuery is a typed view over one paginated key.
type InfiniteQuery[T any] struct {
	cache *Cache
	key   Key
	fetch func(ctx context.Context, page int) (*models.Page[T], error)
}

func NewInfiniteQuery[T any](c *Cache, key Key, fetch func(ctx context.Context, page int) (*models.Page[T], error)) *InfiniteQuery[T] {
	return &InfiniteQuery[T]{cache: c, key: key, fetch: fetch}
}

func (q *InfiniteQuery[T]) Key() Key {
	return q.key
}

func (q *InfiniteQuery[T]) fetcher() PageFetcher {
	return func(ctx context.Context, page int) (Paged, error) {
		p, err := q.fetch(ctx, page)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, ErrNilPage
		}
		return p, nil
	}
}

// Load returns the first page, fetching it when missing or stale.
func (q *InfiniteQuery[T]) Load(ctx context.Context) (*models.Page[T], error) {
	p, err := q.cache.GetOrFetch(ctx, q.key, FirstPage, q.fetcher())
	if err != nil {
		return nil, err
	}
	return p.(*models.Page[T]), nil
}

// FetchNextPage loads the page after the last cached one. It reports false
// with a nil error when the stream is exhausted, and ErrPageOutOfOrder when
// the page arrived after the stream was restarted and was not stored.
func (q *InfiniteQuery[T]) FetchNextPage(ctx context.Context) (bool, error) {
	next, ok := q.cache.NextPageParam(q.key)
	if !ok {
		return false, nil
	}
	_, err := q.cache.GetOrFetch(ctx, q.key, next, q.fetcher())
	switch {
	case errors.Is(err, ErrNoMorePages):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

// Refetch marks the key stale and loads the first page again.
func (q *InfiniteQuery[T]) Refetch(ctx context.Context) (*models.Page[T], error) {
	q.cache.Invalidate(q.key)
	return q.Load(ctx)
}

func (q *InfiniteQuery[T]) Pages() []*models.Page[T] {
	s, _ := q.cache.Snapshot(q.key)
	pages := make([]*models.Page[T], 0, len(s.Pages))
	for _, p := range s.Pages {
		if tp, ok := p.(*models.Page[T]); ok {
			pages = append(pages, tp)
		}
	}
	return pages
}

// Items flattens every cached page in order.
func (q *InfiniteQuery[T]) Items() []T {
	var items []T
	for _, p := range q.Pages() {
		items = append(items, p.Data...)
	}
	return items
}

// Total is the server-reported total from the first page, 0 before loading.
func (q *InfiniteQuery[T]) Total() int {
	pages := q.Pages()
	if len(pages) == 0 {
		return 0
	}
	return pages[0].Total
}

func (q *InfiniteQuery[T]) HasNextPage() bool {
	_, ok := q.cache.NextPageParam(q.key)
	return ok
}

func (q *InfiniteQuery[T]) Status() Status {
	s, _ := q.cache.Snapshot(q.key)
	return s.Status
}

func (q *InfiniteQuery[T]) Err() error {
	s, _ := q.cache.Snapshot(q.key)
	return s.Err
}

func (q *InfiniteQuery[T]) IsStale() bool {
	s, _ := q.cache.Snapshot(q.key)
	return s.Stale
}

func (q *InfiniteQuery[T]) IsFetching() bool {
	s, _ := q.cache.Snapshot(q.key)
	return s.Fetching
}
