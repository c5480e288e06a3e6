package query

import "context"

// Query is a typed view over a single-value key, e.g. one hoagie's detail.
type Query[T any] struct {
	cache *Cache
	key   Key
	fetch func(ctx context.Context) (*T, error)
}

func NewQuery[T any](c *Cache, key Key, fetch func(ctx context.Context) (*T, error)) *Query[T] {
	return &Query[T]{cache: c, key: key, fetch: fetch}
}

func (q *Query[T]) Key() Key {
	return q.key
}

// Get returns the cached value, fetching it when missing or stale.
func (q *Query[T]) Get(ctx context.Context) (*T, error) {
	v, err := q.cache.Load(ctx, q.key, func(ctx context.Context) (any, error) {
		t, err := q.fetch(ctx)
		if err != nil {
			return nil, err
		}
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	t, _ := v.(*T)
	return t, nil
}

func (q *Query[T]) Refetch(ctx context.Context) (*T, error) {
	q.cache.Invalidate(q.key)
	return q.Get(ctx)
}

// Peek returns whatever is cached without fetching, stale or not.
func (q *Query[T]) Peek() (*T, bool) {
	s, ok := q.cache.Snapshot(q.key)
	if !ok || !s.HasValue {
		return nil, false
	}
	t, ok := s.Value.(*T)
	return t, ok
}

func (q *Query[T]) Status() Status {
	s, _ := q.cache.Snapshot(q.key)
	return s.Status
}

func (q *Query[T]) Err() error {
	s, _ := q.cache.Snapshot(q.key)
	return s.Err
}
