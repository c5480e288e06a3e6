package query

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/hoagie/internal/client/models"
	"github.com/dmitrijs2005/hoagie/internal/logging"
)

// FirstPage is the page parameter every paginated stream starts from.
const FirstPage = 1

var (
	ErrNoMorePages    = errors.New("no more pages")
	ErrPageOutOfOrder = errors.New("page requested out of order")
	ErrNilPage        = errors.New("fetch returned no page")
)

// Paged is a fetched page of any element type. *models.Page[T] satisfies it.
type Paged interface {
	Info() models.PageInfo
}

// PageFetcher loads one page of a key's stream.
type PageFetcher func(ctx context.Context, page int) (Paged, error)

// ValueFetcher loads the single value cached under a key.
type ValueFetcher func(ctx context.Context) (any, error)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// GetNextPageParam is the pagination rule shared by every stream: page+1
// while page*limit < total, nothing otherwise.
func GetNextPageParam(info models.PageInfo) (int, bool) {
	return info.NextPageParam()
}

type entry struct {
	// seq identifies this entry across Clear and Reset.
	seq       uint64
	pages     []Paged
	value     any
	hasValue  bool
	status    Status
	err       error
	stale     bool
	gen       uint64
	dataGen   uint64 // gen the stored data was fetched under
	epoch     uint64
	inflight  int
	updatedAt time.Time
}

// Snapshot is a point-in-time copy of one cache entry.
type Snapshot struct {
	Pages     []Paged
	Value     any
	HasValue  bool
	Status    Status
	Err       error
	Stale     bool
	Fetching  bool
	UpdatedAt time.Time
}

// Cache holds server data per Key. It is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
	seq     uint64
	group   singleflight.Group
	log     logging.Logger
}

type Option func(*Cache)

func WithLogger(l logging.Logger) Option {
	return func(c *Cache) { c.log = l }
}

func NewCache(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[Key]*entry),
		log:     logging.Discard(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// entry returns the entry for key, creating it. Caller holds c.mu.
func (c *Cache) entry(key Key) *entry {
	e, ok := c.entries[key]
	if !ok {
		c.seq++
		e = &entry{seq: c.seq}
		c.entries[key] = e
	}
	return e
}

// flightKey names one fetch for singleflight. It changes whenever the entry
// is invalidated or replaced, so a read issued after that never joins a
// fetch that started before it. Caller holds c.mu.
func flightKey(key Key, e *entry, what string) string {
	return key.id() + "#" + strconv.FormatUint(e.seq, 10) + "." + strconv.FormatUint(e.gen, 10) + "#" + what
}

// settle derives the status after a fetch that did not fail.
func (e *entry) settle() {
	switch {
	case e.inflight > 0:
		e.status = StatusLoading
	case e.err != nil:
		e.status = StatusError
	default:
		e.status = StatusIdle
	}
}

// GetOrFetch returns page pageParam of key.
//
// A cached, fresh page is returned without a request. A missing or stale key
// is refetched from FirstPage whatever pageParam was asked for, and that page
// is returned. Otherwise pageParam must be the next page after the last
// cached one.
func (c *Cache) GetOrFetch(ctx context.Context, key Key, pageParam int, fetch PageFetcher) (Paged, error) {
	if pageParam < FirstPage {
		pageParam = FirstPage
	}

	c.mu.Lock()
	e := c.entry(key)
	if len(e.pages) == 0 || e.stale {
		pageParam = FirstPage
	} else if pageParam <= len(e.pages) {
		p := e.pages[pageParam-1]
		c.mu.Unlock()
		return p, nil
	} else {
		next, ok := GetNextPageParam(e.pages[len(e.pages)-1].Info())
		if !ok {
			c.mu.Unlock()
			return nil, ErrNoMorePages
		}
		if pageParam != next {
			c.mu.Unlock()
			return nil, ErrPageOutOfOrder
		}
	}
	page := pageParam
	sfKey := flightKey(key, e, strconv.Itoa(page))
	c.mu.Unlock()

	v, err := c.flight(ctx, key, sfKey,
		func(fctx context.Context) (any, error) {
			p, err := fetch(fctx, page)
			if err == nil && p == nil {
				err = ErrNilPage
			}
			return p, err
		},
		func(e *entry, v any, gen, epoch uint64) error {
			p := v.(Paged)
			if page == FirstPage {
				if gen < e.dataGen {
					c.log.Debug(context.Background(), "discarding superseded page", "key", key.String())
					return nil
				}
				e.pages = []Paged{p}
				e.dataGen = gen
				e.epoch++
				if e.gen == gen {
					e.stale = false
				}
				return nil
			}
			if e.epoch != epoch || len(e.pages) != page-1 {
				c.log.Debug(context.Background(), "discarding out-of-sequence page",
					"key", key.String(), "page", page, "have", len(e.pages))
				return ErrPageOutOfOrder
			}
			e.pages = append(e.pages, p)
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return v.(Paged), nil
}

// Load returns the single value cached under key, fetching it when missing
// or stale.
func (c *Cache) Load(ctx context.Context, key Key, fetch ValueFetcher) (any, error) {
	c.mu.Lock()
	e := c.entry(key)
	if e.hasValue && !e.stale {
		v := e.value
		c.mu.Unlock()
		return v, nil
	}
	sfKey := flightKey(key, e, "value")
	c.mu.Unlock()

	return c.flight(ctx, key, sfKey, fetch,
		func(e *entry, v any, gen, _ uint64) error {
			if gen < e.dataGen {
				c.log.Debug(context.Background(), "discarding superseded value", "key", key.String())
				return nil
			}
			e.value = v
			e.hasValue = true
			e.dataGen = gen
			if e.gen == gen {
				e.stale = false
			}
			return nil
		},
	)
}

// Set stores v as the single value of key and marks it fresh.
func (c *Cache) Set(key Key, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entry(key)
	e.value = v
	e.hasValue = true
	e.dataGen = e.gen
	e.stale = false
	e.err = nil
	e.updatedAt = time.Now()
}

// applyFunc stores a fetched value in e. An error means nothing was stored.
type applyFunc func(e *entry, v any, gen, epoch uint64) error

// flight runs fetch once per sfKey no matter how many callers ask, stores
// the result through apply, and hands it to every waiting caller.
func (c *Cache) flight(ctx context.Context, key Key, sfKey string, fetch ValueFetcher, apply applyFunc) (any, error) {
	fctx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(sfKey, func() (any, error) {
		return c.run(fctx, key, fetch, apply)
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.log.Debug(ctx, "fetch coalesced", "key", key.String())
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) run(ctx context.Context, key Key, fetch ValueFetcher, apply applyFunc) (any, error) {
	c.mu.Lock()
	e := c.entry(key)
	gen, epoch := e.gen, e.epoch
	e.inflight++
	e.status = StatusLoading
	c.mu.Unlock()

	c.log.Debug(ctx, "fetch started", "key", key.String())
	v, err := fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	e.inflight--
	if cur := c.entries[key]; cur != e {
		c.log.Debug(ctx, "fetch result dropped, entry cleared", "key", key.String())
		if err != nil {
			return nil, err
		}
		return v, nil
	}

	if err != nil {
		e.err = err
		e.status = StatusError
		c.log.Debug(ctx, "fetch failed", "key", key.String(), "error", err)
		return nil, err
	}

	if err := apply(e, v, gen, epoch); err != nil {
		e.settle()
		return nil, err
	}
	e.err = nil
	e.updatedAt = time.Now()
	e.settle()
	return v, nil
}

// Invalidate marks keys stale. Cached data stays readable until the next
// read refetches from the first page.
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, k := range keys {
		c.invalidate(k)
	}
}

// InvalidateKind marks every key of the given kind stale.
func (c *Cache) InvalidateKind(kind string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k := range c.entries {
		if k.Kind == kind {
			c.invalidate(k)
		}
	}
}

func (c *Cache) invalidate(k Key) {
	e, ok := c.entries[k]
	if !ok {
		return
	}
	e.stale = true
	e.gen++
	c.log.Debug(context.Background(), "key invalidated", "key", k.String())
}

// Clear drops keys entirely. Fetches still in flight for them are not stored.
func (c *Cache) Clear(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, k := range keys {
		delete(c.entries, k)
	}
}

// Reset drops every entry.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[Key]*entry)
}

// Snapshot copies the entry for key. ok is false when nothing is cached.
func (c *Cache) Snapshot(key Key) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Snapshot{}, false
	}
	return Snapshot{
		Pages:     append([]Paged(nil), e.pages...),
		Value:     e.value,
		HasValue:  e.hasValue,
		Status:    e.status,
		Err:       e.err,
		Stale:     e.stale,
		Fetching:  e.inflight > 0,
		UpdatedAt: e.updatedAt,
	}, true
}

// NextPageParam reports which page a "load more" for key should request.
// Empty and stale keys start over at FirstPage.
func (c *Cache) NextPageParam(key Key) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || len(e.pages) == 0 || e.stale {
		return FirstPage, true
	}
	return GetNextPageParam(e.pages[len(e.pages)-1].Info())
}
