package search

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/hoagie/internal/client/models"
	"github.com/dmitrijs2005/hoagie/internal/client/query"
	"github.com/dmitrijs2005/hoagie/internal/logging"
)

const (
	DefaultDelay     = 500 * time.Millisecond
	DefaultMinLength = 2
	DefaultLimit     = 10
)

// SearchFunc fetches one page of users matching q.
type SearchFunc func(ctx context.Context, q string, page, limit int) (*models.Page[models.User], error)

// Result is one state of the search results view.
type Result struct {
	Query string
	// Prompt is set when Query is too short to search. No request was made.
	Prompt  bool
	Users   []models.User
	Total   int
	HasMore bool
	Err     error
}

type options struct {
	delay   time.Duration
	minLen  int
	limit   int
	exclude []string
	after   AfterFunc
	log     logging.Logger
}

type Option func(*options)

func WithDelay(d time.Duration) Option {
	return func(o *options) { o.delay = d }
}

func WithMinLength(n int) Option {
	return func(o *options) { o.minLen = n }
}

func WithLimit(n int) Option {
	return func(o *options) { o.limit = n }
}

// WithExclude hides the given user IDs from results.
func WithExclude(ids ...string) Option {
	return func(o *options) { o.exclude = append(o.exclude, ids...) }
}

func WithAfterFunc(f AfterFunc) Option {
	return func(o *options) { o.after = f }
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.log = l }
}

// UserSearch drives one search box. Feed it keystrokes with Input and read
// settled states from Results. Results that belong to a query the user has
// already moved away from are dropped.
type UserSearch struct {
	cache   *query.Cache
	search  SearchFunc
	opts    options
	exclude map[string]struct{}
	deb     *Debouncer[string]
	sub     *query.Subscription
	results chan Result

	mu        sync.Mutex
	effective string
	closeOnce sync.Once
}

func NewUserSearch(parent context.Context, cache *query.Cache, search SearchFunc, opts ...Option) *UserSearch {
	o := options{
		delay:  DefaultDelay,
		minLen: DefaultMinLength,
		limit:  DefaultLimit,
		log:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := &UserSearch{
		cache:   cache,
		search:  search,
		opts:    o,
		exclude: make(map[string]struct{}, len(o.exclude)),
		sub:     query.Subscribe(parent),
		results: make(chan Result, 1),
	}
	for _, id := range o.exclude {
		s.exclude[id] = struct{}{}
	}
	s.deb = NewDebouncer(o.delay, s.settle, o.after)
	return s
}

// Input records the raw text of the search box.
func (s *UserSearch) Input(raw string) {
	s.deb.Set(strings.TrimSpace(raw))
}

// Submit settles the pending input without waiting for the delay.
func (s *UserSearch) Submit() {
	s.deb.Flush()
}

// Query is the effective, settled query.
func (s *UserSearch) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.effective
}

func (s *UserSearch) Results() <-chan Result {
	return s.results
}

// LoadMore fetches the next page for the current query and publishes the
// grown result. It reports false when there is nothing more to load.
func (s *UserSearch) LoadMore(ctx context.Context) (bool, error) {
	q := s.Query()
	if !s.searchable(q) {
		return false, nil
	}
	iq := s.query(q)
	more, err := iq.FetchNextPage(ctx)
	if err != nil || !more {
		return more, err
	}
	s.publish(q, iq, nil)
	return true, nil
}

// Close stops the timer and drops any result still on its way.
func (s *UserSearch) Close() {
	s.closeOnce.Do(func() {
		s.deb.Cancel()
		s.sub.Cancel()
		close(s.results)
	})
}

func (s *UserSearch) searchable(q string) bool {
	return utf8.RuneCountInString(q) >= s.opts.minLen
}

func (s *UserSearch) query(q string) *query.InfiniteQuery[models.User] {
	limit := s.opts.limit
	return query.NewInfiniteQuery(s.cache, query.UserSearchKey(q),
		func(ctx context.Context, page int) (*models.Page[models.User], error) {
			return s.search(ctx, q, page, limit)
		})
}

func (s *UserSearch) settle(q string) {
	s.mu.Lock()
	s.effective = q
	s.mu.Unlock()

	if !s.searchable(q) {
		s.emit(Result{Query: q, Prompt: true})
		return
	}
	go s.run(q)
}

func (s *UserSearch) run(q string) {
	ctx := s.sub.Context()
	iq := s.query(q)
	_, err := iq.Load(ctx)
	if err != nil {
		s.opts.log.Debug(ctx, "user search failed", "query", q, "error", err)
	}
	s.publish(q, iq, err)
}

func (s *UserSearch) publish(q string, iq *query.InfiniteQuery[models.User], err error) {
	if q != s.Query() {
		s.opts.log.Debug(s.sub.Context(), "discarding stale search result", "query", q)
		return
	}
	r := Result{Query: q, Err: err, HasMore: err == nil && iq.HasNextPage(), Total: iq.Total()}
	for _, u := range iq.Items() {
		if _, skip := s.exclude[u.ID]; !skip {
			r.Users = append(r.Users, u)
		}
	}
	s.emit(r)
}

// emit replaces any unread result with r.
func (s *UserSearch) emit(r Result) {
	s.sub.Deliver(func() {
		select {
		case <-s.results:
		default:
		}
		s.results <- r
	})
}
