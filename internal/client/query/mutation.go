package query

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/hoagie/internal/logging"
)

var ErrMutationPending = errors.New("mutation already in progress")

type MutationStatus int

const (
	MutationIdle MutationStatus = iota
	MutationPending
	MutationSuccess
	MutationError
)

func (s MutationStatus) String() string {
	switch s {
	case MutationPending:
		return "pending"
	case MutationSuccess:
		return "success"
	case MutationError:
		return "error"
	default:
		return "idle"
	}
}

// Mutation runs one kind of server write and, on success, invalidates the
// cache keys the write affects. Only one run may be pending at a time.
type Mutation[In, Out any] struct {
	name        string
	cache       *Cache
	fn          func(ctx context.Context, in In) (Out, error)
	invalidates func(in In, out Out) []Key
	onSuccess   []func(in In, out Out)
	onError     []func(in In, err error)
	log         logging.Logger

	mu        sync.Mutex
	status    MutationStatus
	variables In
	err       error
}

type MutationOption[In, Out any] func(*Mutation[In, Out])

// WithInvalidates sets the keys to mark stale after a successful run.
func WithInvalidates[In, Out any](fn func(in In, out Out) []Key) MutationOption[In, Out] {
	return func(m *Mutation[In, Out]) { m.invalidates = fn }
}

// OnSuccess adds a hook that runs after invalidation.
func OnSuccess[In, Out any](fn func(in In, out Out)) MutationOption[In, Out] {
	return func(m *Mutation[In, Out]) { m.onSuccess = append(m.onSuccess, fn) }
}

func OnError[In, Out any](fn func(in In, err error)) MutationOption[In, Out] {
	return func(m *Mutation[In, Out]) { m.onError = append(m.onError, fn) }
}

func WithMutationLogger[In, Out any](l logging.Logger) MutationOption[In, Out] {
	return func(m *Mutation[In, Out]) { m.log = l }
}

func NewMutation[In, Out any](name string, c *Cache, fn func(ctx context.Context, in In) (Out, error), opts ...MutationOption[In, Out]) *Mutation[In, Out] {
	m := &Mutation[In, Out]{
		name:  name,
		cache: c,
		fn:    fn,
		log:   logging.Discard(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Run performs the write. A run started while another is pending fails with
// ErrMutationPending and does not reach the server.
func (m *Mutation[In, Out]) Run(ctx context.Context, in In) (Out, error) {
	var zero Out

	m.mu.Lock()
	if m.status == MutationPending {
		m.mu.Unlock()
		return zero, ErrMutationPending
	}
	m.status = MutationPending
	m.variables = in
	m.err = nil
	m.mu.Unlock()

	log := m.log.With("mutation", m.name, "mutation_id", uuid.NewString())
	log.Debug(ctx, "mutation started")

	out, err := m.fn(ctx, in)
	if err != nil {
		m.mu.Lock()
		m.status = MutationError
		m.err = err
		m.mu.Unlock()

		log.Warn(ctx, "mutation failed", "error", err)
		for _, h := range m.onError {
			h(in, err)
		}
		return zero, err
	}

	if m.invalidates != nil && m.cache != nil {
		keys := m.invalidates(in, out)
		m.cache.Invalidate(keys...)
		log.Debug(ctx, "mutation invalidated keys", "count", len(keys))
	}

	m.mu.Lock()
	m.status = MutationSuccess
	m.mu.Unlock()

	for _, h := range m.onSuccess {
		h(in, out)
	}
	return out, nil
}

func (m *Mutation[In, Out]) Status() MutationStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *Mutation[In, Out]) Pending() bool {
	return m.Status() == MutationPending
}

// Variables returns the input of the pending run.
func (m *Mutation[In, Out]) Variables() (In, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status != MutationPending {
		var zero In
		return zero, false
	}
	return m.variables, true
}

func (m *Mutation[In, Out]) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Reset returns an idle mutation to its initial state. A pending run is
// left alone.
func (m *Mutation[In, Out]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status == MutationPending {
		return
	}
	var zero In
	m.status = MutationIdle
	m.variables = zero
	m.err = nil
}
