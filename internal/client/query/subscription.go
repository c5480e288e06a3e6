package query

import (
	"context"
	"sync"
)

// Subscription ties the delivery of async results to a consumer's lifetime.
// Once cancelled, Deliver never runs its callback again, and in-flight
// requests started with Context see cancellation.
type Subscription struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

func Subscribe(parent context.Context) *Subscription {
	ctx, cancel := context.WithCancel(parent)
	return &Subscription{ctx: ctx, cancel: cancel}
}

func (s *Subscription) Context() context.Context {
	if s == nil {
		return context.Background()
	}
	return s.ctx
}

// Cancel ends the subscription. After it returns no Deliver callback runs.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel()
}

func (s *Subscription) Active() bool {
	if s == nil {
		return true
	}
	return s.ctx.Err() == nil
}

// Deliver runs fn if the subscription is still active and reports whether
// it ran. fn must not call Cancel.
func (s *Subscription) Deliver(fn func()) bool {
	if s == nil {
		fn()
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return false
	}
	fn()
	return true
}
