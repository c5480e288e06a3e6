// Package session holds the signed-in user. There is no token: the backend
// identifies the acting user by the user ID sent with each write, so a
// session is just the user record, persisted locally between runs.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/hoagie/internal/client/forms"
	"github.com/dmitrijs2005/hoagie/internal/client/models"
	"github.com/dmitrijs2005/hoagie/internal/logging"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// UserAPI is the part of the backend the session talks to.
type UserAPI interface {
	FindOrCreateUser(ctx context.Context, email, name string) (*models.User, error)
	LoginUser(ctx context.Context, email string) (*models.User, error)
}

type Session struct {
	api   UserAPI
	store Store
	log   logging.Logger

	mu        sync.RWMutex
	user      *models.User
	listeners []func(*models.User)
}

type Option func(*Session)

func WithLogger(l logging.Logger) Option {
	return func(s *Session) { s.log = l }
}

func New(api UserAPI, store Store, opts ...Option) *Session {
	if store == nil {
		store = &MemoryStore{}
	}
	s := &Session{api: api, store: store, log: logging.Discard()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Restore loads a previously persisted user, if any.
func (s *Session) Restore(ctx context.Context) error {
	u, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if u == nil {
		return nil
	}
	s.set(u)
	s.log.Info(ctx, "session restored", "user_id", u.ID)
	return nil
}

func (s *Session) Login(ctx context.Context, email string) (*models.User, error) {
	if errs := (forms.AuthForm{Email: email}).Validate(); len(errs) > 0 {
		return nil, errs.First()
	}
	u, err := s.api.LoginUser(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	return s.signIn(ctx, u)
}

// Signup finds or creates the account for email.
func (s *Session) Signup(ctx context.Context, email, name string) (*models.User, error) {
	if errs := (forms.AuthForm{Email: email, Name: name, Signup: true}).Validate(); len(errs) > 0 {
		return nil, errs.First()
	}
	u, err := s.api.FindOrCreateUser(ctx, strings.TrimSpace(email), strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	return s.signIn(ctx, u)
}

func (s *Session) signIn(ctx context.Context, u *models.User) (*models.User, error) {
	if err := s.store.Save(ctx, u); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.set(u)
	s.log.Info(ctx, "signed in", "user_id", u.ID)
	return s.CurrentUser(), nil
}

func (s *Session) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.set(nil)
	s.log.Info(ctx, "signed out")
	return nil
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (s *Session) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

func (s *Session) IsAuthenticated() bool {
	return s.UserID() != ""
}

// SignedInAt reports when the current user signed in, as recorded by the
// store. It survives restarts when the store does.
func (s *Session) SignedInAt(ctx context.Context) (time.Time, bool) {
	if !s.IsAuthenticated() {
		return time.Time{}, false
	}
	t, ok, err := s.store.LoginTime(ctx)
	if err != nil {
		s.log.Warn(ctx, "could not read login time", "error", err)
		return time.Time{}, false
	}
	return t, ok
}

// Require returns the signed-in user or ErrNotAuthenticated.
func (s *Session) Require() (*models.User, error) {
	u := s.CurrentUser()
	if u == nil {
		return nil, ErrNotAuthenticated
	}
	return u, nil
}

// OnChange registers fn to run after every sign-in and sign-out. fn gets nil
// on sign-out.
func (s *Session) OnChange(fn func(*models.User)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Session) set(u *models.User) {
	s.mu.Lock()
	if u != nil {
		cp := *u
		u = &cp
	}
	s.user = u
	listeners := append([]func(*models.User){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		if u == nil {
			fn(nil)
			continue
		}
		cp := *u
		fn(&cp)
	}
}
