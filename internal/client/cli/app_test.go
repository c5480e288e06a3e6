package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/hoagie/internal/client/client"
	"github.com/dmitrijs2005/hoagie/internal/client/config"
	"github.com/dmitrijs2005/hoagie/internal/client/forms"
	"github.com/dmitrijs2005/hoagie/internal/client/models"
	"github.com/dmitrijs2005/hoagie/internal/client/query"
	"github.com/dmitrijs2005/hoagie/internal/client/services"
	"github.com/dmitrijs2005/hoagie/internal/client/session"
	"github.com/dmitrijs2005/hoagie/internal/logging"
)

var ann = models.User{ID: "u1", Email: "ann@example.com", Name: "Ann"}

// backend serves a small fixed data set over the REST routes the client uses.
type backend struct {
	mu          sync.Mutex
	hoagies     []models.Hoagie
	detailFails atomic.Bool
	createFails atomic.Int32
	creates     atomic.Int32
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *backend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /users/login", func(w http.ResponseWriter, r *http.Request) {
		var in models.UserCredentials
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Email != ann.Email {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "User not found"})
			return
		}
		writeJSON(w, http.StatusOK, ann)
	})

	mux.HandleFunc("GET /hoagies", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		start := min((page-1)*limit, len(b.hoagies))
		end := min(start+limit, len(b.hoagies))
		writeJSON(w, http.StatusOK, models.Page[models.Hoagie]{
			Data: b.hoagies[start:end], Total: len(b.hoagies), Page: page, Limit: limit,
		})
	})

	mux.HandleFunc("GET /hoagies/{id}", func(w http.ResponseWriter, r *http.Request) {
		if b.detailFails.Load() {
			writeJSON(w, http.StatusInternalServerError, map[string]string{})
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, h := range b.hoagies {
			if h.ID == r.PathValue("id") {
				writeJSON(w, http.StatusOK, h)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Hoagie not found"})
	})

	mux.HandleFunc("GET /comments/hoagie/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.Page[models.Comment]{Data: []models.Comment{}, Page: 1, Limit: 2})
	})

	mux.HandleFunc("POST /hoagies", func(w http.ResponseWriter, r *http.Request) {
		n := b.creates.Add(1)
		if n <= b.createFails.Load() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Hoagie name already taken"})
			return
		}
		var in models.CreateHoagieInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		h := models.Hoagie{ID: fmt.Sprintf("h%d", 100+n), Name: in.Name, Ingredients: in.Ingredients, Creator: ann}
		b.mu.Lock()
		b.hoagies = append([]models.Hoagie{h}, b.hoagies...)
		b.mu.Unlock()
		writeJSON(w, http.StatusCreated, h)
	})

	return mux
}

func seedHoagies(n int) []models.Hoagie {
	out := make([]models.Hoagie, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, models.Hoagie{
			ID:          fmt.Sprintf("h%d", i),
			Name:        fmt.Sprintf("Hoagie %d", i),
			Ingredients: []string{"bread"},
			Creator:     ann,
		})
	}
	return out
}

// newTestApp wires an App against srv. in feeds the prompts the commands read.
func newTestApp(t *testing.T, srv *httptest.Server, in string) (*App, *bytes.Buffer) {
	t.Helper()

	cfg := &config.Config{
		APIBaseURL:      srv.URL,
		RequestTimeout:  2 * time.Second,
		PageSize:        2,
		SearchDebounce:  10 * time.Millisecond,
		SearchMinLength: 2,
	}
	log := logging.Discard()
	api := client.NewHTTPClient(cfg.APIBaseURL, cfg.RequestTimeout, client.WithLogger(log))
	cache := query.NewCache()
	sess := session.New(api, nil)
	svc := services.New(services.Deps{
		API:      api,
		Session:  sess,
		Cache:    cache,
		Logger:   log,
		PageSize: cfg.PageSize,
	})

	out := &bytes.Buffer{}
	a := newApp(cfg, log, sess, cache, svc, strings.NewReader(in), out)
	t.Cleanup(a.Close)
	return a, out
}

func signIn(t *testing.T, a *App) {
	t.Helper()
	_, err := a.session.Login(context.Background(), ann.Email)
	require.NoError(t, err)
}

func TestApp_FeedAndMore(t *testing.T) {
	b := &backend{hoagies: seedHoagies(3)}
	srv := httptest.NewServer(b.handler())
	defer srv.Close()

	a, out := newTestApp(t, srv, "")
	signIn(t, a)
	ctx := context.Background()

	require.NoError(t, a.Feed(ctx))
	assert.Contains(t, out.String(), "Hoagie 1")
	assert.Contains(t, out.String(), "Hoagie 2")
	assert.NotContains(t, out.String(), "Hoagie 3")
	assert.Contains(t, out.String(), "Showing 2 of 3 hoagies. Type 'more' to load more.")

	out.Reset()
	require.NoError(t, a.More(ctx))
	assert.Contains(t, out.String(), "  3. h3  Hoagie 3 by Ann (1 ingredient)")
	assert.NotContains(t, out.String(), "Hoagie 1")
	assert.Contains(t, out.String(), "Showing all 3 hoagies.")

	out.Reset()
	require.NoError(t, a.More(ctx))
	assert.Equal(t, "No more hoagies.\n", out.String())
}

func TestApp_MoreAfterCreateStartsFromTop(t *testing.T) {
	b := &backend{hoagies: seedHoagies(4)}
	srv := httptest.NewServer(b.handler())
	defer srv.Close()

	a, out := newTestApp(t, srv, "Club\nham\n\n\n")
	signIn(t, a)
	ctx := context.Background()

	require.NoError(t, a.Feed(ctx))
	require.NoError(t, a.More(ctx))
	assert.Contains(t, out.String(), "Showing all 4 hoagies.")

	require.NoError(t, a.Create(ctx))
	assert.Contains(t, out.String(), "Created Club (h101).")

	out.Reset()
	require.NoError(t, a.More(ctx))
	assert.Contains(t, out.String(), "The list changed; showing it from the start.")
	assert.Contains(t, out.String(), "  1. h101  Club by Ann (1 ingredient)")
	assert.Contains(t, out.String(), "  2. h1  Hoagie 1")
	assert.Contains(t, out.String(), "Showing 2 of 5 hoagies. Type 'more' to load more.")

	out.Reset()
	require.NoError(t, a.More(ctx))
	assert.Contains(t, out.String(), "  3. h2  Hoagie 2")
	assert.NotContains(t, out.String(), "changed")
}

func TestApp_ShowKeepsCachedHoagieWhenRefreshFails(t *testing.T) {
	b := &backend{hoagies: seedHoagies(1)}
	srv := httptest.NewServer(b.handler())
	defer srv.Close()

	a, out := newTestApp(t, srv, "")
	signIn(t, a)
	ctx := context.Background()

	require.NoError(t, a.Show(ctx, "h1"))
	assert.Contains(t, out.String(), "Hoagie 1  [h1]")

	b.detailFails.Store(true)
	out.Reset()
	require.Error(t, a.Refresh(ctx))
	assert.Contains(t, out.String(), "Hoagie 1  [h1]")
	assert.Contains(t, out.String(), "Error: Failed to fetch hoagie with ID: h1 (type the command again to retry)")
}

func TestApp_WhoamiShowsLoginTime(t *testing.T) {
	srv := httptest.NewServer((&backend{}).handler())
	defer srv.Close()

	a, out := newTestApp(t, srv, "")
	signIn(t, a)

	require.NoError(t, a.Whoami(context.Background()))
	assert.Contains(t, out.String(), "Ann <ann@example.com> (u1)")
	assert.Contains(t, out.String(), "Signed in since ")
}

func TestApp_MoreWithoutView(t *testing.T) {
	srv := httptest.NewServer((&backend{}).handler())
	defer srv.Close()

	a, out := newTestApp(t, srv, "")
	require.NoError(t, a.More(context.Background()))
	assert.Contains(t, out.String(), "Nothing to load.")
}

func TestApp_FeedServerDown(t *testing.T) {
	srv := httptest.NewServer((&backend{}).handler())
	a, out := newTestApp(t, srv, "")
	signIn(t, a)
	srv.Close()

	err := a.Feed(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, client.ErrUnavailable))
	assert.Contains(t, out.String(), "Error: Failed to fetch hoagies (type the command again to retry)")
}

func TestApp_CreateKeepsDraftAfterFailure(t *testing.T) {
	b := &backend{}
	b.createFails.Store(1)
	srv := httptest.NewServer(b.handler())
	defer srv.Close()

	input := strings.Join([]string{
		// first attempt
		"Club", "ham", "cheese", "", "",
		// second attempt keeps every value
		"", "", "",
	}, "\n") + "\n"
	a, out := newTestApp(t, srv, input)
	signIn(t, a)
	ctx := context.Background()

	err := a.Create(ctx)
	require.Error(t, err)
	assert.Contains(t, out.String(), "Error: Hoagie name already taken")
	require.NotNil(t, a.hoagieDraft)
	assert.Equal(t, "Club", a.hoagieDraft.Name)
	assert.Equal(t, []string{"ham", "cheese"}, a.hoagieDraft.Ingredients)

	out.Reset()
	require.NoError(t, a.Create(ctx))
	assert.Contains(t, out.String(), "Restoring your previous input")
	assert.Contains(t, out.String(), "Hoagie name [Club]")
	assert.Contains(t, out.String(), "Created Club (h102).")
	assert.Nil(t, a.hoagieDraft)
}

func TestApp_CreateValidationKeepsDraft(t *testing.T) {
	b := &backend{}
	srv := httptest.NewServer(b.handler())
	defer srv.Close()

	a, out := newTestApp(t, srv, "Club\n\n\n")
	signIn(t, a)

	err := a.Create(context.Background())
	require.Error(t, err)
	assert.Contains(t, out.String(), "Error: Please add at least one ingredient")
	assert.Zero(t, b.creates.Load())
	require.NotNil(t, a.hoagieDraft)
	assert.Equal(t, "Club", a.hoagieDraft.Name)
}

func TestApp_LogoutDropsDraftsAndCache(t *testing.T) {
	b := &backend{hoagies: seedHoagies(1)}
	srv := httptest.NewServer(b.handler())
	defer srv.Close()

	a, _ := newTestApp(t, srv, "")
	signIn(t, a)
	ctx := context.Background()

	require.NoError(t, a.Feed(ctx))
	a.hoagieDraft = &forms.HoagieForm{Name: "x"}
	a.commentDrafts["h1"] = "draft"

	require.NoError(t, a.Logout(ctx))
	assert.Nil(t, a.hoagieDraft)
	assert.Empty(t, a.commentDrafts)
	_, ok := a.cache.Snapshot(query.HoagiesKey())
	assert.False(t, ok)
	assert.Equal(t, viewNone, a.view.kind)
}

func TestApp_SwitchViewCancelsPrevious(t *testing.T) {
	srv := httptest.NewServer((&backend{}).handler())
	defer srv.Close()

	a, _ := newTestApp(t, srv, "")
	ctx := context.Background()

	first := a.switchView(ctx, viewFeed, "")
	require.True(t, first.Active())

	second := a.switchView(ctx, viewHoagie, "h1")
	assert.False(t, first.Active())
	assert.True(t, second.Active())
	assert.False(t, first.Deliver(func() { t.Fatal("delivered to a closed view") }))

	assert.Nil(t, a.switchView(ctx, viewNone, ""))
	assert.False(t, second.Active())
}

func TestApp_Prompt(t *testing.T) {
	srv := httptest.NewServer((&backend{}).handler())
	defer srv.Close()

	a, _ := newTestApp(t, srv, "")
	assert.Equal(t, "", a.prompt())

	a.interactive = true
	assert.Equal(t, "hoagie> ", a.prompt())

	signIn(t, a)
	assert.Equal(t, "hoagie (Ann)> ", a.prompt())

	a.switchView(context.Background(), viewFeed, "")
	assert.Equal(t, "hoagie (Ann [feed])> ", a.prompt())
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "validation list",
			err:  forms.ValidationErrors{{Field: "name", Message: "Name is required"}, {Field: "ingredients", Message: "x"}},
			want: "Name is required",
		},
		{name: "single field", err: &forms.ValidationError{Field: "text", Message: "Comment is required"}, want: "Comment is required"},
		{name: "not signed in", err: session.ErrNotAuthenticated, want: "Please log in first"},
		{name: "pending", err: fmt.Errorf("create: %w", query.ErrMutationPending), want: "Please wait, the previous request is still running"},
		{name: "forbidden", err: services.ErrForbidden, want: "You are not allowed to do that"},
		{name: "api", err: fmt.Errorf("wrapped: %w", &client.APIError{Message: "Hoagie not found"}), want: "Hoagie not found"},
		{name: "other", err: errors.New("boom"), want: "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, userMessage(tt.err))
		})
	}
}
