package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/hoagie/internal/client/client"
	"github.com/dmitrijs2005/hoagie/internal/client/config"
	"github.com/dmitrijs2005/hoagie/internal/client/forms"
	"github.com/dmitrijs2005/hoagie/internal/client/models"
	"github.com/dmitrijs2005/hoagie/internal/client/query"
	"github.com/dmitrijs2005/hoagie/internal/client/search"
	"github.com/dmitrijs2005/hoagie/internal/client/services"
	"github.com/dmitrijs2005/hoagie/internal/client/session"
	"github.com/dmitrijs2005/hoagie/internal/client/storage"
	"github.com/dmitrijs2005/hoagie/internal/logging"
)

type viewKind string

const (
	viewNone     viewKind = ""
	viewFeed     viewKind = "feed"
	viewHoagie   viewKind = "hoagie"
	viewComments viewKind = "comments"
	viewSearch   viewKind = "search"
)

// view is what the user is looking at. Its subscription ends when another
// view replaces it.
type view struct {
	kind   viewKind
	id     string
	sub    *query.Subscription
	search *search.UserSearch
}

func (v *view) close() {
	if v.search != nil {
		v.search.Close()
	}
	v.sub.Cancel()
}

type App struct {
	config  *config.Config
	log     logging.Logger
	session *session.Session
	cache   *query.Cache
	svc     *services.Services
	db      *sql.DB
	reader  *bufio.Reader
	out     io.Writer

	interactive bool
	view        view

	// Inputs of failed writes, offered again on the next attempt.
	hoagieDraft   *forms.HoagieForm
	commentDrafts map[string]string
}

// NewApp opens the local database, restores the session and builds the
// service graph.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	api := client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout, client.WithLogger(log))
	cache := query.NewCache(query.WithLogger(log))

	sess := session.New(api, session.NewMetadataStore(db), session.WithLogger(log))
	if err := sess.Restore(ctx); err != nil {
		log.Warn(ctx, "could not restore session", "error", err)
	}

	var uploader storage.PictureUploader
	if c.Storage.Enabled() {
		up, err := storage.NewS3Uploader(ctx, c.Storage)
		if err != nil {
			log.Warn(ctx, "picture uploads disabled", "error", err)
		} else {
			uploader = up
		}
	}

	svc := services.New(services.Deps{
		API:             api,
		Session:         sess,
		Cache:           cache,
		Uploader:        uploader,
		Logger:          log,
		PageSize:        c.PageSize,
		SearchDelay:     c.SearchDebounce,
		SearchMinLength: c.SearchMinLength,
	})

	a := newApp(c, log, sess, cache, svc, os.Stdin, os.Stdout)
	a.db = db
	a.interactive = isTerminal()
	return a, nil
}

func newApp(c *config.Config, log logging.Logger, sess *session.Session, cache *query.Cache,
	svc *services.Services, in io.Reader, out io.Writer) *App {
	a := &App{
		config:        c,
		log:           log,
		session:       sess,
		cache:         cache,
		svc:           svc,
		reader:        bufio.NewReader(in),
		out:           out,
		commentDrafts: make(map[string]string),
	}
	// A different user must never see the previous user's cached data.
	sess.OnChange(func(*models.User) {
		cache.Reset()
		a.hoagieDraft = nil
		clear(a.commentDrafts)
	})
	return a
}

// Run blocks in the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if a.interactive {
		fmt.Fprintln(a.out, "Welcome to Hoagie CLI (type 'help' for commands)")
	}
	if u := a.session.CurrentUser(); u != nil {
		fmt.Fprintf(a.out, "Signed in as %s\n", u.DisplayName())
	}
	runREPL(ctx, a, a.prompt, bufio.NewScanner(a.reader))
}

// Close ends the current view and releases the database.
func (a *App) Close() {
	a.switchView(context.Background(), viewNone, "")
	if a.db != nil {
		_ = a.db.Close()
		a.db = nil
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) prompt() string {
	if !a.interactive {
		return ""
	}
	s := ""
	if u := a.session.CurrentUser(); u != nil {
		s = u.DisplayName()
	}
	if a.view.kind != viewNone {
		s += " [" + string(a.view.kind) + "]"
	}
	if s != "" {
		return fmt.Sprintf("hoagie (%s)> ", s)
	}
	return "hoagie> "
}

// switchView cancels the current view and starts a new one.
func (a *App) switchView(ctx context.Context, kind viewKind, id string) *query.Subscription {
	a.view.close()
	a.view = view{kind: kind, id: id}
	if kind == viewNone {
		return nil
	}
	a.view.sub = query.Subscribe(ctx)
	return a.view.sub
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
