package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/hoagie/internal/client/query"
	"github.com/dmitrijs2005/hoagie/internal/client/search"
)

// Feed opens the feed view on its first page.
func (a *App) Feed(ctx context.Context) error {
	sub := a.switchView(ctx, viewFeed, "")
	q := a.svc.Hoagies.Feed()

	_, err := q.Load(sub.Context())
	if err == nil || len(q.Items()) > 0 {
		sub.Deliver(func() { a.printHoagies(1) })
	}
	if err != nil {
		return a.readFail(err)
	}
	return nil
}

// Show opens one hoagie with its first page of comments.
func (a *App) Show(ctx context.Context, id string) error {
	sub := a.switchView(ctx, viewHoagie, id)

	detail := a.svc.Hoagies.Detail(id)
	h, err := detail.Get(sub.Context())
	if err != nil {
		if cached, ok := detail.Peek(); ok {
			sub.Deliver(func() { a.printHoagie(cached, a.session.UserID()) })
		}
		return a.readFail(err)
	}
	sub.Deliver(func() { a.printHoagie(h, a.session.UserID()) })

	comments := a.svc.Comments.Comments(id)
	_, err = comments.Load(sub.Context())
	if err == nil || len(comments.Items()) > 0 {
		sub.Deliver(func() {
			a.println("Comments:")
			a.printComments(id, 1)
		})
	}
	if err != nil {
		return a.readFail(err)
	}
	return nil
}

// More loads the next page of whatever list the current view shows.
func (a *App) More(ctx context.Context) error {
	v := a.view
	switch v.kind {
	case viewFeed:
		q := a.svc.Hoagies.Feed()
		from, err := a.nextPage(v.sub, q.IsFetching, q.IsStale, func() int { return len(q.Items()) }, q.FetchNextPage)
		if err != nil || from == 0 {
			return err
		}
		if from < 0 {
			a.println("No more hoagies.")
			return nil
		}
		v.sub.Deliver(func() { a.printHoagies(from) })

	case viewHoagie, viewComments:
		q := a.svc.Comments.Comments(v.id)
		from, err := a.nextPage(v.sub, q.IsFetching, q.IsStale, func() int { return len(q.Items()) }, q.FetchNextPage)
		if err != nil || from == 0 {
			return err
		}
		if from < 0 {
			a.println("No more comments.")
			return nil
		}
		v.sub.Deliver(func() { a.printComments(v.id, from) })

	case viewSearch:
		if v.search == nil {
			break
		}
		more, err := v.search.LoadMore(v.sub.Context())
		if err != nil {
			return a.readFail(err)
		}
		if !more {
			a.println("No more users.")
			return nil
		}
		r, err := a.awaitResult(v.sub.Context(), v.search)
		if err != nil {
			return a.readFail(err)
		}
		a.printResult(r)

	default:
		a.println("Nothing to load. Open a list first (feed, show <id>, comments <id>, search <text>).")
	}
	return nil
}

// Refresh marks the current view's data stale and shows it again.
func (a *App) Refresh(ctx context.Context) error {
	v := a.view
	switch v.kind {
	case viewFeed:
		a.cache.Invalidate(query.HoagiesKey())
		return a.Feed(ctx)
	case viewHoagie:
		a.cache.Invalidate(query.HoagieKey(v.id), query.CommentsKey(v.id))
		return a.Show(ctx, v.id)
	case viewComments:
		a.cache.Invalidate(query.CommentsKey(v.id))
		return a.Comments(ctx, v.id)
	case viewSearch:
		if v.search != nil && v.search.Query() != "" {
			a.cache.InvalidateKind(query.KindUserSearch)
			r, err := a.submitSearch(v.sub.Context(), v.search, v.search.Query())
			if err != nil {
				return a.readFail(err)
			}
			a.printResult(r)
			return nil
		}
	}
	a.println("Nothing to refresh.")
	return nil
}

// nextPage runs one "load more" on a paginated list and returns the 1-based
// position to print from: -1 when the list is exhausted, 0 when nothing
// should be printed. A list invalidated since it was shown restarts at its
// first page, so it is printed from the top.
func (a *App) nextPage(sub *query.Subscription, fetching, stale func() bool, count func() int,
	fetch func(context.Context) (bool, error)) (int, error) {
	if fetching() {
		a.println("Still loading, please wait.")
		return 0, nil
	}
	restart := stale()
	before := count()

	more, err := fetch(sub.Context())
	switch {
	case errors.Is(err, query.ErrPageOutOfOrder):
		a.println("The list changed while loading; showing it from the start.")
		return 1, nil
	case err != nil:
		return 0, a.readFail(err)
	case !more:
		return -1, nil
	case restart || count() <= before:
		a.println("The list changed; showing it from the start.")
		return 1, nil
	}
	return before + 1, nil
}

// printHoagies prints cached feed items from position from (1-based).
func (a *App) printHoagies(from int) {
	q := a.svc.Hoagies.Feed()
	items := q.Items()
	for i := from - 1; i < len(items); i++ {
		a.printHoagieLine(i+1, items[i])
	}
	a.printFooter("hoagies", len(items), q.Total(), q.HasNextPage())
}

func (a *App) printComments(hoagieID string, from int) {
	q := a.svc.Comments.Comments(hoagieID)
	items := q.Items()
	uid := a.session.UserID()
	for i := from - 1; i < len(items); i++ {
		a.printComment(i+1, items[i], uid)
	}
	a.printFooter("comments", len(items), q.Total(), q.HasNextPage())
}

var errSearchTimeout = errors.New("search timed out")

// awaitResult waits for the next settled state of s.
func (a *App) awaitResult(ctx context.Context, s *search.UserSearch) (search.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout+a.config.SearchDebounce)
	defer cancel()

	select {
	case r, ok := <-s.Results():
		if !ok {
			return search.Result{}, context.Canceled
		}
		return r, nil
	case <-ctx.Done():
		return search.Result{}, errSearchTimeout
	}
}
