package cli

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/hoagie/internal/client/models"
	"github.com/dmitrijs2005/hoagie/internal/client/search"
)

// Search opens a user search view for text.
func (a *App) Search(ctx context.Context, text string) error {
	sub := a.switchView(ctx, viewSearch, "")
	us, err := a.svc.Collaborators.Search(sub.Context(), &models.Hoagie{})
	if err != nil {
		return a.writeFail(err)
	}
	a.view.search = us

	r, err := a.submitSearch(sub.Context(), us, text)
	if err != nil {
		return a.readFail(err)
	}
	a.printResult(r)
	return nil
}

// AddCollaborator lets the creator pick a user from a search and adds them.
func (a *App) AddCollaborator(ctx context.Context, hoagieID string) error {
	h, err := a.svc.Hoagies.Detail(hoagieID).Get(ctx)
	if err != nil {
		return a.readFail(err)
	}
	if !h.IsCreator(a.session.UserID()) {
		a.println("Only the creator can manage collaborators.")
		return nil
	}

	sub := a.switchView(ctx, viewSearch, hoagieID)
	us, err := a.svc.Collaborators.Search(sub.Context(), h)
	if err != nil {
		return a.writeFail(err)
	}
	a.view.search = us

	for {
		text, err := GetSimpleText(a.reader, "Search users by name or email (empty to cancel)", a.out)
		if err != nil || text == "" {
			return err
		}
		r, err := a.submitSearch(sub.Context(), us, text)
		if err != nil {
			a.readFail(err)
			continue
		}

		for {
			a.printResult(r)
			if r.Prompt || r.Err != nil || len(r.Users) == 0 {
				break
			}
			choice, err := GetSimpleText(a.reader, "Pick a number, 'more', or Enter to search again", a.out)
			if err != nil {
				return err
			}
			if choice == "" {
				break
			}
			if choice == "more" {
				more, err := us.LoadMore(sub.Context())
				if err != nil {
					a.readFail(err)
					continue
				}
				if !more {
					a.println("No more users.")
					continue
				}
				if r, err = a.awaitResult(sub.Context(), us); err != nil {
					return a.readFail(err)
				}
				continue
			}

			n, err := strconv.Atoi(choice)
			if err != nil || n < 1 || n > len(r.Users) {
				a.println("Please pick a number from the list.")
				continue
			}
			u := r.Users[n-1]
			if err := a.svc.Collaborators.Add(ctx, h, u.ID); err != nil {
				return a.writeFail(err)
			}
			a.switchView(ctx, viewNone, "")
			a.printf("Added %s as a collaborator.\n", u.DisplayName())
			return nil
		}
	}
}

func (a *App) RemoveCollaborator(ctx context.Context, hoagieID, userID string) error {
	h, err := a.svc.Hoagies.Detail(hoagieID).Get(ctx)
	if err != nil {
		return a.readFail(err)
	}
	if err := a.svc.Collaborators.Remove(ctx, h, userID); err != nil {
		return a.writeFail(err)
	}
	a.println("Collaborator removed.")
	return nil
}

// submitSearch settles text right away instead of waiting out the debounce,
// since a line of input is already a finished query.
func (a *App) submitSearch(ctx context.Context, us *search.UserSearch, text string) (search.Result, error) {
	us.Input(text)
	us.Submit()
	return a.awaitResult(ctx, us)
}

func (a *App) printResult(r search.Result) {
	switch {
	case r.Prompt:
		a.printf("Type at least %d characters to search.\n", a.config.SearchMinLength)
	case r.Err != nil:
		a.println("Error:", userMessage(r.Err))
	case len(r.Users) == 0:
		a.printf("No users found for %q.\n", r.Query)
	default:
		for i, u := range r.Users {
			a.printUser(i+1, u)
		}
		if r.HasMore {
			a.println("More users available. Type 'more' to load them.")
		}
	}
}
