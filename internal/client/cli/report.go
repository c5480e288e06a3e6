package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/hoagie/internal/client/client"
	"github.com/dmitrijs2005/hoagie/internal/client/forms"
	"github.com/dmitrijs2005/hoagie/internal/client/query"
	"github.com/dmitrijs2005/hoagie/internal/client/services"
	"github.com/dmitrijs2005/hoagie/internal/client/session"
)

// userMessage turns err into the text shown to the user.
func userMessage(err error) string {
	var (
		errs   forms.ValidationErrors
		field  *forms.ValidationError
		apiErr *client.APIError
	)
	switch {
	case errors.As(err, &errs) && len(errs) > 0:
		return errs.First().Message
	case errors.As(err, &field):
		return field.Message
	case errors.Is(err, session.ErrNotAuthenticated):
		return "Please log in first"
	case errors.Is(err, query.ErrMutationPending):
		return "Please wait, the previous request is still running"
	case errors.Is(err, services.ErrForbidden):
		return "You are not allowed to do that"
	case errors.As(err, &apiErr):
		return apiErr.Message
	default:
		return err.Error()
	}
}

// readFail reports a failed load. Whatever was cached stays on screen.
func (a *App) readFail(err error) error {
	a.println(fmt.Sprintf("Error: %s (type the command again to retry)", userMessage(err)))
	return err
}

// writeFail reports a failed change. The entered data is kept by the caller.
func (a *App) writeFail(err error) error {
	a.println("Error:", userMessage(err))
	return err
}
