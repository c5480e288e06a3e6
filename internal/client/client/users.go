package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/hoagie/internal/client/models"
)

// FindOrCreateUser signs a user up, or returns the existing account for the
// email.
func (c *HTTPClient) FindOrCreateUser(ctx context.Context, email, name string) (*models.User, error) {
	var out models.User
	err := c.do(ctx, call{
		op:       "FindOrCreateUser",
		method:   http.MethodPost,
		path:     "/users",
		body:     models.UserCredentials{Email: email, Name: name},
		fallback: "Failed to sign in/up",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) LoginUser(ctx context.Context, email string) (*models.User, error) {
	var out models.User
	err := c.do(ctx, call{
		op:       "LoginUser",
		method:   http.MethodPost,
		path:     "/users/login",
		body:     models.UserCredentials{Email: email},
		fallback: "Failed to login",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) SearchUsers(ctx context.Context, query string, page, limit int) (*models.Page[models.User], error) {
	page, limit = pageParams(page, limit)

	var out models.Page[models.User]
	err := c.do(ctx, call{
		op:       "SearchUsers",
		method:   http.MethodGet,
		path:     "/users/search",
		query:    url.Values{"q": {query}, "page": {strconv.Itoa(page)}, "limit": {strconv.Itoa(limit)}},
		fallback: "Failed to search users",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
