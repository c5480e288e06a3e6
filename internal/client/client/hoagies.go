package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/hoagie/internal/client/models"
)

func (c *HTTPClient) ListHoagies(ctx context.Context, page, limit int) (*models.Page[models.Hoagie], error) {
	page, limit = pageParams(page, limit)

	var out models.Page[models.Hoagie]
	err := c.do(ctx, call{
		op:       "ListHoagies",
		method:   http.MethodGet,
		path:     "/hoagies",
		query:    url.Values{"page": {strconv.Itoa(page)}, "limit": {strconv.Itoa(limit)}},
		fallback: "Failed to fetch hoagies",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetHoagie(ctx context.Context, id string) (*models.Hoagie, error) {
	var out models.Hoagie
	err := c.do(ctx, call{
		op:       "GetHoagie",
		method:   http.MethodGet,
		path:     "/hoagies/" + segment(id),
		fallback: fmt.Sprintf("Failed to fetch hoagie with ID: %s", id),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateHoagie(ctx context.Context, in models.CreateHoagieInput) (*models.Hoagie, error) {
	var out models.Hoagie
	err := c.do(ctx, call{
		op:       "CreateHoagie",
		method:   http.MethodPost,
		path:     "/hoagies",
		body:     in,
		fallback: "Failed to create hoagie",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateHoagie(ctx context.Context, id, userID string, in models.UpdateHoagieInput) (*models.Hoagie, error) {
	var out models.Hoagie
	err := c.do(ctx, call{
		op:       "UpdateHoagie",
		method:   http.MethodPatch,
		path:     "/hoagies/" + segment(id) + "/user/" + segment(userID),
		body:     in,
		fallback: fmt.Sprintf("Failed to update hoagie with ID: %s", id),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteHoagie(ctx context.Context, id, userID string) error {
	return c.do(ctx, call{
		op:       "DeleteHoagie",
		method:   http.MethodDelete,
		path:     "/hoagies/" + segment(id) + "/user/" + segment(userID),
		fallback: fmt.Sprintf("Failed to delete hoagie with ID: %s", id),
	}, nil)
}
