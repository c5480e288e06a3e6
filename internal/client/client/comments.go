package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/hoagie/internal/client/models"
)

func (c *HTTPClient) ListComments(ctx context.Context, hoagieID string, page, limit int) (*models.Page[models.Comment], error) {
	page, limit = pageParams(page, limit)

	var out models.Page[models.Comment]
	err := c.do(ctx, call{
		op:       "ListComments",
		method:   http.MethodGet,
		path:     "/comments/hoagie/" + segment(hoagieID),
		query:    url.Values{"page": {strconv.Itoa(page)}, "limit": {strconv.Itoa(limit)}},
		fallback: fmt.Sprintf("Failed to fetch comments for hoagie: %s", hoagieID),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateComment(ctx context.Context, in models.CreateCommentInput) (*models.Comment, error) {
	var out models.Comment
	err := c.do(ctx, call{
		op:       "CreateComment",
		method:   http.MethodPost,
		path:     "/comments",
		body:     in,
		fallback: "Failed to create comment",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteComment(ctx context.Context, id, userID string) error {
	return c.do(ctx, call{
		op:       "DeleteComment",
		method:   http.MethodDelete,
		path:     "/comments/" + segment(id) + "/user/" + segment(userID),
		fallback: fmt.Sprintf("Failed to delete comment: %s", id),
	}, nil)
}
