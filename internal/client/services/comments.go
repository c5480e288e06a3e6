package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/hoagie/internal/client/client"
	"github.com/dmitrijs2005/hoagie/internal/client/forms"
	"github.com/dmitrijs2005/hoagie/internal/client/models"
	"github.com/dmitrijs2005/hoagie/internal/client/query"
)

type deleteCommentInput struct {
	HoagieID  string
	CommentID string
	UserID    string
}

type CommentService struct {
	api      client.CommentAPI
	ident    Identity
	cache    *query.Cache
	pageSize int

	create *query.Mutation[models.CreateCommentInput, *models.Comment]
	remove *query.Mutation[deleteCommentInput, struct{}]
}

func NewCommentService(d Deps) *CommentService {
	d = d.withDefaults()
	s := &CommentService{
		api:      d.API,
		ident:    d.Session,
		cache:    d.Cache,
		pageSize: d.PageSize,
	}

	// Comment writes only touch the hoagie's comment stream. The detail
	// entry and the feed are left alone.
	s.create = query.NewMutation("create comment", d.Cache,
		func(ctx context.Context, in models.CreateCommentInput) (*models.Comment, error) {
			return s.api.CreateComment(ctx, in)
		},
		query.WithInvalidates(func(in models.CreateCommentInput, _ *models.Comment) []query.Key {
			return []query.Key{query.CommentsKey(in.HoagieID)}
		}),
		query.WithMutationLogger[models.CreateCommentInput, *models.Comment](d.Logger),
	)

	s.remove = query.NewMutation("delete comment", d.Cache,
		func(ctx context.Context, in deleteCommentInput) (struct{}, error) {
			return struct{}{}, s.api.DeleteComment(ctx, in.CommentID, in.UserID)
		},
		query.WithInvalidates(func(in deleteCommentInput, _ struct{}) []query.Key {
			return []query.Key{query.CommentsKey(in.HoagieID)}
		}),
		query.WithMutationLogger[deleteCommentInput, struct{}](d.Logger),
	)

	return s
}

func (s *CommentService) Comments(hoagieID string) *query.InfiniteQuery[models.Comment] {
	return query.NewInfiniteQuery(s.cache, query.CommentsKey(hoagieID),
		func(ctx context.Context, page int) (*models.Page[models.Comment], error) {
			return s.api.ListComments(ctx, hoagieID, page, s.pageSize)
		})
}

// Create posts a comment. On a failed post the caller keeps the text so the
// user can retry.
func (s *CommentService) Create(ctx context.Context, hoagieID, text string) (*models.Comment, error) {
	user, err := s.ident.Require()
	if err != nil {
		return nil, err
	}
	if errs := (forms.CommentForm{Text: text}).Validate(); len(errs) > 0 {
		return nil, errs
	}
	return s.create.Run(ctx, models.CreateCommentInput{
		Text:     strings.TrimSpace(text),
		HoagieID: hoagieID,
		UserID:   user.ID,
	})
}

// Delete removes a comment written by the signed-in user.
func (s *CommentService) Delete(ctx context.Context, hoagieID string, c *models.Comment) error {
	user, err := s.ident.Require()
	if err != nil {
		return err
	}
	if !CanDeleteComment(c, user.ID) {
		return ErrForbidden
	}
	_, err = s.remove.Run(ctx, deleteCommentInput{HoagieID: hoagieID, CommentID: c.ID, UserID: user.ID})
	return err
}

// Deleting reports the comment whose deletion is in flight, so a list can
// mark that row.
func (s *CommentService) Deleting() (string, bool) {
	in, ok := s.remove.Variables()
	return in.CommentID, ok
}

func (s *CommentService) Posting() bool {
	return s.create.Pending()
}

func CanDeleteComment(c *models.Comment, userID string) bool {
	return c != nil && userID != "" && c.User.ID == userID
}
