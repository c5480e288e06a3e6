package client

import (
	"context"

	"github.com/dmitrijs2005/hoagie/internal/client/models"
)

// Page size used when a caller passes a non-positive limit.
const DefaultPageSize = 10

type HoagieAPI interface {
	ListHoagies(ctx context.Context, page, limit int) (*models.Page[models.Hoagie], error)
	GetHoagie(ctx context.Context, id string) (*models.Hoagie, error)
	CreateHoagie(ctx context.Context, in models.CreateHoagieInput) (*models.Hoagie, error)
	UpdateHoagie(ctx context.Context, id, userID string, in models.UpdateHoagieInput) (*models.Hoagie, error)
	DeleteHoagie(ctx context.Context, id, userID string) error
}

// CollaboratorAPI calls return only success; the backend does not send the
// updated collaborator list back.
type CollaboratorAPI interface {
	AddCollaborator(ctx context.Context, hoagieID, collaboratorID, userID string) error
	RemoveCollaborator(ctx context.Context, hoagieID, collaboratorID, userID string) error
}

type CommentAPI interface {
	ListComments(ctx context.Context, hoagieID string, page, limit int) (*models.Page[models.Comment], error)
	CreateComment(ctx context.Context, in models.CreateCommentInput) (*models.Comment, error)
	DeleteComment(ctx context.Context, id, userID string) error
}

type UserAPI interface {
	FindOrCreateUser(ctx context.Context, email, name string) (*models.User, error)
	LoginUser(ctx context.Context, email string) (*models.User, error)
	SearchUsers(ctx context.Context, query string, page, limit int) (*models.Page[models.User], error)
}

// Client is the full backend surface.
type Client interface {
	HoagieAPI
	CollaboratorAPI
	CommentAPI
	UserAPI
}

var _ Client = (*HTTPClient)(nil)

func pageParams(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	return page, limit
}
