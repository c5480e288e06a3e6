// Package services contains application services for the hoagie client.
// Each service pairs typed cache queries for reading with mutations for
// writing, and knows which cache keys a write makes stale:
//
//   - HoagieService: feed, detail, create, update, delete.
//   - CommentService: per-hoagie comment streams, create, delete.
//   - CollaboratorService: add and remove collaborators, user search.
//
// Writes need a signed-in user and fail with session.ErrNotAuthenticated
// before any request is made.
package services

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/hoagie/internal/client/client"
	"github.com/dmitrijs2005/hoagie/internal/client/models"
	"github.com/dmitrijs2005/hoagie/internal/client/query"
	"github.com/dmitrijs2005/hoagie/internal/client/search"
	"github.com/dmitrijs2005/hoagie/internal/client/storage"
	"github.com/dmitrijs2005/hoagie/internal/logging"
)

var (
	ErrForbidden           = errors.New("you are not allowed to do that")
	ErrAlreadyCollaborator = errors.New("user is already a collaborator")
)

// Identity yields the signed-in user. *session.Session satisfies it.
type Identity interface {
	Require() (*models.User, error)
}

// Deps are the collaborators shared by all services.
type Deps struct {
	API      client.Client
	Session  Identity
	Cache    *query.Cache
	Uploader storage.PictureUploader
	Logger   logging.Logger

	PageSize        int
	SearchDelay     time.Duration
	SearchMinLength int
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	if d.Cache == nil {
		d.Cache = query.NewCache()
	}
	if d.PageSize <= 0 {
		d.PageSize = client.DefaultPageSize
	}
	if d.SearchDelay <= 0 {
		d.SearchDelay = search.DefaultDelay
	}
	if d.SearchMinLength <= 0 {
		d.SearchMinLength = search.DefaultMinLength
	}
	return d
}

// Services bundles every service over one cache.
type Services struct {
	Hoagies       *HoagieService
	Comments      *CommentService
	Collaborators *CollaboratorService
}

func New(d Deps) *Services {
	d = d.withDefaults()
	return &Services{
		Hoagies:       NewHoagieService(d),
		Comments:      NewCommentService(d),
		Collaborators: NewCollaboratorService(d),
	}
}
