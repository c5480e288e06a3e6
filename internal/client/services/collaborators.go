package services

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/hoagie/internal/client/client"
	"github.com/dmitrijs2005/hoagie/internal/client/models"
	"github.com/dmitrijs2005/hoagie/internal/client/query"
	"github.com/dmitrijs2005/hoagie/internal/client/search"
	"github.com/dmitrijs2005/hoagie/internal/logging"
)

type collaboratorInput struct {
	HoagieID       string
	CollaboratorID string
	UserID         string
}

// CollaboratorService manages who may edit a hoagie. The backend answers
// add and remove with success only, so the hoagie detail is refetched
// afterwards instead of being patched locally.
type CollaboratorService struct {
	api      client.CollaboratorAPI
	users    client.UserAPI
	ident    Identity
	cache    *query.Cache
	log      logging.Logger
	delay    search.Option
	minLen   search.Option
	pageSize int

	add    *query.Mutation[collaboratorInput, struct{}]
	remove *query.Mutation[collaboratorInput, struct{}]
}

func NewCollaboratorService(d Deps) *CollaboratorService {
	d = d.withDefaults()
	s := &CollaboratorService{
		api:      d.API,
		users:    d.API,
		ident:    d.Session,
		cache:    d.Cache,
		log:      d.Logger,
		delay:    search.WithDelay(d.SearchDelay),
		minLen:   search.WithMinLength(d.SearchMinLength),
		pageSize: d.PageSize,
	}

	invalidate := query.WithInvalidates(func(in collaboratorInput, _ struct{}) []query.Key {
		return []query.Key{query.HoagieKey(in.HoagieID)}
	})

	s.add = query.NewMutation("add collaborator", d.Cache,
		func(ctx context.Context, in collaboratorInput) (struct{}, error) {
			return struct{}{}, s.api.AddCollaborator(ctx, in.HoagieID, in.CollaboratorID, in.UserID)
		},
		invalidate,
		query.WithMutationLogger[collaboratorInput, struct{}](d.Logger),
	)

	s.remove = query.NewMutation("remove collaborator", d.Cache,
		func(ctx context.Context, in collaboratorInput) (struct{}, error) {
			return struct{}{}, s.api.RemoveCollaborator(ctx, in.HoagieID, in.CollaboratorID, in.UserID)
		},
		invalidate,
		query.WithMutationLogger[collaboratorInput, struct{}](d.Logger),
	)

	return s
}

// Add makes collaboratorID a collaborator of h. Only the creator may add.
func (s *CollaboratorService) Add(ctx context.Context, h *models.Hoagie, collaboratorID string) error {
	user, err := s.ident.Require()
	if err != nil {
		return err
	}
	if !h.IsCreator(user.ID) {
		return ErrForbidden
	}
	if slices.Contains(h.ExcludedCollaboratorIDs(user.ID), collaboratorID) {
		return ErrAlreadyCollaborator
	}
	_, err = s.add.Run(ctx, collaboratorInput{HoagieID: h.ID, CollaboratorID: collaboratorID, UserID: user.ID})
	return err
}

// Remove drops collaboratorID from h. Only the creator may remove.
func (s *CollaboratorService) Remove(ctx context.Context, h *models.Hoagie, collaboratorID string) error {
	user, err := s.ident.Require()
	if err != nil {
		return err
	}
	if !h.IsCreator(user.ID) {
		return ErrForbidden
	}
	_, err = s.remove.Run(ctx, collaboratorInput{HoagieID: h.ID, CollaboratorID: collaboratorID, UserID: user.ID})
	return err
}

// Removing reports the collaborator whose removal is in flight.
func (s *CollaboratorService) Removing() (string, bool) {
	in, ok := s.remove.Variables()
	return in.CollaboratorID, ok
}

// Search opens a user search for h that hides the signed-in user and
// everyone already collaborating. Close it when the picker goes away.
func (s *CollaboratorService) Search(parent context.Context, h *models.Hoagie, opts ...search.Option) (*search.UserSearch, error) {
	user, err := s.ident.Require()
	if err != nil {
		return nil, err
	}
	base := []search.Option{
		s.delay,
		s.minLen,
		search.WithLimit(s.pageSize),
		search.WithExclude(h.ExcludedCollaboratorIDs(user.ID)...),
		search.WithLogger(s.log),
	}
	return search.NewUserSearch(parent, s.cache, s.users.SearchUsers, append(base, opts...)...), nil
}
