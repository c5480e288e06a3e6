package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/hoagie/internal/client/client"
	"github.com/dmitrijs2005/hoagie/internal/client/forms"
	"github.com/dmitrijs2005/hoagie/internal/client/models"
	"github.com/dmitrijs2005/hoagie/internal/client/query"
	"github.com/dmitrijs2005/hoagie/internal/client/storage"
	"github.com/dmitrijs2005/hoagie/internal/logging"
)

type updateInput struct {
	ID     string
	UserID string
	Body   models.UpdateHoagieInput
}

type deleteInput struct {
	ID     string
	UserID string
}

type HoagieService struct {
	api      client.HoagieAPI
	ident    Identity
	cache    *query.Cache
	uploader storage.PictureUploader
	log      logging.Logger
	pageSize int

	create *query.Mutation[models.CreateHoagieInput, *models.Hoagie]
	update *query.Mutation[updateInput, *models.Hoagie]
	remove *query.Mutation[deleteInput, struct{}]
}

func NewHoagieService(d Deps) *HoagieService {
	d = d.withDefaults()
	s := &HoagieService{
		api:      d.API,
		ident:    d.Session,
		cache:    d.Cache,
		uploader: d.Uploader,
		log:      d.Logger,
		pageSize: d.PageSize,
	}

	s.create = query.NewMutation("create hoagie", d.Cache,
		func(ctx context.Context, in models.CreateHoagieInput) (*models.Hoagie, error) {
			return s.api.CreateHoagie(ctx, in)
		},
		query.WithInvalidates(func(models.CreateHoagieInput, *models.Hoagie) []query.Key {
			return []query.Key{query.HoagiesKey()}
		}),
		query.WithMutationLogger[models.CreateHoagieInput, *models.Hoagie](d.Logger),
	)

	s.update = query.NewMutation("update hoagie", d.Cache,
		func(ctx context.Context, in updateInput) (*models.Hoagie, error) {
			return s.api.UpdateHoagie(ctx, in.ID, in.UserID, in.Body)
		},
		query.WithInvalidates(func(in updateInput, _ *models.Hoagie) []query.Key {
			return []query.Key{query.HoagieKey(in.ID), query.HoagiesKey()}
		}),
		query.WithMutationLogger[updateInput, *models.Hoagie](d.Logger),
	)

	s.remove = query.NewMutation("delete hoagie", d.Cache,
		func(ctx context.Context, in deleteInput) (struct{}, error) {
			return struct{}{}, s.api.DeleteHoagie(ctx, in.ID, in.UserID)
		},
		query.WithInvalidates(func(deleteInput, struct{}) []query.Key {
			return []query.Key{query.HoagiesKey()}
		}),
		query.OnSuccess(func(in deleteInput, _ struct{}) {
			s.cache.Clear(query.HoagieKey(in.ID), query.CommentsKey(in.ID))
		}),
		query.WithMutationLogger[deleteInput, struct{}](d.Logger),
	)

	return s
}

// Feed is the paginated list of all hoagies.
func (s *HoagieService) Feed() *query.InfiniteQuery[models.Hoagie] {
	return query.NewInfiniteQuery(s.cache, query.HoagiesKey(),
		func(ctx context.Context, page int) (*models.Page[models.Hoagie], error) {
			return s.api.ListHoagies(ctx, page, s.pageSize)
		})
}

func (s *HoagieService) Detail(id string) *query.Query[models.Hoagie] {
	return query.NewQuery(s.cache, query.HoagieKey(id),
		func(ctx context.Context) (*models.Hoagie, error) {
			return s.api.GetHoagie(ctx, id)
		})
}

// Create validates the form, uploads a local picture when an uploader is
// configured, and creates the hoagie for the signed-in user.
func (s *HoagieService) Create(ctx context.Context, form forms.HoagieForm) (*models.Hoagie, error) {
	user, err := s.ident.Require()
	if err != nil {
		return nil, err
	}
	if errs := form.Validate(s.uploader != nil); len(errs) > 0 {
		return nil, errs
	}
	if s.create.Pending() {
		return nil, query.ErrMutationPending
	}

	f := form.Normalize()
	picture, err := s.resolvePicture(ctx, f.Picture)
	if err != nil {
		return nil, err
	}

	return s.create.Run(ctx, models.CreateHoagieInput{
		Name:        f.Name,
		Ingredients: f.Ingredients,
		Picture:     picture,
		UserID:      user.ID,
	})
}

// Update applies the edit form to hoagie. Only its creator and
// collaborators may edit it. An empty picture leaves the current one.
func (s *HoagieService) Update(ctx context.Context, h *models.Hoagie, form forms.EditForm) (*models.Hoagie, error) {
	user, err := s.ident.Require()
	if err != nil {
		return nil, err
	}
	if !h.CanEdit(user.ID) {
		return nil, ErrForbidden
	}
	if errs := form.Validate(); len(errs) > 0 {
		return nil, errs
	}
	if s.update.Pending() {
		return nil, query.ErrMutationPending
	}

	name := strings.TrimSpace(form.Name)
	body := models.UpdateHoagieInput{
		Name:        &name,
		Ingredients: forms.ParseIngredients(form.Ingredients),
	}

	picture, err := s.resolvePicture(ctx, strings.TrimSpace(form.Picture))
	if err != nil {
		return nil, err
	}
	if picture != "" {
		body.Picture = &picture
	}

	return s.update.Run(ctx, updateInput{ID: h.ID, UserID: user.ID, Body: body})
}

// Delete removes a hoagie. Only its creator may delete it.
func (s *HoagieService) Delete(ctx context.Context, h *models.Hoagie) error {
	user, err := s.ident.Require()
	if err != nil {
		return err
	}
	if !h.IsCreator(user.ID) {
		return ErrForbidden
	}
	_, err = s.remove.Run(ctx, deleteInput{ID: h.ID, UserID: user.ID})
	return err
}

// Deleting reports the ID of a hoagie whose deletion is in flight.
func (s *HoagieService) Deleting() (string, bool) {
	in, ok := s.remove.Variables()
	return in.ID, ok
}

func (s *HoagieService) resolvePicture(ctx context.Context, picture string) (string, error) {
	if picture == "" || forms.IsURL(picture) {
		return picture, nil
	}
	if s.uploader == nil {
		return "", forms.ValidationErrors{{Field: "picture", Message: "Please enter a valid URL starting with http"}}
	}
	url, err := s.uploader.Upload(ctx, picture)
	if err != nil {
		s.log.Warn(ctx, "picture upload failed", "path", picture, "error", err)
		return "", fmt.Errorf("upload picture: %w", err)
	}
	s.log.Debug(ctx, "picture uploaded", "url", url)
	return url, nil
}
