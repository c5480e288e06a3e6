package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/hoagie/internal/client/client"
	"github.com/dmitrijs2005/hoagie/internal/client/models"
	"github.com/dmitrijs2005/hoagie/internal/client/query"
	"github.com/dmitrijs2005/hoagie/internal/client/session"
)

// fakeAPI is an in-memory backend that records every call.
type fakeAPI struct {
	mu       sync.Mutex
	calls    []string
	hoagies  map[string]*models.Hoagie
	comments map[string][]models.Comment
	users    []models.User
	err      error
	nextID   int
}

var _ client.Client = (*fakeAPI)(nil)

func newFakeAPI() *fakeAPI {
	return &fakeAPI{hoagies: map[string]*models.Hoagie{}, comments: map[string][]models.Comment{}}
}

func (f *fakeAPI) record(format string, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	return f.err
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) ListHoagies(_ context.Context, page, limit int) (*models.Page[models.Hoagie], error) {
	if err := f.record("ListHoagies %d %d", page, limit); err != nil {
		return nil, err
	}
	var data []models.Hoagie
	for _, h := range f.hoagies {
		data = append(data, *h)
	}
	return &models.Page[models.Hoagie]{Data: data, Total: len(data), Page: page, Limit: limit}, nil
}

func (f *fakeAPI) GetHoagie(_ context.Context, id string) (*models.Hoagie, error) {
	if err := f.record("GetHoagie %s", id); err != nil {
		return nil, err
	}
	h, ok := f.hoagies[id]
	if !ok {
		return nil, &client.APIError{Message: "Hoagie not found"}
	}
	cp := *h
	return &cp, nil
}

func (f *fakeAPI) CreateHoagie(_ context.Context, in models.CreateHoagieInput) (*models.Hoagie, error) {
	if err := f.record("CreateHoagie %s %s", in.Name, in.Picture); err != nil {
		return nil, err
	}
	f.nextID++
	h := &models.Hoagie{ID: fmt.Sprintf("h%d", f.nextID), Name: in.Name, Ingredients: in.Ingredients, Picture: in.Picture, Creator: models.User{ID: in.UserID}}
	f.hoagies[h.ID] = h
	return h, nil
}

func (f *fakeAPI) UpdateHoagie(_ context.Context, id, userID string, in models.UpdateHoagieInput) (*models.Hoagie, error) {
	if err := f.record("UpdateHoagie %s %s", id, userID); err != nil {
		return nil, err
	}
	h := f.hoagies[id]
	if in.Name != nil {
		h.Name = *in.Name
	}
	if in.Ingredients != nil {
		h.Ingredients = in.Ingredients
	}
	if in.Picture != nil {
		h.Picture = *in.Picture
	}
	cp := *h
	return &cp, nil
}

func (f *fakeAPI) DeleteHoagie(_ context.Context, id, userID string) error {
	if err := f.record("DeleteHoagie %s %s", id, userID); err != nil {
		return err
	}
	delete(f.hoagies, id)
	return nil
}

func (f *fakeAPI) AddCollaborator(_ context.Context, hoagieID, collaboratorID, userID string) error {
	if err := f.record("AddCollaborator %s %s %s", hoagieID, collaboratorID, userID); err != nil {
		return err
	}
	h := f.hoagies[hoagieID]
	h.Collaborators = append(h.Collaborators, models.User{ID: collaboratorID})
	return nil
}

func (f *fakeAPI) RemoveCollaborator(_ context.Context, hoagieID, collaboratorID, userID string) error {
	return f.record("RemoveCollaborator %s %s %s", hoagieID, collaboratorID, userID)
}

func (f *fakeAPI) ListComments(_ context.Context, hoagieID string, page, limit int) (*models.Page[models.Comment], error) {
	if err := f.record("ListComments %s %d", hoagieID, page); err != nil {
		return nil, err
	}
	cs := f.comments[hoagieID]
	return &models.Page[models.Comment]{Data: cs, Total: len(cs), Page: page, Limit: limit}, nil
}

func (f *fakeAPI) CreateComment(_ context.Context, in models.CreateCommentInput) (*models.Comment, error) {
	if err := f.record("CreateComment %s %s", in.HoagieID, in.Text); err != nil {
		return nil, err
	}
	c := models.Comment{ID: fmt.Sprintf("c%d", len(f.comments[in.HoagieID])+1), Text: in.Text, Hoagie: in.HoagieID, User: models.User{ID: in.UserID}}
	f.comments[in.HoagieID] = append(f.comments[in.HoagieID], c)
	return &c, nil
}

func (f *fakeAPI) DeleteComment(_ context.Context, id, userID string) error {
	return f.record("DeleteComment %s %s", id, userID)
}

func (f *fakeAPI) FindOrCreateUser(_ context.Context, email, name string) (*models.User, error) {
	if err := f.record("FindOrCreateUser %s", email); err != nil {
		return nil, err
	}
	return &models.User{ID: "u-" + email, Email: email, Name: name}, nil
}

func (f *fakeAPI) LoginUser(_ context.Context, email string) (*models.User, error) {
	if err := f.record("LoginUser %s", email); err != nil {
		return nil, err
	}
	return &models.User{ID: "u-" + email, Email: email}, nil
}

func (f *fakeAPI) SearchUsers(_ context.Context, q string, page, limit int) (*models.Page[models.User], error) {
	if err := f.record("SearchUsers %s %d", q, page); err != nil {
		return nil, err
	}
	return &models.Page[models.User]{Data: f.users, Total: len(f.users), Page: page, Limit: limit}, nil
}

type fakeUploader struct {
	paths []string
	err   error
}

func (u *fakeUploader) Upload(_ context.Context, path string) (string, error) {
	u.paths = append(u.paths, path)
	if u.err != nil {
		return "", u.err
	}
	return "https://cdn.example/" + path, nil
}

type fixture struct {
	api     *fakeAPI
	cache   *query.Cache
	session *session.Session
	svc     *Services
}

func newFixture(signedIn string, uploader *fakeUploader) *fixture {
	api := newFakeAPI()
	cache := query.NewCache()
	sess := session.New(api, nil)
	if signedIn != "" {
		_, _ = sess.Login(context.Background(), signedIn)
	}
	d := Deps{API: api, Session: sess, Cache: cache}
	if uploader != nil {
		d.Uploader = uploader
	}
	return &fixture{api: api, cache: cache, session: sess, svc: New(d)}
}

func (fx *fixture) stale(k query.Key) bool {
	s, ok := fx.cache.Snapshot(k)
	return ok && s.Stale
}

func (f *fakeAPI) count(prefix string) int {
	n := 0
	for _, c := range f.Calls() {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}
