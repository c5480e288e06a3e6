package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/hoagie/internal/client/forms"
	"github.com/dmitrijs2005/hoagie/internal/client/models"
	"github.com/dmitrijs2005/hoagie/internal/client/query"
	"github.com/dmitrijs2005/hoagie/internal/client/session"
)

const ann = "ann@example.com"
const annID = "u-" + ann

func TestHoagieService_CreateInvalidatesFeed(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(ann, nil)
	hs := fx.svc.Hoagies

	_, err := hs.Feed().Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, hs.Feed().Total())

	h, err := hs.Create(ctx, forms.HoagieForm{Name: " Italian ", Ingredients: []string{"ham", " "}})
	require.NoError(t, err)
	assert.Equal(t, "Italian", h.Name)
	assert.Equal(t, []string{"ham"}, h.Ingredients)
	assert.Equal(t, annID, h.Creator.ID)
	assert.True(t, fx.stale(query.HoagiesKey()))

	_, err = hs.Feed().Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, hs.Feed().Total())
	assert.Equal(t, 2, fx.api.count("ListHoagies"))
}

func TestHoagieService_CreateRequiresSessionAndValidForm(t *testing.T) {
	ctx := context.Background()

	fx := newFixture("", nil)
	_, err := fx.svc.Hoagies.Create(ctx, forms.HoagieForm{Name: "A", Ingredients: []string{"x"}})
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)

	fx = newFixture(ann, nil)
	_, err = fx.svc.Hoagies.Create(ctx, forms.HoagieForm{Name: "A"})
	var ve forms.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Please add at least one ingredient", ve.First().Message)

	_, err = fx.svc.Hoagies.Create(ctx, forms.HoagieForm{Name: "A", Ingredients: []string{"x"}, Picture: "./sub.jpg"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "picture", ve.First().Field)

	assert.Zero(t, fx.api.count("CreateHoagie"))
}

func TestHoagieService_CreateUploadsLocalPicture(t *testing.T) {
	up := &fakeUploader{}
	fx := newFixture(ann, up)

	h, err := fx.svc.Hoagies.Create(context.Background(), forms.HoagieForm{Name: "A", Ingredients: []string{"x"}, Picture: "sub.jpg"})
	require.NoError(t, err)
	assert.Equal(t, []string{"sub.jpg"}, up.paths)
	assert.Equal(t, "https://cdn.example/sub.jpg", h.Picture)

	_, err = fx.svc.Hoagies.Create(context.Background(), forms.HoagieForm{Name: "B", Ingredients: []string{"x"}, Picture: "https://pics/b.png"})
	require.NoError(t, err)
	assert.Len(t, up.paths, 1, "URLs are used as given")
}

func TestHoagieService_CreateUploadFailureSkipsCreate(t *testing.T) {
	boom := errors.New("boom")
	fx := newFixture(ann, &fakeUploader{err: boom})

	_, err := fx.svc.Hoagies.Create(context.Background(), forms.HoagieForm{Name: "A", Ingredients: []string{"x"}, Picture: "sub.jpg"})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, fx.api.count("CreateHoagie"))
}

func TestHoagieService_UpdateInvalidatesDetailAndFeed(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(ann, nil)
	hs := fx.svc.Hoagies

	h, err := hs.Create(ctx, forms.HoagieForm{Name: "A", Ingredients: []string{"x"}})
	require.NoError(t, err)

	detail := hs.Detail(h.ID)
	_, err = detail.Get(ctx)
	require.NoError(t, err)
	_, err = hs.Feed().Load(ctx)
	require.NoError(t, err)

	updated, err := hs.Update(ctx, h, forms.EditForm{Name: " B ", Ingredients: "ham, cheese"})
	require.NoError(t, err)
	assert.Equal(t, "B", updated.Name)
	assert.Equal(t, []string{"ham", "cheese"}, updated.Ingredients)

	assert.True(t, fx.stale(query.HoagieKey(h.ID)))
	assert.True(t, fx.stale(query.HoagiesKey()))

	got, err := detail.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Name)
	assert.Equal(t, 2, fx.api.count("GetHoagie"))
}

func TestHoagieService_UpdatePermissions(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(ann, nil)

	other := &models.Hoagie{ID: "hx", Creator: models.User{ID: "someone"}}
	_, err := fx.svc.Hoagies.Update(ctx, other, forms.EditForm{Name: "A", Ingredients: "x"})
	assert.ErrorIs(t, err, ErrForbidden)

	collab := &models.Hoagie{ID: "hx", Creator: models.User{ID: "someone"}, Collaborators: []models.User{{ID: annID}}}
	fx.api.hoagies["hx"] = collab
	_, err = fx.svc.Hoagies.Update(ctx, collab, forms.EditForm{Name: "A", Ingredients: "x", Picture: "https://p"})
	require.NoError(t, err)
	assert.Equal(t, "https://p", fx.api.hoagies["hx"].Picture)

	_, err = fx.svc.Hoagies.Update(ctx, collab, forms.EditForm{Name: "", Ingredients: "x"})
	var ve forms.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Name is required", ve.First().Message)
}

func TestHoagieService_DeleteClearsDetailAndComments(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(ann, nil)
	hs := fx.svc.Hoagies

	h, err := hs.Create(ctx, forms.HoagieForm{Name: "A", Ingredients: []string{"x"}})
	require.NoError(t, err)
	_, err = hs.Detail(h.ID).Get(ctx)
	require.NoError(t, err)
	_, err = fx.svc.Comments.Comments(h.ID).Load(ctx)
	require.NoError(t, err)
	_, err = hs.Feed().Load(ctx)
	require.NoError(t, err)

	require.NoError(t, hs.Delete(ctx, h))

	_, ok := fx.cache.Snapshot(query.HoagieKey(h.ID))
	assert.False(t, ok)
	_, ok = fx.cache.Snapshot(query.CommentsKey(h.ID))
	assert.False(t, ok)
	assert.True(t, fx.stale(query.HoagiesKey()))
}

func TestHoagieService_DeleteCreatorOnly(t *testing.T) {
	fx := newFixture(ann, nil)
	err := fx.svc.Hoagies.Delete(context.Background(), &models.Hoagie{ID: "h", Creator: models.User{ID: "x"}, Collaborators: []models.User{{ID: annID}}})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Zero(t, fx.api.count("DeleteHoagie"))
}

func TestHoagieService_FailedWriteKeepsCache(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(ann, nil)
	_, err := fx.svc.Hoagies.Feed().Load(ctx)
	require.NoError(t, err)

	boom := errors.New("Failed to create hoagie")
	fx.api.err = boom
	_, err = fx.svc.Hoagies.Create(ctx, forms.HoagieForm{Name: "A", Ingredients: []string{"x"}})
	assert.ErrorIs(t, err, boom)
	assert.False(t, fx.stale(query.HoagiesKey()))
}
