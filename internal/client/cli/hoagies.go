package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/hoagie/internal/client/forms"
)

// Create walks through the create form. After a failed attempt the same
// input is offered as defaults.
func (a *App) Create(ctx context.Context) error {
	var form forms.HoagieForm
	if a.hoagieDraft != nil {
		a.println("Restoring your previous input (press Enter to keep a value).")
		form = *a.hoagieDraft
	}

	name, err := GetTextDefault(a.reader, "Hoagie name", form.Name, a.out)
	if err != nil {
		return err
	}
	form.Name = name

	prompt := "Ingredients, one per line"
	if len(form.Ingredients) > 0 {
		prompt += " [empty keeps: " + strings.Join(form.Ingredients, ", ") + "]"
	}
	ingredients, err := GetList(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if len(ingredients) > 0 {
		form.Ingredients = ingredients
	}

	picture, err := GetTextDefault(a.reader, "Picture URL or local image file (optional)", form.Picture, a.out)
	if err != nil {
		return err
	}
	form.Picture = picture

	h, err := a.svc.Hoagies.Create(ctx, form)
	if err != nil {
		a.hoagieDraft = &form
		return a.writeFail(err)
	}
	a.hoagieDraft = nil
	a.printf("Created %s (%s).\n", h.Name, h.ID)
	return nil
}

// Edit prompts with the hoagie's current values as defaults.
func (a *App) Edit(ctx context.Context, id string) error {
	h, err := a.svc.Hoagies.Detail(id).Get(ctx)
	if err != nil {
		return a.readFail(err)
	}
	if !h.CanEdit(a.session.UserID()) {
		a.println("Only the creator and collaborators can edit this hoagie.")
		return nil
	}

	name, err := GetTextDefault(a.reader, "Hoagie name", h.Name, a.out)
	if err != nil {
		return err
	}
	ingredients, err := GetTextDefault(a.reader, "Ingredients (comma separated)", strings.Join(h.Ingredients, ", "), a.out)
	if err != nil {
		return err
	}
	picture, err := GetTextDefault(a.reader, "Picture URL or local image file (optional)", h.Picture, a.out)
	if err != nil {
		return err
	}

	updated, err := a.svc.Hoagies.Update(ctx, h, forms.EditForm{Name: name, Ingredients: ingredients, Picture: picture})
	if err != nil {
		return a.writeFail(err)
	}
	a.printf("Updated %s.\n", updated.Name)
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	h, err := a.svc.Hoagies.Detail(id).Get(ctx)
	if err != nil {
		return a.readFail(err)
	}
	if !h.IsCreator(a.session.UserID()) {
		a.println("Only the creator can delete this hoagie.")
		return nil
	}

	ok, err := Confirm(a.reader, "Delete "+h.Name+"?", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.svc.Hoagies.Delete(ctx, h); err != nil {
		return a.writeFail(err)
	}
	if a.view.id == id {
		a.switchView(ctx, viewNone, "")
	}
	a.printf("Deleted %s.\n", h.Name)
	return nil
}
