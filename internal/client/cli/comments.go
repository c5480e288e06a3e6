package cli

import (
	"context"

	"github.com/dmitrijs2005/hoagie/internal/client/models"
)

// Comments opens the comment stream of a hoagie.
func (a *App) Comments(ctx context.Context, hoagieID string) error {
	sub := a.switchView(ctx, viewComments, hoagieID)
	q := a.svc.Comments.Comments(hoagieID)

	_, err := q.Load(sub.Context())
	if err == nil || len(q.Items()) > 0 {
		sub.Deliver(func() { a.printComments(hoagieID, 1) })
	}
	if err != nil {
		return a.readFail(err)
	}
	return nil
}

// Comment posts a comment. Text from a failed attempt is offered again.
func (a *App) Comment(ctx context.Context, hoagieID string) error {
	text, err := GetTextDefault(a.reader, "Your comment", a.commentDrafts[hoagieID], a.out)
	if err != nil {
		return err
	}

	if _, err := a.svc.Comments.Create(ctx, hoagieID, text); err != nil {
		a.commentDrafts[hoagieID] = text
		return a.writeFail(err)
	}
	delete(a.commentDrafts, hoagieID)
	a.println("Comment posted.")

	if a.view.id == hoagieID && (a.view.kind == viewComments || a.view.kind == viewHoagie) {
		return a.Comments(ctx, hoagieID)
	}
	return nil
}

// Uncomment deletes one of the user's comments. The comment has to be among
// the loaded ones so its author can be checked.
func (a *App) Uncomment(ctx context.Context, hoagieID, commentID string) error {
	q := a.svc.Comments.Comments(hoagieID)
	if _, err := q.Load(ctx); err != nil {
		return a.readFail(err)
	}

	var target *models.Comment
	for _, c := range q.Items() {
		if c.ID == commentID {
			target = &c
			break
		}
	}
	if target == nil {
		a.println("Comment not found among the loaded comments. Try 'comments " + hoagieID + "' and 'more' first.")
		return nil
	}

	if err := a.svc.Comments.Delete(ctx, hoagieID, target); err != nil {
		return a.writeFail(err)
	}
	a.println("Comment deleted.")
	return nil
}
