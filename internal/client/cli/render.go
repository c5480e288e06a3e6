package cli

import (
	"fmt"

	"github.com/dmitrijs2005/hoagie/internal/client/models"
)

func (a *App) printHoagieLine(n int, h models.Hoagie) {
	extra := ""
	if h.CommentCount != nil {
		extra = ", " + plural(*h.CommentCount, "comment")
	}
	a.printf("%3d. %s  %s by %s (%s%s)\n", n, h.ID, h.Name, h.Creator.DisplayName(),
		plural(len(h.Ingredients), "ingredient"), extra)
}

func (a *App) printHoagie(h *models.Hoagie, userID string) {
	a.printf("%s  [%s]\n", h.Name, h.ID)
	a.printf("Created by %s\n", h.Creator.DisplayName())
	if !h.CreatedAt.IsZero() {
		a.printf("Created at %s\n", h.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	if h.Picture != "" {
		a.printf("Picture: %s\n", h.Picture)
	}
	a.println("Ingredients:")
	for _, ing := range h.Ingredients {
		a.printf("  - %s\n", ing)
	}
	if len(h.Collaborators) == 0 {
		a.println("Collaborators: none")
	} else {
		a.println("Collaborators:")
		for _, c := range h.Collaborators {
			a.printf("  - %s (%s)\n", c.DisplayName(), c.ID)
		}
	}
	switch {
	case h.IsCreator(userID):
		a.println("You created this hoagie.")
	case h.IsCollaborator(userID):
		a.println("You are a collaborator on this hoagie.")
	}
}

func (a *App) printComment(n int, c models.Comment, userID string) {
	mine := ""
	if c.User.ID == userID {
		mine = " (yours)"
	}
	a.printf("%3d. [%s] %s%s: %s\n", n, c.ID, c.User.DisplayName(), mine, c.Text)
}

func (a *App) printUser(n int, u models.User) {
	a.printf("%3d. %s <%s> (%s)\n", n, u.DisplayName(), u.Email, u.ID)
}

func (a *App) printFooter(noun string, shown, total int, hasMore bool) {
	switch {
	case shown == 0:
		a.printf("No %s yet.\n", noun)
	case hasMore:
		a.printf("Showing %d of %d %s. Type 'more' to load more.\n", shown, total, noun)
	default:
		a.printf("Showing all %d %s.\n", shown, noun)
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
