package client

import (
	"context"
	"net/http"
)

func collaboratorPath(hoagieID, collaboratorID, userID string) string {
	return "/hoagies/" + segment(hoagieID) + "/collaborators/" + segment(collaboratorID) + "/user/" + segment(userID)
}

func (c *HTTPClient) AddCollaborator(ctx context.Context, hoagieID, collaboratorID, userID string) error {
	return c.do(ctx, call{
		op:       "AddCollaborator",
		method:   http.MethodPost,
		path:     collaboratorPath(hoagieID, collaboratorID, userID),
		fallback: "Failed to add collaborator",
	}, nil)
}

func (c *HTTPClient) RemoveCollaborator(ctx context.Context, hoagieID, collaboratorID, userID string) error {
	return c.do(ctx, call{
		op:       "RemoveCollaborator",
		method:   http.MethodDelete,
		path:     collaboratorPath(hoagieID, collaboratorID, userID),
		fallback: "Failed to remove collaborator",
	}, nil)
}
