package models

import "time"

type Hoagie struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	Ingredients   []string  `json:"ingredients"`
	Picture       string    `json:"picture,omitempty"`
	Creator       User      `json:"creator"`
	Collaborators []User    `json:"collaborators,omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt,omitempty"`
	CommentCount  *int      `json:"commentCount,omitempty"`
}

func (h *Hoagie) IsCreator(userID string) bool {
	return userID != "" && h.Creator.ID == userID
}

func (h *Hoagie) IsCollaborator(userID string) bool {
	if userID == "" {
		return false
	}
	for _, c := range h.Collaborators {
		if c.ID == userID {
			return true
		}
	}
	return false
}

// CanEdit reports whether userID may change the hoagie: its creator or any
// collaborator.
func (h *Hoagie) CanEdit(userID string) bool {
	return h.IsCreator(userID) || h.IsCollaborator(userID)
}

// ExcludedCollaboratorIDs lists users that must not be offered as new
// collaborators: the acting user plus everyone already collaborating.
func (h *Hoagie) ExcludedCollaboratorIDs(currentUserID string) []string {
	ids := make([]string, 0, len(h.Collaborators)+1)
	if currentUserID != "" {
		ids = append(ids, currentUserID)
	}
	for _, c := range h.Collaborators {
		ids = append(ids, c.ID)
	}
	return ids
}

// CreateHoagieInput is the body of POST /hoagies.
type CreateHoagieInput struct {
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
	Picture     string   `json:"picture,omitempty"`
	UserID      string   `json:"userId"`
}

// UpdateHoagieInput is the body of PATCH /hoagies/:id/user/:userId. Nil
// fields are left unchanged by the backend.
type UpdateHoagieInput struct {
	Name        *string  `json:"name,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
	Picture     *string  `json:"picture,omitempty"`
}
