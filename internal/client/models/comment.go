package models

import "time"

type Comment struct {
	ID        string    `json:"_id"`
	Text      string    `json:"text"`
	User      User      `json:"user"`
	Hoagie    string    `json:"hoagie"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// CreateCommentInput is the body of POST /comments.
type CreateCommentInput struct {
	Text     string `json:"text"`
	HoagieID string `json:"hoagieId"`
	UserID   string `json:"userId"`
}
