package models

import "time"

// User is an account on the backend. The backend serialises identifiers as
// "_id".
type User struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// DisplayName prefers the user's name and falls back to the email.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// UserCredentials is the body of POST /users and POST /users/login.
type UserCredentials struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}
