// Package forms validates user input before it reaches the network layer.
package forms

import (
	"strings"
	"unicode/utf8"
)

const MaxNameLength = 50

// ValidationError is a problem with one form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidationErrors lists problems in field order.
type ValidationErrors []*ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// First is the message shown to the user.
func (v ValidationErrors) First() *ValidationError {
	if len(v) == 0 {
		return nil
	}
	return v[0]
}

// Field returns the error for name, if any.
func (v ValidationErrors) Field(name string) *ValidationError {
	for _, e := range v {
		if e.Field == name {
			return e
		}
	}
	return nil
}

// Err returns nil for an empty list so callers can write `if err := f.Validate(); err != nil`.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func (v *ValidationErrors) add(field, msg string) {
	*v = append(*v, &ValidationError{Field: field, Message: msg})
}

// ParseIngredients splits a comma-separated list, trimming entries and
// dropping empty ones.
func ParseIngredients(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func cleanIngredients(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// HoagieForm is the create screen: a name, an ingredient list built one item
// at a time, and an optional picture (URL or local file path to upload).
type HoagieForm struct {
	Name        string
	Ingredients []string
	Picture     string
}

// AddIngredient appends a trimmed, non-empty ingredient.
func (f *HoagieForm) AddIngredient(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	f.Ingredients = append(f.Ingredients, s)
	return true
}

// RemoveIngredient drops the ingredient at index i.
func (f *HoagieForm) RemoveIngredient(i int) bool {
	if i < 0 || i >= len(f.Ingredients) {
		return false
	}
	f.Ingredients = append(f.Ingredients[:i], f.Ingredients[i+1:]...)
	return true
}

// Normalize trims the name and picture and drops blank ingredients.
func (f HoagieForm) Normalize() HoagieForm {
	return HoagieForm{
		Name:        strings.TrimSpace(f.Name),
		Ingredients: cleanIngredients(f.Ingredients),
		Picture:     strings.TrimSpace(f.Picture),
	}
}

// Validate checks the create form. A picture that is not a URL is accepted
// when allowLocal is set, since it will be uploaded first.
func (f HoagieForm) Validate(allowLocal bool) ValidationErrors {
	n := f.Normalize()
	var errs ValidationErrors
	switch {
	case n.Name == "":
		errs.add("name", "Please enter a hoagie name")
	case utf8.RuneCountInString(n.Name) > MaxNameLength:
		errs.add("name", "Name must be at most 50 characters")
	}
	if len(n.Ingredients) == 0 {
		errs.add("ingredients", "Please add at least one ingredient")
	}
	if n.Picture != "" && !IsURL(n.Picture) && !allowLocal {
		errs.add("picture", "Please enter a valid URL starting with http")
	}
	return errs
}

// IsURL reports whether s looks like a picture URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http")
}

// EditForm is the edit screen, where ingredients are one comma-separated
// string.
type EditForm struct {
	Name        string
	Ingredients string
	Picture     string
}

func (f EditForm) Validate() ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(f.Name) == "" {
		errs.add("name", "Name is required")
	}
	if len(ParseIngredients(f.Ingredients)) == 0 {
		errs.add("ingredients", "At least one ingredient is required")
	}
	return errs
}

// CommentForm validates a new comment.
type CommentForm struct {
	Text string
}

func (f CommentForm) Validate() ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(f.Text) == "" {
		errs.add("text", "Comment cannot be empty")
	}
	return errs
}

// AuthForm backs login (email only) and signup (email and name).
type AuthForm struct {
	Email  string
	Name   string
	Signup bool
}

func (f AuthForm) Validate() ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(f.Email) == "" {
		errs.add("email", "Please fill in all fields")
	} else if f.Signup && strings.TrimSpace(f.Name) == "" {
		errs.add("name", "Please fill in all fields")
	}
	return errs
}
