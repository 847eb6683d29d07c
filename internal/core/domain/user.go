package domain

import (
	"strconv"
)

// UserID identifies a user in the presence API.
type UserID int

func (id UserID) String() string {
	return strconv.Itoa(int(id))
}

// User is a selector option as returned by the users listing.
type User struct {
	UserID UserID `json:"user_id"`
	Name   string `json:"name"`
}

// Photo is a single record of the user photo endpoint.
type Photo struct {
	URL string `json:"user_photo"`
}

// Selection is the value currently chosen in the user selector.
// The zero value means no user is selected.
type Selection struct {
	id    UserID
	valid bool
}

// ParseSelection converts the raw selector value into a Selection.
// Only a zero-length value means "no selection"; "0" is a valid identifier.
func ParseSelection(raw string) (Selection, error) {
	if len(raw) == 0 {
		return Selection{}, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return Selection{}, ErrInvalidSelection
	}
	return Selection{id: UserID(n), valid: true}, nil
}

// Select returns a Selection holding id.
func Select(id UserID) Selection {
	return Selection{id: id, valid: true}
}

// UserID returns the selected identifier and whether a user is selected.
func (s Selection) UserID() (UserID, bool) {
	return s.id, s.valid
}

func (s Selection) Empty() bool {
	return !s.valid
}

// String returns the selector value: the identifier, or "" when empty.
func (s Selection) String() string {
	if !s.valid {
		return ""
	}
	return s.id.String()
}
