package domain

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email is already registered")
var ErrInvalidCredentials = errors.New("invalid email or password")

// User models a registered account. The password hash is never serialized.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Identity is the minimal authenticated-caller record the auth middleware
// attaches to the request context.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Owns reports whether the identity owns the thought. Anonymous thoughts
// (empty OwnerID) are owned by nobody, so this is always false for them.
func (i Identity) Owns(t *Thought) bool {
	return t.OwnerID != "" && t.OwnerID == i.ID
}
