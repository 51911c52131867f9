package domain

import (
	"github.com/google/uuid"
)

// User represents a logged-in participant while their connection is alive
type User struct {
	ID       string   `json:"id"`   // opaque connection identifier
	Name     string   `json:"name"` // display name chosen at login, not unique
	Room     string   `json:"room,omitempty"`
	RoomType RoomType `json:"roomType,omitempty"`
}

// NewUser creates a User record for a connection
func NewUser(id, name string) *User {
	return &User{
		ID:   id,
		Name: name,
	}
}

// NewConnectionID generates a fresh opaque connection identifier
func NewConnectionID() string {
	return uuid.New().String()
}
