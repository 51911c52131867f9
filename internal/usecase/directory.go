package usecase

import (
	"errors"
	"sync"

	"github.com/osartun/game-of-three/internal/domain"
)

// ErrUserNotFound is returned when no record exists for a connection id
var ErrUserNotFound = errors.New("user not found")

// UserDirectory maps connection ids to user records. It is the process-level
// session store: records live from login until disconnect.
type UserDirectory struct {
	users map[string]*domain.User
	mu    sync.RWMutex
}

// NewUserDirectory creates an empty directory
func NewUserDirectory() *UserDirectory {
	return &UserDirectory{
		users: make(map[string]*domain.User),
	}
}

// Create stores a fresh record for a connection. A repeated login on the
// same connection replaces the previous record.
func (d *UserDirectory) Create(id, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.users[id] = domain.NewUser(id, name)
	return nil
}

// Get returns a copy of the record for a connection id
func (d *UserDirectory) Get(id string) (*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	user, ok := d.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	// Copy so callers always re-read instead of sharing mutable state
	u := *user
	return &u, nil
}

// SetRoom records the room a user joined and the room's type
func (d *UserDirectory) SetRoom(id, room string, roomType domain.RoomType) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[id]
	if !ok {
		return ErrUserNotFound
	}

	user.Room = room
	user.RoomType = roomType
	return nil
}

// ClearRoom removes a user's room association. Clearing an already-cleared
// or missing record is not an error.
func (d *UserDirectory) ClearRoom(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[id]
	if !ok {
		return nil
	}

	user.Room = ""
	user.RoomType = ""
	return nil
}

// Delete removes a user's record entirely. Idempotent.
func (d *UserDirectory) Delete(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.users, id)
}

// Count returns the number of logged-in users
func (d *UserDirectory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users)
}
