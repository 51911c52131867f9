package ws

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/osartun/game-of-three/internal/domain"
	"github.com/osartun/game-of-three/internal/middleware"
)

// ErrRoomFull is relayed when a join would exceed the room's capacity
var ErrRoomFull = errors.New("room is full")

// Login creates the directory record for a connection
func (h *Hub) Login(c *Client, username string) {
	username = SanitizeName(username)

	if err := h.directory.Create(c.ID, username); err != nil {
		h.sendError(c, err)
		log.Error().Err(err).Str("socket_id", c.ID).Msg("login failed")
		return
	}

	log.Info().Str("socket_id", c.ID).Str("username", username).Msg("login")

	h.sendEvent(c, domain.EventMessage, domain.MessagePayload{
		User:     username,
		Message:  "Welcome " + username,
		SocketID: c.ID,
	})
}

// JoinRoom admits a connection into a room. Capacity is 1 for cpu rooms and
// 2 for human rooms; a join that would exceed it is rejected. The readiness
// notification is computed from the membership size re-read after the join
// has taken effect, never from a count taken before it.
func (h *Hub) JoinRoom(c *Client, username, room string, roomType domain.RoomType) {
	username = SanitizeName(username)
	room = SanitizeName(room)
	capacity := roomType.Capacity()

	// A user belongs to at most one room. Joining while still a member of
	// another room runs the leave path first, so the old room never keeps a
	// ghost seat occupied.
	if user, err := h.directory.Get(c.ID); err == nil && user.Room != "" {
		h.broadcastRoom(user.Room, domain.EventOnReady, domain.ReadyPayload{State: false})
		_ = h.directory.ClearRoom(c.ID)
		h.removeFromRoom(user.Room, c.ID)
		log.Info().Str("socket_id", c.ID).Str("old_room", user.Room).Msg("left previous room")
	}

	h.mu.Lock()
	members := h.rooms[room]
	if len(members) >= capacity {
		h.mu.Unlock()
		h.sendError(c, ErrRoomFull)
		log.Warn().Str("socket_id", c.ID).Str("room", room).Msg("join rejected: room full")
		return
	}
	if members == nil {
		members = make(map[string]*Client)
		h.rooms[room] = members
		middleware.ActiveRooms.Inc()
	}
	members[c.ID] = c
	h.mu.Unlock()

	if err := h.directory.SetRoom(c.ID, room, roomType); err != nil {
		// Roll the membership back so a failed join leaves no trace
		h.removeFromRoom(room, c.ID)
		h.sendError(c, err)
		log.Error().Err(err).Str("socket_id", c.ID).Str("room", room).Msg("join failed")
		return
	}

	log.Info().
		Str("socket_id", c.ID).
		Str("room", room).
		Str("room_type", string(roomType)).
		Msg("joined room")

	h.sendEvent(c, domain.EventMessage, domain.MessagePayload{
		User:    username,
		Message: "welcome to room " + room,
		Room:    room,
	})
	if roomType != domain.RoomTypeCPU {
		h.broadcastRoomExcept(room, c.ID, domain.EventMessage, domain.MessagePayload{
			User:    username,
			Message: "has joined " + room,
			Room:    room,
		})
	}

	// Re-read the membership after the join took effect; two concurrent
	// joiners must never compute readiness from a stale count
	size := h.RoomSize(room)
	h.broadcastRoom(room, domain.EventOnReady, domain.ReadyPayload{State: size == capacity})
}

// LeaveRoom clears a user's room state on an explicit leave. A user with no
// room, or a connection with no directory record, is a no-op.
func (h *Hub) LeaveRoom(c *Client) {
	user, err := h.directory.Get(c.ID)
	if err != nil || user.Room == "" {
		log.Debug().Str("socket_id", c.ID).Msg("leave with no room, ignoring")
		return
	}

	h.broadcastRoom(user.Room, domain.EventOnReady, domain.ReadyPayload{State: false})

	_ = h.directory.ClearRoom(c.ID)
	h.removeFromRoom(user.Room, c.ID)

	log.Info().Str("socket_id", c.ID).Str("room", user.Room).Msg("left room")
}

// Disconnect clears all login and room state for a closing connection and
// signals room-listing subscribers. Safe when the connection never logged
// in or never joined a room.
func (h *Hub) Disconnect(c *Client) {
	if user, err := h.directory.Get(c.ID); err == nil && user.Room != "" {
		h.broadcastRoomExcept(user.Room, c.ID, domain.EventOnReady, domain.ReadyPayload{State: false})
		_ = h.directory.ClearRoom(c.ID)
		h.removeFromRoom(user.Room, c.ID)
	}

	h.directory.Delete(c.ID)
	h.broadcastAllExcept(c.ID, domain.EventListTrigger, "true")
}

// removeFromRoom drops a connection from a room's membership set. The set
// is deleted once empty: an empty room does not exist, and its pending
// simulated-opponent timer (if any) is cancelled with it.
func (h *Hub) removeFromRoom(room, id string) {
	h.mu.Lock()
	members, ok := h.rooms[room]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(members, id)
	empty := len(members) == 0
	if empty {
		delete(h.rooms, room)
		middleware.ActiveRooms.Dec()
	}
	h.mu.Unlock()

	if empty {
		h.cancelCPUMove(room)
	}
}

// otherMember returns the id of any room member other than the given one,
// or "" when the user is alone in the room
func (h *Hub) otherMember(room, id string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for memberID := range h.rooms[room] {
		if memberID != id {
			return memberID
		}
	}
	return ""
}
