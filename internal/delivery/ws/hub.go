package ws

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/osartun/game-of-three/internal/config"
	"github.com/osartun/game-of-three/internal/domain"
	"github.com/osartun/game-of-three/internal/middleware"
	"github.com/osartun/game-of-three/internal/usecase"
)

// Hub maintains the set of live connections and the room membership sets.
// Rooms are not stored entities: a room exists exactly while at least one
// connection belongs to it.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client            // connection id -> client
	rooms   map[string]map[string]*Client // room name -> member set

	register   chan *Client
	unregister chan *Client

	directory *usecase.UserDirectory

	// One pending simulated-opponent timer per room at most
	cpuMu     sync.Mutex
	cpuTimers map[string]*time.Timer

	cpuMoveDelay     time.Duration
	openingNumberMin int
	openingNumberMax int
}

// NewHub creates a new Hub backed by the given user directory
func NewHub(directory *usecase.UserDirectory, cfg *config.Config) *Hub {
	return &Hub{
		clients:          make(map[string]*Client),
		rooms:            make(map[string]map[string]*Client),
		register:         make(chan *Client),
		unregister:       make(chan *Client),
		directory:        directory,
		cpuTimers:        make(map[string]*time.Timer),
		cpuMoveDelay:     cfg.CPUMoveDelay,
		openingNumberMin: cfg.OpeningNumberMin,
		openingNumberMax: cfg.OpeningNumberMax,
	}
}

// Run starts the hub's connection lifecycle loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

			middleware.ConnectionsTotal.Inc()
			middleware.ActiveConnections.Inc()
			log.Info().Str("socket_id", client.ID).Msg("socket connected")

		case client := <-h.unregister:
			h.mu.Lock()
			_, ok := h.clients[client.ID]
			if !ok {
				// Already unregistered, skip
				h.mu.Unlock()
				continue
			}
			delete(h.clients, client.ID)
			h.mu.Unlock()

			// Room and directory cleanup runs before the send channel
			// closes so departure notifications still reach the room
			h.Disconnect(client)

			close(client.send)
			middleware.ActiveConnections.Dec()
			log.Info().Str("socket_id", client.ID).Msg("socket disconnected")
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomSize returns the current membership count of a room
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// RoomInfo is a point-in-time view of a room for the listing API
type RoomInfo struct {
	Name string          `json:"name"`
	Size int             `json:"size"`
	Type domain.RoomType `json:"type,omitempty"`
}

// Rooms returns a snapshot of all non-empty rooms. The room type is read
// from any current member's directory record.
func (h *Hub) Rooms() []RoomInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()

	list := make([]RoomInfo, 0, len(h.rooms))
	for name, members := range h.rooms {
		info := RoomInfo{Name: name, Size: len(members)}
		for id := range members {
			if user, err := h.directory.Get(id); err == nil {
				info.Type = user.RoomType
				break
			}
		}
		list = append(list, info)
	}
	return list
}

// ==== send helpers ====

// sendEvent delivers an event to a single client
func (h *Hub) sendEvent(c *Client, t domain.EventType, payload any) {
	data, err := domain.NewEvent(t, payload)
	if err != nil {
		log.Error().Err(err).Str("event", string(t)).Msg("encode event")
		return
	}
	c.Send(data)
}

// sendError relays a failure to the originating connection only. Errors
// are never broadcast to the room.
func (h *Hub) sendError(c *Client, err error) {
	h.sendEvent(c, domain.EventError, domain.ErrorPayload{Message: err.Error()})
}

// broadcastRoom sends an event to every member of a room. Broadcasting to
// a room with no members is a no-op.
func (h *Hub) broadcastRoom(room string, t domain.EventType, payload any) {
	data, err := domain.NewEvent(t, payload)
	if err != nil {
		log.Error().Err(err).Str("event", string(t)).Msg("encode event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.rooms[room] {
		c.Send(data)
	}
}

// broadcastRoomExcept sends an event to every room member but one
func (h *Hub) broadcastRoomExcept(room, exceptID string, t domain.EventType, payload any) {
	data, err := domain.NewEvent(t, payload)
	if err != nil {
		log.Error().Err(err).Str("event", string(t)).Msg("encode event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, c := range h.rooms[room] {
		if id != exceptID {
			c.Send(data)
		}
	}
}

// broadcastAllExcept sends an event to every connected client but one
func (h *Hub) broadcastAllExcept(exceptID string, t domain.EventType, payload any) {
	data, err := domain.NewEvent(t, payload)
	if err != nil {
		log.Error().Err(err).Str("event", string(t)).Msg("encode event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, c := range h.clients {
		if id != exceptID {
			c.Send(data)
		}
	}
}
