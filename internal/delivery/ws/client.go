package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/osartun/game-of-three/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = domain.MaxMessageSize
)

// Client represents a single websocket connection
type Client struct {
	ID   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewClient creates a new Client with a fresh connection id
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:   domain.NewConnectionID(),
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// ReadPump pumps events from the websocket connection into the hub.
// Its exit is the connection's disconnect path.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Str("socket_id", c.ID).Msg("unexpected close")
			}
			break
		}

		var event domain.Event
		if err := json.Unmarshal(message, &event); err != nil {
			log.Debug().Err(err).Str("socket_id", c.ID).Msg("malformed event, dropped")
			continue
		}

		c.dispatch(event)
	}
}

// dispatch routes one inbound event to its hub handler. Unknown events are
// ignored; malformed payloads are dropped with a debug log.
func (c *Client) dispatch(event domain.Event) {
	switch event.Type {
	case domain.EventLogin:
		var p domain.LoginPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			log.Debug().Err(err).Str("socket_id", c.ID).Msg("bad login payload")
			return
		}
		c.hub.Login(c, p.Username)

	case domain.EventJoinRoom:
		var p domain.JoinRoomPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			log.Debug().Err(err).Str("socket_id", c.ID).Msg("bad joinRoom payload")
			return
		}
		c.hub.JoinRoom(c, p.Username, p.Room, p.RoomType)

	case domain.EventLetsPlay:
		c.hub.StartGame(c)

	case domain.EventSendNumber:
		var p domain.SendNumberPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			log.Debug().Err(err).Str("socket_id", c.ID).Msg("bad sendNumber payload")
			return
		}
		c.hub.SubmitNumber(c, int(p.Number), int(p.SelectedNumber))

	case domain.EventLeaveRoom:
		c.hub.LeaveRoom(c)

	default:
		log.Debug().Str("socket_id", c.ID).Str("event", string(event.Type)).Msg("unknown event")
	}
}

// WritePump pumps messages from the hub to the websocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Send adds a message to the client's send queue
func (c *Client) Send(msg []byte) {
	select {
	case c.send <- msg:
	default:
		// Buffer full
	}
}
