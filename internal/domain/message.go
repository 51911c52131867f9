package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// EventType defines the type of event being sent over a connection
type EventType string

const (
	// client → server
	EventLogin      EventType = "login"
	EventJoinRoom   EventType = "joinRoom"
	EventLetsPlay   EventType = "letsPlay"
	EventSendNumber EventType = "sendNumber"
	EventLeaveRoom  EventType = "leaveRoom"

	// server → client
	EventMessage      EventType = "message"
	EventOnReady      EventType = "onReady"
	EventRandomNumber EventType = "randomNumber"
	EventActivateTurn EventType = "activateYourTurn"
	EventGameOver     EventType = "gameOver"
	EventError        EventType = "error"
	EventListTrigger  EventType = "listTrigger"
)

// Event is the wire envelope for every inbound and outbound message
type Event struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Number accepts both JSON numbers and numeric strings, because the web
// client submits form values as strings
type Number int

// UnmarshalJSON implements json.Unmarshaler
func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return fmt.Errorf("empty number")
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		// Tolerate float representations ("4.0") by truncating
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return fmt.Errorf("invalid number %q: %w", s, err)
		}
		v = int(f)
	}
	*n = Number(v)
	return nil
}

// ==== client → server payloads ====

// LoginPayload is the payload for login events
type LoginPayload struct {
	Username string `json:"username"`
}

// JoinRoomPayload is the payload for joinRoom events
type JoinRoomPayload struct {
	Username string   `json:"username"`
	Room     string   `json:"room"`
	RoomType RoomType `json:"roomType"`
}

// SendNumberPayload is the payload for sendNumber events
type SendNumberPayload struct {
	Number         Number `json:"number"`
	SelectedNumber Number `json:"selectedNumber"`
}

// ==== server → client payloads ====

// MessagePayload is the payload for informational chat-style messages
type MessagePayload struct {
	User     string `json:"user"`
	Message  string `json:"message"`
	SocketID string `json:"socketId,omitempty"`
	Room     string `json:"room,omitempty"`
}

// ReadyPayload signals whether the room has reached its capacity
type ReadyPayload struct {
	State bool `json:"state"`
}

// RandomNumberPayload carries one round's shared value.
// User, SelectedNumber and IsCorrectResult are absent on the opening value.
type RandomNumberPayload struct {
	Number          int    `json:"number"`
	IsFirst         bool   `json:"isFirst"`
	User            string `json:"user,omitempty"`
	SelectedNumber  *int   `json:"selectedNumber,omitempty"`
	IsCorrectResult *bool  `json:"isCorrectResult,omitempty"`
}

// TurnPayload tells a participant whether they are active or waiting
type TurnPayload struct {
	User  string    `json:"user"`
	State GameState `json:"state"`
}

// GameOverPayload names the winner of a finished game
type GameOverPayload struct {
	User   string `json:"user"`
	IsOver bool   `json:"isOver"`
}

// ErrorPayload is relayed to the originating connection only
type ErrorPayload struct {
	Message string `json:"message"`
}

// NewEvent builds a wire-ready envelope from an event type and payload
func NewEvent(t EventType, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = data
	}
	return json.Marshal(Event{Type: t, Payload: raw})
}
