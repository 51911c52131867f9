package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osartun/game-of-three/internal/config"
	"github.com/osartun/game-of-three/internal/domain"
	"github.com/osartun/game-of-three/internal/usecase"
)

// newTestHub creates a hub with a short CPU delay so timer tests stay fast
func newTestHub() *Hub {
	cfg := config.DefaultConfig()
	cfg.CPUMoveDelay = 50 * time.Millisecond
	return NewHub(usecase.NewUserDirectory(), cfg)
}

// newMockClient creates a client without an actual websocket connection
func newMockClient(hub *Hub) *Client {
	return &Client{
		ID:   domain.NewConnectionID(),
		hub:  hub,
		conn: nil,
		send: make(chan []byte, 256),
	}
}

// addMockClient creates a mock client and inserts it into the hub's client
// set directly, bypassing the Run loop
func addMockClient(hub *Hub) *Client {
	c := newMockClient(hub)
	hub.mu.Lock()
	hub.clients[c.ID] = c
	hub.mu.Unlock()
	return c
}

// recvEvent reads the next event a client was sent, failing on timeout
func recvEvent(t *testing.T, c *Client) domain.Event {
	t.Helper()
	select {
	case data := <-c.send:
		var ev domain.Event
		require.NoError(t, json.Unmarshal(data, &ev))
		return ev
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for event")
		return domain.Event{}
	}
}

// waitForEvent reads events until one of the wanted type arrives
func waitForEvent(t *testing.T, c *Client, want domain.EventType) domain.Event {
	t.Helper()
	deadline := time.After(500 * time.Millisecond)
	for {
		select {
		case data := <-c.send:
			var ev domain.Event
			require.NoError(t, json.Unmarshal(data, &ev))
			if ev.Type == want {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s event", want)
			return domain.Event{}
		}
	}
}

// collectEvents drains everything currently queued for a client
func collectEvents(t *testing.T, c *Client) []domain.Event {
	t.Helper()
	var events []domain.Event
	for {
		select {
		case data := <-c.send:
			var ev domain.Event
			require.NoError(t, json.Unmarshal(data, &ev))
			events = append(events, ev)
		default:
			return events
		}
	}
}

// decodePayload unmarshals an event payload into out
func decodePayload(t *testing.T, ev domain.Event, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(ev.Payload, out))
}

// drain discards everything currently queued for a client
func drain(c *Client) {
	for {
		select {
		case <-c.send:
		default:
			return
		}
	}
}

func TestNewHub(t *testing.T) {
	hub := newTestHub()

	require.NotNil(t, hub)
	assert.NotNil(t, hub.clients)
	assert.NotNil(t, hub.rooms)
	assert.NotNil(t, hub.register)
	assert.NotNil(t, hub.unregister)
	assert.NotNil(t, hub.cpuTimers)
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := newTestHub()
	go hub.Run()

	client := newMockClient(hub)
	hub.Register(client)

	// Wait for async operation (short sleep is acceptable for a unit test)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister(client)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, hub.ClientCount())

	// Send channel is closed after unregister
	_, open := <-client.send
	assert.False(t, open)
}

func TestHub_UnregisterTwice(t *testing.T) {
	hub := newTestHub()
	go hub.Run()

	client := newMockClient(hub)
	hub.Register(client)
	time.Sleep(50 * time.Millisecond)

	hub.Unregister(client)
	hub.Unregister(client)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_RoomsSnapshot(t *testing.T) {
	hub := newTestHub()
	c1 := addMockClient(hub)
	c2 := addMockClient(hub)

	require.NoError(t, hub.directory.Create(c1.ID, "alice"))
	require.NoError(t, hub.directory.Create(c2.ID, "bob"))

	hub.JoinRoom(c1, "alice", "R1", domain.RoomTypeHuman)
	hub.JoinRoom(c2, "bob", "R2", domain.RoomTypeCPU)

	rooms := hub.Rooms()
	assert.Len(t, rooms, 2)

	byName := make(map[string]RoomInfo)
	for _, r := range rooms {
		byName[r.Name] = r
	}
	assert.Equal(t, 1, byName["R1"].Size)
	assert.Equal(t, domain.RoomTypeHuman, byName["R1"].Type)
	assert.Equal(t, 1, byName["R2"].Size)
	assert.Equal(t, domain.RoomTypeCPU, byName["R2"].Type)
}

func TestHub_BroadcastRoomMissingIsNoop(t *testing.T) {
	hub := newTestHub()
	c := addMockClient(hub)

	hub.broadcastRoom("ghost-room", domain.EventOnReady, domain.ReadyPayload{State: true})

	assert.Empty(t, collectEvents(t, c))
}

func TestHub_BroadcastAllExcept(t *testing.T) {
	hub := newTestHub()
	c1 := addMockClient(hub)
	c2 := addMockClient(hub)
	c3 := addMockClient(hub)

	hub.broadcastAllExcept(c1.ID, domain.EventListTrigger, "true")

	assert.Empty(t, collectEvents(t, c1))
	assert.Equal(t, domain.EventListTrigger, recvEvent(t, c2).Type)
	assert.Equal(t, domain.EventListTrigger, recvEvent(t, c3).Type)
}
