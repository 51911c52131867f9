package domain

import "time"

// ==== Room Constants ====

// RoomType determines who the second participant is
type RoomType string

const (
	// RoomTypeHuman is a two-player room
	RoomTypeHuman RoomType = "human"

	// RoomTypeCPU is a single-player room against the simulated opponent
	RoomTypeCPU RoomType = "cpu"
)

// Capacity returns the membership count at which the room is ready to play
func (rt RoomType) Capacity() int {
	if rt == RoomTypeCPU {
		return 1
	}
	return 2
}

// ==== Turn Constants ====

// GameState marks whether a participant may submit a number
type GameState string

const (
	GameStateWait GameState = "wait"
	GameStatePlay GameState = "play"
)

// ==== WebSocket Constants ====

// MaxMessageSize is the maximum allowed WebSocket message size in bytes
const MaxMessageSize = 4096

// ==== Timing Constants ====

const (
	// CPUMoveDelay is how long the simulated opponent waits before moving
	CPUMoveDelay = 2000 * time.Millisecond
)

// ==== Game Constants ====

const (
	// OpeningNumberMin is the inclusive lower bound of the opening value
	OpeningNumberMin = 1999

	// OpeningNumberMax is the inclusive upper bound of the opening value
	OpeningNumberMax = 9999

	// CPUName is the display name attributed to simulated opponent moves
	CPUName = "CPU"
)

// ==== Rate Limit Constants ====

const (
	// DefaultRateLimitAPI is the default rate limit for API endpoints (requests/sec)
	DefaultRateLimitAPI = 10

	// DefaultRateLimitWS is the default rate limit for WebSocket connections (req/sec)
	DefaultRateLimitWS = 5
)
