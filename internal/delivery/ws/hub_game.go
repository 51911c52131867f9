package ws

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/osartun/game-of-three/internal/domain"
	"github.com/osartun/game-of-three/internal/game"
	"github.com/osartun/game-of-three/internal/middleware"
)

// StartGame opens a game in the initiator's room: broadcasts the opening
// value and hands the first turn to the initiator. The waiting notification
// names the other room member, or nobody when the initiator is still alone
// (partner not yet joined, or a cpu room).
func (h *Hub) StartGame(c *Client) {
	user, err := h.directory.Get(c.ID)
	if err != nil {
		h.sendError(c, err)
		log.Error().Err(err).Str("socket_id", c.ID).Msg("letsPlay failed")
		return
	}
	if user.Room == "" {
		log.Debug().Str("socket_id", c.ID).Msg("letsPlay outside a room, ignoring")
		return
	}

	opening := game.OpeningNumber(h.openingNumberMin, h.openingNumberMax)

	log.Info().
		Str("socket_id", c.ID).
		Str("room", user.Room).
		Int("opening", opening).
		Msg("game started")

	h.broadcastRoom(user.Room, domain.EventRandomNumber, domain.RandomNumberPayload{
		Number:  opening,
		IsFirst: true,
	})

	h.broadcastRoomExcept(user.Room, c.ID, domain.EventActivateTurn, domain.TurnPayload{
		User:  h.otherMember(user.Room, c.ID),
		State: domain.GameStateWait,
	})
	h.sendEvent(c, domain.EventActivateTurn, domain.TurnPayload{
		User:  c.ID,
		State: domain.GameStatePlay,
	})
}

// SubmitNumber processes one turn: evaluates the round, broadcasts the
// outcome, flips turn ownership, and detects the win condition. Directory
// misses here are logged and dropped, never relayed.
func (h *Hub) SubmitNumber(c *Client, number, selected int) {
	user, err := h.directory.Get(c.ID)
	if err != nil {
		log.Warn().Err(err).Str("socket_id", c.ID).Msg("sendNumber without login")
		return
	}
	if user.Room == "" {
		log.Debug().Str("socket_id", c.ID).Msg("sendNumber outside a room, ignoring")
		return
	}

	// Evaluated once; the broadcast value and the correctness flag must
	// always agree
	result := game.Evaluate([2]int{selected, number}, number)

	if user.RoomType == domain.RoomTypeCPU {
		h.scheduleCPUMove(user.Room, c.ID, result)
	}

	correct := result != number
	h.broadcastRoom(user.Room, domain.EventRandomNumber, domain.RandomNumberPayload{
		Number:          result,
		IsFirst:         false,
		User:            user.Name,
		SelectedNumber:  &selected,
		IsCorrectResult: &correct,
	})

	h.sendEvent(c, domain.EventActivateTurn, domain.TurnPayload{
		User:  c.ID,
		State: domain.GameStateWait,
	})

	if user.RoomType == domain.RoomTypeHuman {
		h.broadcastRoomExcept(user.Room, c.ID, domain.EventActivateTurn, domain.TurnPayload{
			User:  h.otherMember(user.Room, c.ID),
			State: domain.GameStatePlay,
		})
	}

	if game.IsWinning(result) {
		log.Info().Str("room", user.Room).Str("winner", user.Name).Msg("game over")
		h.broadcastRoom(user.Room, domain.EventGameOver, domain.GameOverPayload{
			User:   user.Name,
			IsOver: true,
		})
		h.cancelCPUMove(user.Room)
		middleware.GamesFinished.Inc()
	}
}

// scheduleCPUMove arms the simulated opponent's timer for a room, replacing
// any move still pending there. The baseline is the round value the human's
// submission just produced.
func (h *Hub) scheduleCPUMove(room, humanID string, baseline int) {
	h.cpuMu.Lock()
	defer h.cpuMu.Unlock()

	if t, ok := h.cpuTimers[room]; ok {
		t.Stop()
	}
	h.cpuTimers[room] = time.AfterFunc(h.cpuMoveDelay, func() {
		h.playCPUMove(room, humanID, baseline)
	})
}

// cancelCPUMove stops a room's pending simulated-opponent timer, if any
func (h *Hub) cancelCPUMove(room string) {
	h.cpuMu.Lock()
	defer h.cpuMu.Unlock()

	if t, ok := h.cpuTimers[room]; ok {
		t.Stop()
		delete(h.cpuTimers, room)
	}
}

// playCPUMove is the simulated opponent's turn, fired once from its timer.
// Firing after the room emptied is a safe no-op: broadcasts to a missing
// room go nowhere.
func (h *Hub) playCPUMove(room, humanID string, baseline int) {
	h.cpuMu.Lock()
	delete(h.cpuTimers, room)
	h.cpuMu.Unlock()

	move := game.CPUMove()
	result := game.Evaluate([2]int{move, baseline}, baseline)

	log.Info().
		Str("room", room).
		Int("move", move).
		Int("result", result).
		Msg("cpu move")

	// The correctness comparison is against the baseline here, unlike the
	// human path's comparison against the raw input; both are kept exactly
	// as the game has always behaved
	correct := result != baseline
	h.broadcastRoom(room, domain.EventRandomNumber, domain.RandomNumberPayload{
		Number:          result,
		IsFirst:         false,
		User:            domain.CPUName,
		SelectedNumber:  &move,
		IsCorrectResult: &correct,
	})

	h.broadcastRoom(room, domain.EventActivateTurn, domain.TurnPayload{
		User:  humanID,
		State: domain.GameStatePlay,
	})

	if result == 1 {
		log.Info().Str("room", room).Str("winner", domain.CPUName).Msg("game over")
		h.broadcastRoom(room, domain.EventGameOver, domain.GameOverPayload{
			User:   domain.CPUName,
			IsOver: true,
		})
		middleware.GamesFinished.Inc()
	}
}
