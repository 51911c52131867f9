package game

import (
	"math/rand"

	"github.com/osartun/game-of-three/internal/domain"
)

// cpuMoves is the fixed set the simulated opponent draws from
var cpuMoves = [...]int{1, 0, -1}

// Evaluate computes the next shared round value from a pair of numbers.
// If the sum of the pair is evenly divisible by 3 the result is sum/3,
// otherwise the round does not advance and the fallback is returned.
// Pure and deterministic: callers may reuse the value freely.
func Evaluate(pair [2]int, fallback int) int {
	sum := pair[0] + pair[1]
	if sum%3 == 0 {
		return sum / 3
	}
	return fallback
}

// IsWinning reports whether a round value ends the game
func IsWinning(result int) bool {
	return result == 1 || result == -1
}

// OpeningNumber returns a random opening value in [min, max] inclusive
func OpeningNumber(min, max int) int {
	return min + rand.Intn(max-min+1)
}

// CPUMove draws the simulated opponent's move uniformly from {1, 0, -1}
func CPUMove() int {
	return cpuMoves[rand.Intn(len(cpuMoves))]
}

// DefaultOpeningNumber returns an opening value in the documented range
func DefaultOpeningNumber() int {
	return OpeningNumber(domain.OpeningNumberMin, domain.OpeningNumberMax)
}
