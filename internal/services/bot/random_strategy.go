package bot

import (
	"github.com/mcoot/flip7/internal/dependencies/random"
)

// RandomStrategy always draws its first card, then stays one time in three
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// ShouldStay implements Strategy
func (s *RandomStrategy) ShouldStay(hand []int) bool {
	if len(hand) == 0 {
		return false
	}
	return s.random.Intn(3) == 0
}
