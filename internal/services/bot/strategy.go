package bot

import (
	"github.com/mcoot/flip7/internal/dependencies/random"
	"github.com/mcoot/flip7/internal/model"
)

// Strategy decides whether a bot banks its hand or flips another card
type Strategy interface {
	// ShouldStay returns true to bank the current hand, false to draw
	ShouldStay(hand []int) bool
}

// NewStrategies returns every built-in strategy keyed by name
func NewStrategies(rnd random.Random) map[string]Strategy {
	return map[string]Strategy{
		model.BotStrategyCautious: NewCautiousStrategy(),
		model.BotStrategyRandom:   NewRandomStrategy(rnd),
	}
}
