package deck

import "github.com/mcoot/flip7/internal/dependencies/random"

const (
	// MinCard is the lowest card value
	MinCard = 1
	// MaxCard is the highest card value
	MaxCard = 12
)

// Deck draws card values uniformly from MinCard..MaxCard.
//
// Draws are with replacement: the deck is never depleted, so the chance of
// busting depends only on the size of the hand, not on what others drew.
type Deck struct {
	random random.Random
}

// New creates a Deck backed by the given random source
func New(rnd random.Random) *Deck {
	return &Deck{random: rnd}
}

// Draw returns a card value in [MinCard, MaxCard]
func (d *Deck) Draw() int {
	return MinCard + d.random.Intn(MaxCard-MinCard+1)
}
