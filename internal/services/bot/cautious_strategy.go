package bot

const (
	// CautiousStayThreshold is the hand sum at which a cautious bot stays
	CautiousStayThreshold = 20
	// CautiousMaxCards is the hand size at which a cautious bot stays
	CautiousMaxCards = 5
)

// CautiousStrategy stays once the hand is worth enough or is large enough
// that the next card is likely to bust
type CautiousStrategy struct{}

// NewCautiousStrategy creates a new CautiousStrategy
func NewCautiousStrategy() *CautiousStrategy {
	return &CautiousStrategy{}
}

// ShouldStay implements Strategy
func (s *CautiousStrategy) ShouldStay(hand []int) bool {
	if len(hand) >= CautiousMaxCards {
		return true
	}
	sum := 0
	for _, card := range hand {
		sum += card
	}
	return sum >= CautiousStayThreshold
}
