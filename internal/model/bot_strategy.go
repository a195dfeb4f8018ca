package model

// Bot strategy constants
const (
	BotStrategyCautious = "cautious"
	BotStrategyRandom   = "random"
)

// BotStrategyDisplayName returns a human-readable label for a strategy
func BotStrategyDisplayName(strategy string) string {
	switch strategy {
	case BotStrategyCautious:
		return "Cautious"
	case BotStrategyRandom:
		return "Random"
	default:
		return strategy
	}
}

// ValidBotStrategies returns all valid bot strategy names
func ValidBotStrategies() []string {
	return []string{BotStrategyCautious, BotStrategyRandom}
}
