package registry

import "time"

// Config holds idle-expiry settings for live sessions
type Config struct {
	// LobbyIdleTimeout discards lobbies that have not started and saw no action
	LobbyIdleTimeout time.Duration
	// GameIdleTimeout discards games (running or finished) that saw no action
	GameIdleTimeout time.Duration
	// ReapInterval is how often the reaper sweeps
	ReapInterval time.Duration
}

// DefaultConfig returns the default idle windows
func DefaultConfig() Config {
	return Config{
		LobbyIdleTimeout: 60 * time.Second,
		GameIdleTimeout:  120 * time.Second,
		ReapInterval:     10 * time.Second,
	}
}
