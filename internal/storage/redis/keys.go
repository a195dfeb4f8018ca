package redis

import (
	"fmt"

	"github.com/mcoot/flip7/internal/model"
)

// Key prefix for everything this service writes
const keyPrefix = "flip7"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// registeredPlayerKey returns the Redis key for a RegisteredPlayer
func registeredPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// resultKey returns the Redis key for a GameResult
func resultKey(id model.GameID) string {
	return fmt.Sprintf("%s:result:%s", keyPrefix, id)
}

// recentResultsKey returns the Redis key for the LIST of recent game IDs, newest first
func recentResultsKey() string {
	return fmt.Sprintf("%s:idx:recent_results", keyPrefix)
}
