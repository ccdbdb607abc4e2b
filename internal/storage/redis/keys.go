package redis

import (
	"fmt"

	"github.com/mcoot/ftdgame/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "ftd"

// identityKey returns the Redis key for an identity record
func identityKey(username string) string {
	return fmt.Sprintf("%s:identity:%s", keyPrefix, username)
}

// resultKey returns the Redis key for a GameResult
func resultKey(id model.ResultID) string {
	return fmt.Sprintf("%s:result:%s", keyPrefix, id)
}

// leaderboardKey returns the Redis key for the sorted set of result ids by score
func leaderboardKey() string {
	return fmt.Sprintf("%s:leaderboard", keyPrefix)
}
