package model

import "time"

// ResultID uniquely identifies a GameResult. IDs sort in insertion order.
type ResultID string

// Difficulty is the difficulty a game was played at
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// difficultyCodes maps the numeric codes clients submit to difficulties
var difficultyCodes = map[string]Difficulty{
	"0": DifficultyEasy,
	"1": DifficultyNormal,
	"2": DifficultyHard,
}

// DifficultyFromCode maps a submitted code ("0", "1" or "2") to a Difficulty
func DifficultyFromCode(code string) (Difficulty, bool) {
	d, ok := difficultyCodes[code]
	return d, ok
}

// GameResult is one recorded play session. Results are append-only.
type GameResult struct {
	ID         ResultID   `json:"id"`
	Username   string     `json:"username"` // may no longer exist as an Identity
	Score      int64      `json:"score"`
	Difficulty Difficulty `json:"difficulty"`
	PlayedAt   time.Time  `json:"playedAt"` // server-assigned
}
