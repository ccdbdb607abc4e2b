package response

import (
	"time"

	"github.com/mcoot/ftdgame/internal/model"
)

// Message is the body of a successful request with nothing else to return
type Message struct {
	Message string `json:"message"`
}

// Profile is an identity as shown to its owner. The secret is never included.
type Profile struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Birthday  string `json:"birthday"`
	Pizza     string `json:"pizza"`
	Soda      string `json:"soda"`
}

// ProfileFromModel converts a model.Identity to a response Profile
func ProfileFromModel(i *model.Identity) Profile {
	return Profile{
		Username:  i.Username,
		Email:     i.Email,
		FirstName: i.FirstName,
		LastName:  i.LastName,
		Birthday:  i.Birthday,
		Pizza:     string(i.PizzaPreference),
		Soda:      string(i.SodaPreference),
	}
}

// ScoreRecorded confirms a recorded game result
type ScoreRecorded struct {
	Message    string    `json:"message"`
	ID         string    `json:"id"`
	Difficulty string    `json:"difficulty"`
	PlayedAt   time.Time `json:"playedAt"`
}

// ScoreRecordedFromModel converts a model.GameResult to a ScoreRecorded
func ScoreRecordedFromModel(r *model.GameResult) ScoreRecorded {
	return ScoreRecorded{
		Message:    "Score recorded",
		ID:         string(r.ID),
		Difficulty: string(r.Difficulty),
		PlayedAt:   r.PlayedAt,
	}
}

// Health reports liveness and storage reachability
type Health struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}
