package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mcoot/ftdgame/internal/model"
)

// Loose holds a JSON string or number as its literal text.
// Anything else is kept verbatim so later checks reject it.
type Loose string

// UnmarshalJSON accepts "12", 12 and null
func (l *Loose) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*l = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = Loose(s)
	default:
		*l = Loose(b)
	}
	return nil
}

// ProfileRequest is the request body for registering or updating an identity
type ProfileRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Email           string `json:"email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Birthday        string `json:"birthday"`
	Pizza           string `json:"pizza"`
	Soda            string `json:"soda"`
}

// Profile converts the request to a model.Profile
func (r ProfileRequest) Profile() model.Profile {
	return model.Profile{
		Username:        r.Username,
		Secret:          r.Password,
		ConfirmSecret:   r.ConfirmPassword,
		Email:           r.Email,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Birthday:        r.Birthday,
		PizzaPreference: r.Pizza,
		SodaPreference:  r.Soda,
	}
}

// ScoreRequest is the request body for recording a game result
type ScoreRequest struct {
	Username   string `json:"username"`
	Score      Loose  `json:"score"`
	Difficulty Loose  `json:"difficulty"`
}

// Decode reads a JSON body into v. An empty body leaves v at its zero value.
func Decode(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
