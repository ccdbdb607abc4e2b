package model

import "time"

// PizzaPreference records whether a player likes pineapple on pizza
type PizzaPreference string

const (
	PizzaYes PizzaPreference = "yes"
	PizzaNo  PizzaPreference = "no"
)

// Soda is one entry of the fixed soda list
type Soda string

// Sodas is the closed set of accepted soda preferences (case-sensitive)
var Sodas = []Soda{
	"Water",
	"Pepsi Cola",
	"Coca Cola",
	"7UP",
	"Sprite",
	"Fanta",
	"President's Choice",
}

// IsKnownSoda reports whether s exactly matches one of Sodas
func IsKnownSoda(s string) bool {
	for _, soda := range Sodas {
		if string(soda) == s {
			return true
		}
	}
	return false
}

// Identity is a registered player's profile, keyed by username.
// The secret is never part of this struct; storage keeps only its one-way hash.
type Identity struct {
	Username        string          `json:"username"`
	Email           string          `json:"email"`
	FirstName       string          `json:"firstName"`
	LastName        string          `json:"lastName"`
	Birthday        string          `json:"birthday"` // YYYY-MM-DD
	PizzaPreference PizzaPreference `json:"pizza"`
	SodaPreference  Soda            `json:"soda"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Profile is the raw, unvalidated profile submission for register and update
type Profile struct {
	Username        string
	Secret          string
	ConfirmSecret   string
	Email           string
	FirstName       string
	LastName        string
	Birthday        string
	PizzaPreference string
	SodaPreference  string
}

// Identity converts a validated profile into an Identity (without the secret)
func (p Profile) Identity() *Identity {
	return &Identity{
		Username:        p.Username,
		Email:           p.Email,
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		Birthday:        p.Birthday,
		PizzaPreference: PizzaPreference(p.PizzaPreference),
		SodaPreference:  Soda(p.SodaPreference),
	}
}
