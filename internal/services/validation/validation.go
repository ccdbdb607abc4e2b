// Package validation checks the syntax of identity and profile fields.
//
// Every rule is evaluated independently and failures accumulate into a Report,
// so a caller sees all problems with a submission at once.
package validation

import (
	"regexp"
	"strings"

	"github.com/mcoot/ftdgame/internal/model"
)

// Field names used in reports
const (
	FieldUsername      = "username"
	FieldSecret        = "password"
	FieldConfirmSecret = "confirmPassword"
	FieldEmail         = "email"
	FieldFirstName     = "firstName"
	FieldLastName      = "lastName"
	FieldBirthday      = "birthday"
	FieldPizza         = "pizza"
	FieldSoda          = "soda"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	secretPattern   = regexp.MustCompile(`^[A-Za-z0-9_~!@#$%^&*,.]+$`)
	emailPattern    = regexp.MustCompile(`^[^\s\x0B\p{Z}@]+@[^\s\x0B\p{Z}@]+\.[^\s\x0B\p{Z}@]+$`)
	namePattern     = regexp.MustCompile(`^[A-Za-z]+$`)
	birthdayPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[012])-(0[1-9]|[12][0-9]|3[01])$`)
	naturalPattern  = regexp.MustCompile(`^[0-9]+$`)
)

// FieldError is a single failed rule
type FieldError struct {
	Field   string
	Message string
}

// Report is the ordered list of failed rules. An empty report means valid.
type Report []FieldError

// Valid returns true if no rule failed
func (r Report) Valid() bool {
	return len(r) == 0
}

// Has returns true if any failure was reported for field
func (r Report) Has(field string) bool {
	for _, fe := range r {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// String joins the messages one per line
func (r Report) String() string {
	msgs := make([]string, len(r))
	for i, fe := range r {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "\n")
}

func (r *Report) add(field, message string) {
	*r = append(*r, FieldError{Field: field, Message: message})
}

// Error wraps a non-empty Report as an error matching model.ErrValidationFailed
type Error struct {
	Report Report
}

func (e *Error) Error() string {
	return e.Report.String()
}

func (e *Error) Is(target error) bool {
	return target == model.ErrValidationFailed
}

// AsError returns nil for a valid report, otherwise an *Error
func (r Report) AsError() error {
	if r.Valid() {
		return nil
	}
	return &Error{Report: r}
}

// ValidateLogin checks only the username and secret syntax
func ValidateLogin(username, secret string) Report {
	var r Report
	checkLogin(&r, username, secret)
	return r
}

// ValidateProfile checks every profile field
func ValidateProfile(p model.Profile) Report {
	var r Report
	checkLogin(&r, p.Username, p.Secret)

	// Confirmation is only compared once the secret itself is well formed
	if p.Secret != "" && secretPattern.MatchString(p.Secret) {
		switch {
		case p.ConfirmSecret == "":
			r.add(FieldConfirmSecret, "Re-enter your password")
		case p.ConfirmSecret != p.Secret:
			r.add(FieldConfirmSecret, "Passwords do not match")
		}
	}

	switch {
	case p.Email == "":
		r.add(FieldEmail, "Email is required")
	case !emailPattern.MatchString(p.Email):
		r.add(FieldEmail, "Email must be of the form johnsmith@mail.com")
	}

	checkName(&r, FieldFirstName, "First name", p.FirstName)
	checkName(&r, FieldLastName, "Last name", p.LastName)

	switch {
	case p.Birthday == "":
		r.add(FieldBirthday, "Birthday is required")
	case !birthdayPattern.MatchString(p.Birthday):
		r.add(FieldBirthday, "Birthday must be in the form of YYYY-MM-DD")
	}

	if p.PizzaPreference != string(model.PizzaYes) && p.PizzaPreference != string(model.PizzaNo) {
		r.add(FieldPizza, "Please specify if you like pineapple on pizza")
	}

	if !model.IsKnownSoda(p.SodaPreference) {
		r.add(FieldSoda, "Please choose one of the listed sodas")
	}

	return r
}

// IsNaturalNumber reports whether s is a non-empty run of decimal digits
func IsNaturalNumber(s string) bool {
	return naturalPattern.MatchString(s)
}

func checkLogin(r *Report, username, secret string) {
	switch {
	case username == "":
		r.add(FieldUsername, "Username is required")
	case !usernamePattern.MatchString(username):
		r.add(FieldUsername, "Username must contain only characters from a-Z, 0-9, _")
	}

	switch {
	case secret == "":
		r.add(FieldSecret, "Password is required")
	case !secretPattern.MatchString(secret):
		r.add(FieldSecret, "Password must contain only characters from a-Z, 0-9, .,~!@#$%^&*-_")
	}
}

func checkName(r *Report, field, label, value string) {
	switch {
	case value == "":
		r.add(field, label+" is required")
	case !namePattern.MatchString(value):
		r.add(field, label+" must contain only letters")
	}
}
