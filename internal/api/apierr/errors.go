package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/ftdgame/internal/model"
	"github.com/mcoot/ftdgame/internal/services/gate"
	"github.com/mcoot/ftdgame/internal/services/validation"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Error codes
const (
	CodeInvalidRequest          = "INVALID_REQUEST"
	CodeRouteNotFound           = "ROUTE_NOT_FOUND"
	CodeMethodNotAllowed        = "METHOD_NOT_ALLOWED"
	CodeValidationFailed        = "VALIDATION_FAILED"
	CodeUserExists              = "USER_EXISTS"
	CodeUserNotFound            = "USER_NOT_FOUND"
	CodeForbidden               = "FORBIDDEN"
	CodeInvalidScore            = "INVALID_SCORE"
	CodeInvalidDifficulty       = "INVALID_DIFFICULTY"
	CodeNoCredentials           = "NO_CREDENTIALS"
	CodeMalformedCredentials    = "MALFORMED_CREDENTIALS"
	CodeInvalidCredentialSyntax = "INVALID_CREDENTIAL_SYNTAX"
	CodeUnknownUser             = "UNKNOWN_USER"
	CodeBadSecret               = "BAD_SECRET"
	CodeStorageUnavailable      = "STORAGE_UNAVAILABLE"
	CodeInternalError           = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with a response body
type httpError struct {
	status int
	body   ErrorResponse
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.body.Error
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(he.body)
}

// Status returns the HTTP status err is reported with
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Aggregated reports keep every message, one per line
	var syntaxErr *gate.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &httpError{http.StatusBadRequest, ErrorResponse{syntaxErr.Report.String(), CodeInvalidCredentialSyntax}}
	}
	var validationErr *validation.Error
	if errors.As(err, &validationErr) {
		return &httpError{http.StatusBadRequest, ErrorResponse{validationErr.Report.String(), CodeValidationFailed}}
	}

	switch {
	// Backend details never reach the client
	case errors.Is(err, model.ErrStorageUnavailable):
		return &httpError{http.StatusForbidden, ErrorResponse{"Not authorized", CodeStorageUnavailable}}

	// Credential gate
	case errors.Is(err, gate.ErrNoCredentials):
		return &httpError{http.StatusForbidden, ErrorResponse{"No credentials sent!", CodeNoCredentials}}
	case errors.Is(err, gate.ErrMalformedCredentials):
		return &httpError{http.StatusBadRequest, ErrorResponse{"Malformed credentials", CodeMalformedCredentials}}
	case errors.Is(err, gate.ErrUnknownUser):
		return &httpError{http.StatusNotFound, ErrorResponse{"User does not exist", CodeUnknownUser}}
	case errors.Is(err, gate.ErrBadSecret):
		return &httpError{http.StatusForbidden, ErrorResponse{"Incorrect password", CodeBadSecret}}

	// Profile and score
	case errors.Is(err, model.ErrAlreadyExists):
		return &httpError{http.StatusConflict, ErrorResponse{"User already exists", CodeUserExists}}
	case errors.Is(err, model.ErrNotFound):
		return &httpError{http.StatusNotFound, ErrorResponse{"User does not exist", CodeUserNotFound}}
	case errors.Is(err, model.ErrForbidden):
		return &httpError{http.StatusForbidden, ErrorResponse{"Not authorized", CodeForbidden}}
	case errors.Is(err, model.ErrInvalidScore):
		return &httpError{http.StatusBadRequest, ErrorResponse{"Score must be a number", CodeInvalidScore}}
	case errors.Is(err, model.ErrInvalidDifficulty):
		return &httpError{http.StatusBadRequest, ErrorResponse{"Difficulty must be easy, normal, or hard", CodeInvalidDifficulty}}

	default:
		return &httpError{http.StatusInternalServerError, ErrorResponse{"Internal server error", CodeInternalError}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, ErrorResponse{message, CodeInvalidRequest}}
}

// NewRouteNotFoundError creates an error for paths no route matches
func NewRouteNotFoundError() error {
	return &httpError{http.StatusNotFound, ErrorResponse{"Not found", CodeRouteNotFound}}
}

// NewMethodNotAllowedError creates an error for a known path with the wrong method
func NewMethodNotAllowedError() error {
	return &httpError{http.StatusMethodNotAllowed, ErrorResponse{"Method not allowed", CodeMethodNotAllowed}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, ErrorResponse{"Internal server error", CodeInternalError}}
}
