package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/ftdgame/internal/model"
	"github.com/mcoot/ftdgame/internal/services/gate"
	"github.com/mcoot/ftdgame/internal/services/validation"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"no credentials", gate.ErrNoCredentials, http.StatusForbidden, CodeNoCredentials},
		{"malformed", gate.ErrMalformedCredentials, http.StatusBadRequest, CodeMalformedCredentials},
		{"credential syntax", &gate.SyntaxError{Report: validation.ValidateLogin("", "")}, http.StatusBadRequest, CodeInvalidCredentialSyntax},
		{"unknown user", gate.ErrUnknownUser, http.StatusNotFound, CodeUnknownUser},
		{"bad secret", gate.ErrBadSecret, http.StatusForbidden, CodeBadSecret},
		{"validation", validation.ValidateLogin("a b", "x").AsError(), http.StatusBadRequest, CodeValidationFailed},
		{"exists", model.ErrAlreadyExists, http.StatusConflict, CodeUserExists},
		{"not found", model.ErrNotFound, http.StatusNotFound, CodeUserNotFound},
		{"forbidden", model.ErrForbidden, http.StatusForbidden, CodeForbidden},
		{"invalid score", model.ErrInvalidScore, http.StatusBadRequest, CodeInvalidScore},
		{"invalid difficulty", model.ErrInvalidDifficulty, http.StatusBadRequest, CodeInvalidDifficulty},
		{"storage", model.StorageFailure(errors.New("dial tcp: refused")), http.StatusForbidden, CodeStorageUnavailable},
		{"wrapped sentinel", fmt.Errorf("context: %w", model.ErrNotFound), http.StatusNotFound, CodeUserNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternalError},
		{"invalid request", NewInvalidRequestError("invalid request body"), http.StatusBadRequest, CodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, tt.err)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.status, Status(tt.err))
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestValidationMessagesJoinedByLine(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, validation.ValidateLogin("", "").AsError())

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Username is required\nPassword is required", body.Error)
}

func TestStorageFailureHidesCause(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, model.StorageFailure(errors.New("pq: password authentication failed")))

	assert.NotContains(t, rr.Body.String(), "pq:")
	assert.Contains(t, rr.Body.String(), "Not authorized")
}
