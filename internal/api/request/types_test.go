package request

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooseAcceptsStringsAndNumbers(t *testing.T) {
	tests := []struct {
		body string
		want ScoreRequest
	}{
		{`{"score":"12","difficulty":"1"}`, ScoreRequest{Score: "12", Difficulty: "1"}},
		{`{"score":12,"difficulty":1}`, ScoreRequest{Score: "12", Difficulty: "1"}},
		{`{"score":null}`, ScoreRequest{}},
		{`{"score":1.5,"difficulty":true}`, ScoreRequest{Score: "1.5", Difficulty: "true"}},
		{`{"username":"bob","score":"12a"}`, ScoreRequest{Username: "bob", Score: "12a"}},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var got ScoreRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProfileRequestFieldNames(t *testing.T) {
	body := `{"username":"bob","password":"p","confirmPassword":"p","email":"e","firstName":"f",
		"lastName":"l","birthday":"b","pizza":"yes","soda":"Water"}`

	var req ProfileRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	p := req.Profile()
	assert.Equal(t, "bob", p.Username)
	assert.Equal(t, "p", p.Secret)
	assert.Equal(t, "p", p.ConfirmSecret)
	assert.Equal(t, "yes", p.PizzaPreference)
	assert.Equal(t, "Water", p.SodaPreference)
}

func TestDecodeEmptyBody(t *testing.T) {
	var req ProfileRequest
	r := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(""))
	require.NoError(t, Decode(r, &req))
	assert.Equal(t, ProfileRequest{}, req)
}

func TestDecodeInvalidBody(t *testing.T) {
	var req ProfileRequest
	r := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader("{not json"))
	assert.Error(t, Decode(r, &req))
}
