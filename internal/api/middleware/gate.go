package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/mcoot/ftdgame/internal/api/apierr"
	"github.com/mcoot/ftdgame/internal/metrics"
	"github.com/mcoot/ftdgame/internal/model"
	"github.com/mcoot/ftdgame/internal/services/gate"
)

type contextKey string

const callerContextKey contextKey = "caller"

// Gate verifies the Authorization header of every request before it reaches next.
// A rejected request never reaches next.
func Gate(g *gate.Gate, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, err := g.Verify(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				if errors.Is(err, model.ErrStorageUnavailable) {
					m.RecordGate(metrics.GateUnhealthy, "")
				} else {
					m.RecordGate(metrics.GateRejected, rejectionReason(err))
				}
				apierr.WriteError(w, err)
				return
			}

			m.RecordGate(metrics.GateAccepted, "")
			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), username)))
		})
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, gate.ErrNoCredentials):
		return "no_credentials"
	case errors.Is(err, gate.ErrMalformedCredentials):
		return "malformed"
	case errors.Is(err, gate.ErrInvalidCredentialSyntax):
		return "invalid_syntax"
	case errors.Is(err, gate.ErrUnknownUser):
		return "unknown_user"
	case errors.Is(err, gate.ErrBadSecret):
		return "bad_secret"
	default:
		return "other"
	}
}

// WithCaller returns a context carrying the verified username
func WithCaller(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, callerContextKey, username)
}

// GetCaller returns the verified username from the request context
func GetCaller(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(callerContextKey).(string)
	return username, ok && username != ""
}

// MustGetCaller returns the verified username or panics
func MustGetCaller(ctx context.Context) string {
	username, ok := GetCaller(ctx)
	if !ok {
		panic("no caller in context - gate middleware not applied?")
	}
	return username
}
