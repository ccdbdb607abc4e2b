package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/ftdgame/internal/api/apierr"
	"github.com/mcoot/ftdgame/internal/middleware"
)

// Recovery creates panic recovery middleware for the API.
// A panic becomes the standard JSON 500 body.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, apiPanicHandler)
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
