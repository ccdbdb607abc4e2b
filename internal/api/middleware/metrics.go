package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/ftdgame/internal/metrics"
	"github.com/mcoot/ftdgame/internal/middleware"
)

// Metrics records a request count and duration per route template
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := middleware.Wrap(w)

			next.ServeHTTP(wrapped, r)

			m.RecordRequest(routeName(r), r.Method, wrapped.Status(), time.Since(start))
		})
	}
}

// routeName returns the matched path template, so /users/alice and /users/bob share a label
func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
