package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Recorder receives one observation per served request.
type Recorder interface {
	ObserveRequest(route, method string, status int, elapsed time.Duration)
}

// Instrument reports every request to rec, labelled with the chi route
// pattern rather than the raw path so label cardinality stays bounded.
func Instrument(rec Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(ww, r)

			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}
			rec.ObserveRequest(route, r.Method, ww.status, time.Since(start))
		})
	}
}
