package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// WriteDeadline replaces the server-wide WriteTimeout with d for requests
// accepted by match. It must sit outside wrappers that do not expose the
// underlying ResponseWriter through Unwrap.
func WriteDeadline(d time.Duration, match func(*http.Request) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if match(r) {
				err := http.NewResponseController(w).SetWriteDeadline(time.Now().Add(d))
				if err != nil && !errors.Is(err, http.ErrNotSupported) {
					slog.With("component", "middleware", "operation", "write_deadline").
						Warn("Failed to extend write deadline", "path", r.URL.Path, "error", err)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
