package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// Logger returns middleware that logs each request's method, URI, status and duration.
func Logger(logger *slog.Logger) Func {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r)
			logger.Info(
				"request",
				"method", r.Method,
				"uri", r.URL.RequestURI(),
				"status", sw.Status(),
				"addr", r.RemoteAddr,
				"duration", time.Since(start),
			)
		})
	}
}

// Observer receives the outcome of every request. r.Pattern holds the
// matched route once the inner mux has dispatched.
type Observer func(r *http.Request, status int, elapsed time.Duration)

// Observe returns middleware that reports each completed request to obs.
func Observe(obs Observer) Func {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r)
			obs(r, sw.Status(), time.Since(start))
		})
	}
}
