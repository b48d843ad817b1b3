// Package middleware provides the HTTP middleware the Wayfarer API server
// wraps around its router.
package middleware

import (
	"net/http"
	"time"

	"github.com/rs/cors"
)

// SessionHeader carries the anonymous session key that owns an itinerary
// draft when the caller is not signed in.
const SessionHeader = "X-Session-ID"

// NewCORSHandler returns a middleware that applies CORS headers for the
// given origins. Each origin is scheme plus host with no trailing slash; an
// empty list allows none.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", SessionHeader},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         int((10 * time.Minute).Seconds()),
	})
	return c.Handler
}
