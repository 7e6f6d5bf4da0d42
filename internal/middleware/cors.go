package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS returns the CORS middleware for the configured frontend origins.
// Preflight gets a clean 200 before rate limiting or anything else runs.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
