package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000", // local dev
	"http://localhost:5173", // vite dev server
}

// CORS returns middleware that applies the API's allowed origin policy. The
// configured client URL is appended to the local development defaults.
func CORS(clientURL string) func(http.Handler) http.Handler {
	origins := defaultCORSOrigins
	if trimmed := strings.TrimRight(strings.TrimSpace(clientURL), "/"); trimmed != "" {
		origins = append(append([]string{}, origins...), trimmed)
	}

	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
