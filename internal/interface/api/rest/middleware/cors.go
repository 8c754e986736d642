package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS wraps the whole engine so preflight requests are answered before gin
// routing sees them. origins of ["*"] allows any origin.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Disposition", "Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
