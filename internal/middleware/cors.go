package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// AllowCors wraps the whole handler, preflight requests never reach the
// router.
func AllowCors(allowOrigins []string, handler http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   allowOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", UserIDHeader},
		AllowCredentials: true,
	}).Handler(handler)
}
