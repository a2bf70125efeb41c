package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// Middleware guards the API with a single bearer key resolved at startup
// (from Secret Manager or the environment). An empty key disables the guard.
type Middleware struct {
	APIKey string
}

func NewMiddleware(apiKey string) *Middleware {
	return &Middleware{APIKey: apiKey}
}

func (m *Middleware) RequireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.APIKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		if header == "" {
			http.Error(w, "missing Authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, "invalid Authorization header", http.StatusUnauthorized)
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(m.APIKey)) != 1 {
			http.Error(w, "invalid API key", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
