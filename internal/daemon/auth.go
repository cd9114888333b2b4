package daemon

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// authMiddleware guards review endpoints with a bearer token. An empty
// token disables authentication, the default for localhost-only
// deployments. The comparison is constant-time so the check leaks
// nothing about how much of a guessed token matched.
func authMiddleware(token string, next http.HandlerFunc) http.HandlerFunc {
	if token == "" {
		return next
	}
	want := []byte(token)
	return func(w http.ResponseWriter, r *http.Request) {
		candidate, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(candidate), want) != 1 {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
