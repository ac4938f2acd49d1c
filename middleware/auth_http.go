// middleware/auth_http.go - net/http middleware for the internal ops server
package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"

	"taskquest/utils"
)

// InternalAuthMiddleware guards the internal ops endpoints (sweep trigger)
// with a shared token. The ops server only listens on an internal port, the
// token is a second fence for misrouted traffic.
func InternalAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expected := os.Getenv("OPS_TOKEN")
		if expected == "" {
			utils.JSONError(w, http.StatusServiceUnavailable, "OPS_TOKEN not configured")
			return
		}

		got := r.Header.Get("X-Ops-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			utils.JSONError(w, http.StatusUnauthorized, "Invalid ops token")
			return
		}

		next.ServeHTTP(w, r)
	})
}
