// ABOUTME: Permissive CORS headers for the generate protocol endpoint
// ABOUTME: Answers preflight requests on the protocol path directly with 204

package middleware

import (
	"net/http"
	"strings"
)

const (
	protocolAllowMethods = "GET, POST, OPTIONS"
	protocolAllowHeaders = "Content-Type, Accept, Authorization"
)

// ProtocolCORS sets the protocol CORS headers on every response under path
// and ends OPTIONS requests there with an empty 204.
func ProtocolCORS(path string) func(http.Handler) http.Handler {
	path = strings.TrimSuffix(path, "/")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.TrimSuffix(r.URL.Path, "/") != path {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", protocolAllowMethods)
			w.Header().Set("Access-Control-Allow-Headers", protocolAllowHeaders)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
