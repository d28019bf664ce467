package middleware

import "net/http"

// CORS returns middleware applying a permissive cross-origin policy.
//
// The browser client runs on a different origin than this server and
// needs canvas access to served frames, so every response carries
// wildcard CORS and a cross-origin resource policy.
func CORS() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, HEAD, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, x-session-id")
			w.Header().Set("Cross-Origin-Resource-Policy", "cross-origin")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
