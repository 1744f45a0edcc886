package devserver

import (
	"net/http"
	"slices"
	"strconv"
)

// CORSConfig controls cross-origin access to the server, so a frontend dev
// server on another port can fetch declarations directly.
type CORSConfig struct {
	// AllowOrigins lists the origins allowed to call the server. "*" or an
	// empty list allows every origin.
	AllowOrigins []string

	// MaxAge is how long, in seconds, a preflight result may be cached.
	// Zero leaves the header unset.
	MaxAge int
}

const (
	corsMethods = "GET, OPTIONS"
	corsHeaders = "Content-Type"
)

// CORS wraps next with CORS headers and answers preflight requests.
func CORS(cfg CORSConfig, next http.Handler) http.Handler {
	wildcard := len(cfg.AllowOrigins) == 0 || slices.Contains(cfg.AllowOrigins, "*")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case wildcard:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(cfg.AllowOrigins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", corsMethods)
			w.Header().Set("Access-Control-Allow-Headers", corsHeaders)
			if cfg.MaxAge > 0 {
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
