package auth

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/sha1n/mcp-docs-server/internal/config"
)

// Middleware wraps an http.Handler with an authentication check.
type Middleware = func(http.Handler) http.Handler

// openPaths bypass authentication (health checks must work unauthenticated
// for load balancers).
var openPaths = map[string]bool{
	"/health": true,
}

// NewMiddleware creates the authentication middleware selected by settings.
func NewMiddleware(settings config.AuthSettings) (Middleware, error) {
	switch settings.Type {
	case config.AuthTypeNone, "":
		return passthrough, nil
	case config.AuthTypeBasic:
		if settings.Basic.Username == "" || settings.Basic.Password == "" {
			return nil, fmt.Errorf("basic auth requires non-empty username and password")
		}
		return skipOpenPaths(requireBasic(settings.Basic)), nil
	case config.AuthTypeAPIKey:
		if len(settings.APIKeys) == 0 {
			return nil, fmt.Errorf("apikey auth requires at least one API key")
		}
		return skipOpenPaths(requireAPIKey(settings.APIKeys)), nil
	default:
		return nil, fmt.Errorf("unknown auth type: %s", settings.Type)
	}
}

func passthrough(next http.Handler) http.Handler {
	return next
}

// skipOpenPaths lets requests to open paths through without credentials.
func skipOpenPaths(authed Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		guarded := authed(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if openPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			guarded.ServeHTTP(w, r)
		})
	}
}

func requireBasic(settings config.BasicAuthSettings) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(settings.Username)) == 1
			passMatch := subtle.ConstantTimeCompare([]byte(pass), []byte(settings.Password)) == 1
			if !ok || !userMatch || !passMatch {
				w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requireAPIKey(apiKeys []string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := requestAPIKey(r)
			if key == "" || !keyMatches(key, apiKeys) {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestAPIKey extracts the presented key from either the X-API-Key header
// or an Authorization bearer token, which is what most MCP clients send.
func requestAPIKey(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	authz := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(authz, "Bearer "); ok {
		return token
	}
	return ""
}

func keyMatches(key string, apiKeys []string) bool {
	valid := false
	for _, candidate := range apiKeys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(candidate)) == 1 {
			valid = true
		}
	}
	return valid
}
