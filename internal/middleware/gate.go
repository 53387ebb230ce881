// internal/middleware/gate.go
package middleware

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alex-de-haas/projectmanager/internal/auth"
	httpserver "github.com/alex-de-haas/projectmanager/internal/http"
)

const (
	loginPath     = "/login"
	homePath      = "/"
	apiPrefix     = "/api/"
	staticPrefix  = "/static/"
	nextParamName = "next"
)

// publicPaths bypass authentication entirely. Exactly the login page and the
// auth bootstrap/login/logout/session endpoints; static assets are matched
// by prefix.
var publicPaths = map[string]bool{
	loginPath:         true,
	"/auth/bootstrap": true,
	"/auth/login":     true,
	"/auth/logout":    true,
	"/auth/session":   true,
}

func isPublic(path string) bool {
	return publicPaths[path] || strings.HasPrefix(path, staticPrefix)
}

// Gate intercepts every request before route dispatch. A malformed or
// expired token is treated the same as no token; the gate only allows,
// redirects, or denies — it never errors.
//
// Decision table:
//   - public path, authenticated, login page  -> redirect home
//   - public path                             -> pass
//   - non-public API path, unauthenticated    -> 401 {"error":"Unauthorized"}
//   - non-public page path, unauthenticated   -> redirect /login?next=...
//   - non-public path, authenticated          -> pass, user id in context
func Gate(codec *auth.TokenCodec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			var userID int64
			authed := false
			if tok := auth.ReadToken(req); tok != "" {
				if id, err := codec.Verify(tok, time.Now()); err == nil {
					userID, authed = id, true
				}
			}

			path := req.URL.Path
			if isPublic(path) {
				if authed && path == loginPath {
					http.Redirect(w, req, homePath, http.StatusFound)
					return
				}
				next.ServeHTTP(w, req)
				return
			}

			if !authed {
				if strings.HasPrefix(path, apiPrefix) {
					httpserver.Error(w, http.StatusUnauthorized, "Unauthorized")
					return
				}
				target := path
				if req.URL.RawQuery != "" {
					target += "?" + req.URL.RawQuery
				}
				http.Redirect(w, req, loginPath+"?"+nextParamName+"="+url.QueryEscape(target), http.StatusFound)
				return
			}

			ctx := auth.WithUserID(req.Context(), userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}
