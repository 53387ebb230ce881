// internal/auth/cookies.go
package auth

import (
	"net/http"
	"strconv"
	"time"
)

const (
	// SessionCookie carries the signed token; httpOnly, re-verified every
	// request.
	SessionCookie = "pm_auth"
	// UserIDCookie mirrors the user id for client-side display. Never
	// trusted for authorization; the resolver re-validates it against the
	// store like any other hint.
	UserIDCookie = "pm_user_id"
	// ProjectCookie holds the last-selected project id, a hint that is
	// re-validated against membership server-side on every request.
	ProjectCookie = "pm_project_id"
)

// SetSessionCookies writes the signed session cookie plus the plain user id
// companion.
func SetSessionCookies(w http.ResponseWriter, token string, userID int64, lifetime time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(lifetime.Seconds()),
	})
	http.SetCookie(w, &http.Cookie{
		Name:     UserIDCookie,
		Value:    strconv.FormatInt(userID, 10),
		Path:     "/",
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(lifetime.Seconds()),
	})
}

// SetProjectCookie records the last-selected project id.
func SetProjectCookie(w http.ResponseWriter, projectID int64, lifetime time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     ProjectCookie,
		Value:    strconv.FormatInt(projectID, 10),
		Path:     "/",
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(lifetime.Seconds()),
	})
}

// ClearSessionCookies expires all session-related cookies.
func ClearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{SessionCookie, UserIDCookie, ProjectCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:   name,
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
	}
}

// ReadToken extracts the raw session token from the request, or "" if the
// cookie is absent.
func ReadToken(r *http.Request) string {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return c.Value
}
