// internal/auth/handlers.go
package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	httpserver "github.com/alex-de-haas/projectmanager/internal/http"
	"github.com/alex-de-haas/projectmanager/internal/models"
	"github.com/alex-de-haas/projectmanager/internal/repo"
)

type sessionResponse struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Admin  bool   `json:"admin"`
}

// BootstrapHandler creates the very first user (as admin) when the store is
// empty, and logs them in. Any later call is rejected; invite/creation flows
// own user provisioning after that.
// POST /auth/bootstrap { "name": "...", "email": "...", "password": "..." }
func BootstrapHandler(r repo.Repo, codec *TokenCodec, secureCookies bool) http.HandlerFunc {
	type bodyT struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	return func(w http.ResponseWriter, req *http.Request) {
		var b bodyT
		if err := json.NewDecoder(req.Body).Decode(&b); err != nil || strings.TrimSpace(b.Email) == "" {
			httpserver.Error(w, http.StatusBadRequest, "bad json")
			return
		}
		if err := checkPasswordPolicy(b.Password); err != nil {
			httpserver.Error(w, http.StatusBadRequest, "weak password")
			return
		}
		n, err := r.CountUsers(req.Context())
		if err != nil {
			httpserver.Error(w, http.StatusInternalServerError, "server error")
			return
		}
		if n > 0 {
			httpserver.Error(w, http.StatusConflict, models.ErrNotBootstrap.Error())
			return
		}
		phc, err := HashPassword(b.Password)
		if err != nil {
			httpserver.Error(w, http.StatusInternalServerError, "hash error")
			return
		}
		u, err := r.CreateUser(req.Context(), strings.TrimSpace(b.Name), b.Email, phc, true)
		if err != nil {
			if errors.Is(err, models.ErrEmailTaken) {
				httpserver.Error(w, http.StatusConflict, err.Error())
				return
			}
			httpserver.Error(w, http.StatusInternalServerError, "create user failed")
			return
		}
		issueSession(w, codec, u, secureCookies)
		httpserver.JSON(w, http.StatusCreated, sessionResponse{
			UserID: u.ID, Name: u.Name, Email: u.Email, Admin: u.Admin,
		})
	}
}

// LoginHandler authenticates email+password and issues the signed session
// cookie pair.
// POST /auth/login { "email": "...", "password": "...", "next": "/tasks" }
func LoginHandler(r repo.Repo, codec *TokenCodec, secureCookies bool) http.HandlerFunc {
	type bodyT struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Next     string `json:"next"`
	}
	return func(w http.ResponseWriter, req *http.Request) {
		var b bodyT
		if err := json.NewDecoder(req.Body).Decode(&b); err != nil {
			httpserver.Error(w, http.StatusBadRequest, "bad json")
			return
		}
		u, err := r.GetUserByEmail(req.Context(), b.Email)
		if err != nil {
			if errors.Is(err, models.ErrUserNotFound) {
				httpserver.Error(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			httpserver.Error(w, http.StatusInternalServerError, "server error")
			return
		}
		if !VerifyPassword(b.Password, u.PasswordHash) {
			httpserver.Error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		issueSession(w, codec, u, secureCookies)
		httpserver.JSON(w, http.StatusOK, map[string]any{
			"user":     sessionResponse{UserID: u.ID, Name: u.Name, Email: u.Email, Admin: u.Admin},
			"redirect": safeNext(b.Next),
		})
	}
}

// LogoutHandler clears all session cookies. Tokens stay valid until expiry
// (stateless scheme); logout only removes them from the browser.
func LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ClearSessionCookies(w)
		httpserver.JSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}

// SessionHandler reports the current session's user, or 401.
// GET /auth/session
func SessionHandler(r repo.Repo, codec *TokenCodec) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		tok := ReadToken(req)
		if tok == "" {
			httpserver.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		uid, err := codec.Verify(tok, time.Now())
		if err != nil {
			httpserver.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		u, err := r.GetUserByID(req.Context(), uid)
		if err != nil {
			httpserver.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		httpserver.JSON(w, http.StatusOK, sessionResponse{
			UserID: u.ID, Name: u.Name, Email: u.Email, Admin: u.Admin,
		})
	}
}

func issueSession(w http.ResponseWriter, codec *TokenCodec, u models.User, secure bool) {
	token := codec.Create(u.ID, time.Now())
	SetSessionCookies(w, token, u.ID, codec.Lifetime(), secure)
}

// safeNext keeps post-login redirects same-origin: relative path only, no
// protocol-relative "//host" form.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
