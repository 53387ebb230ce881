// internal/handlers/router.go
package handlers

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/alex-de-haas/projectmanager/internal/handlers/dayoffs"
	"github.com/alex-de-haas/projectmanager/internal/handlers/projects"
	"github.com/alex-de-haas/projectmanager/internal/handlers/releases"
	"github.com/alex-de-haas/projectmanager/internal/handlers/tasks"
	"github.com/alex-de-haas/projectmanager/internal/handlers/users"
	"github.com/alex-de-haas/projectmanager/internal/identity"
	"github.com/alex-de-haas/projectmanager/internal/repo"
)

// RegisterRoutes wires the CRUD API. Authentication is enforced router-wide
// by the gate; each handler resolves its own (user, project) pair.
func RegisterRoutes(mux *chi.Mux, r repo.Repo, rs *identity.Resolver, cookieTTL time.Duration, secureCookies bool) {
	th := tasks.New(r, rs)
	mux.Route("/api/tasks", func(sr chi.Router) {
		sr.Get("/", th.List)
		sr.Post("/", th.Create)
		sr.Put("/{taskID}", th.Update)
		sr.Delete("/{taskID}", th.Delete)
	})

	rh := releases.New(r, rs)
	mux.Route("/api/releases", func(sr chi.Router) {
		sr.Get("/", rh.List)
		sr.Post("/", rh.Create)
		sr.Delete("/{releaseID}", rh.Delete)
	})

	dh := dayoffs.New(r, rs)
	mux.Route("/api/dayoffs", func(sr chi.Router) {
		sr.Get("/", dh.List)
		sr.Post("/", dh.Create)
		sr.Delete("/{dayOffID}", dh.Delete)
	})

	ph := projects.New(r, rs, cookieTTL, secureCookies)
	mux.Route("/api/projects", func(sr chi.Router) {
		sr.Get("/", ph.List)
		sr.Get("/current", ph.Current)
		sr.Post("/select", ph.Select)
	})

	uh := users.New(r, rs)
	mux.Route("/api/users", func(sr chi.Router) {
		sr.Get("/", uh.List)
		sr.Post("/", uh.Create)
	})
}
