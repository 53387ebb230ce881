// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	mux_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alex-de-haas/projectmanager/internal/auth"
	"github.com/alex-de-haas/projectmanager/internal/config"
	"github.com/alex-de-haas/projectmanager/internal/handlers"
	"github.com/alex-de-haas/projectmanager/internal/identity"
	"github.com/alex-de-haas/projectmanager/internal/middleware"
	"github.com/alex-de-haas/projectmanager/internal/repo"
)

func main() {
	// --- Load config (config.yaml + env overrides) ---
	cfg := config.Load()
	if cfg.Auth.Secret == config.InsecureDevSecret {
		log.Println("WARNING: AUTH_SECRET not set, using insecure development secret")
	}

	// --- Connect to Postgres ---
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("db ping error: %v", err)
	}

	r := repo.New(pool)
	codec := auth.NewTokenCodec(cfg.Auth.Secret, config.SessionLifetime)
	resolver := identity.New(r, codec)

	// --- Router ---
	mux := chi.NewRouter()

	mux.Use(middleware.RequestID)
	mux.Use(mux_middleware.Logger)

	// --- CORS middleware ---
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5500", "http://localhost:3000", "http://127.0.0.1:5500", "http://127.0.0.1:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by browsers
	}))

	// Every route below runs behind the gate; public paths are allow-listed
	// inside it.
	mux.Use(middleware.Gate(codec))

	// Auth routes (public, see gate allow-list)
	mux.Post("/auth/bootstrap", auth.BootstrapHandler(r, codec, cfg.Auth.SecureCookies))
	mux.Post("/auth/login", auth.LoginHandler(r, codec, cfg.Auth.SecureCookies))
	mux.Post("/auth/logout", auth.LogoutHandler())
	mux.Get("/auth/session", auth.SessionHandler(r, codec))

	// API routes
	handlers.RegisterRoutes(mux, r, resolver, config.SessionLifetime, cfg.Auth.SecureCookies)

	// Serve static files from ./static at /static/*
	mux.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("./static/"))))

	// Pages
	mux.Get("/login", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./static/login.html")
	})
	mux.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./static/index.html")
	})

	// --- Start server ---
	log.Printf("listening on %s (BASE_URL=%s)", cfg.ListenAddr, cfg.BaseURL)
	if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
		log.Fatal(err)
	}
}
