package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://pm:pm@localhost:5432/pm?sslmode=disable")
	t.Setenv("BASE_URL", "https://pm.example.com")
	t.Setenv("AUTH_SECRET", "from-env")
	t.Setenv("LISTEN_ADDR", ":9090")

	cfg := Load()

	assert.Equal(t, "postgres://pm:pm@localhost:5432/pm?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, "https://pm.example.com", cfg.BaseURL)
	assert.Equal(t, "from-env", cfg.Auth.Secret)
	assert.Equal(t, ":9090", cfg.ListenAddr)
}

func TestLoad_InsecureDefaultSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://pm:pm@localhost:5432/pm?sslmode=disable")
	t.Setenv("AUTH_SECRET", "")

	cfg := Load()

	// Empty env value falls back to the development default. Deployments
	// must set AUTH_SECRET; main logs a warning when they have not.
	assert.Equal(t, InsecureDevSecret, cfg.Auth.Secret)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.False(t, cfg.Auth.SecureCookies)
}
