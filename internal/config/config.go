// internal/config/config.go
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// InsecureDevSecret is used when AUTH_SECRET is not set. Any non-local
// deployment MUST override it; tokens signed with it are forgeable.
const InsecureDevSecret = "projectmanager-dev-secret-do-not-deploy"

// SessionLifetime bounds the validity of issued session tokens.
const SessionLifetime = 7 * 24 * time.Hour

type Config struct {
	BaseURL    string `mapstructure:"base_url"`
	ListenAddr string `mapstructure:"listen_addr"`
	Database   struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"database"`
	Auth struct {
		Secret        string `mapstructure:"secret"`
		SecureCookies bool   `mapstructure:"secure_cookies"`
	} `mapstructure:"auth"`
}

func Load() Config {
	viper.SetDefault("listen_addr", "127.0.0.1:8080")
	viper.SetDefault("auth.secret", InsecureDevSecret)
	viper.SetDefault("auth.secure_cookies", false)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	_ = viper.ReadInConfig()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// explicit bindings
	_ = viper.BindEnv("base_url", "BASE_URL")
	_ = viper.BindEnv("listen_addr", "LISTEN_ADDR")
	_ = viper.BindEnv("database.url", "DATABASE_URL")
	_ = viper.BindEnv("auth.secret", "AUTH_SECRET")
	_ = viper.BindEnv("auth.secure_cookies", "AUTH_SECURE_COOKIES")

	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		panic("config error: " + err.Error())
	}
	if c.Database.URL == "" {
		panic("config error: database.url/DATABASE_URL required")
	}
	return c
}
