// Package config loads runtime configuration from the environment and an
// optional config file.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime settings.
type Config struct {
	// Server
	Addr           string
	AllowedOrigins []string

	// Persistence
	DatabaseURL string

	// Auth
	BcryptCost    int
	SessionTTL    time.Duration
	SweepInterval time.Duration

	// Optional upstream identity
	ForwardAuth      bool
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string
}

// Load reads configuration using Viper: defaults, then an optional yaml
// file, then environment variables.
func Load() *Config {
	viper.SetDefault("ADDR", ":8080")
	viper.SetDefault("ALLOWED_ORIGINS", []string{"*"})

	viper.SetDefault("BCRYPT_COST", 0) // 0 means library default
	viper.SetDefault("SESSION_TTL", "24h")
	viper.SetDefault("SWEEP_INTERVAL", "1h")

	viper.SetDefault("FORWARD_AUTH", false)
	// OIDC settings default to empty; SSO stays disabled until all of
	// issuer, client id and client secret are set.

	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	_ = viper.ReadInConfig() // ignore error if no file

	return &Config{
		Addr:             viper.GetString("ADDR"),
		AllowedOrigins:   viper.GetStringSlice("ALLOWED_ORIGINS"),
		DatabaseURL:      viper.GetString("DATABASE_URL"),
		BcryptCost:       viper.GetInt("BCRYPT_COST"),
		SessionTTL:       parseDuration(viper.GetString("SESSION_TTL"), 24*time.Hour),
		SweepInterval:    parseDuration(viper.GetString("SWEEP_INTERVAL"), time.Hour),
		ForwardAuth:      viper.GetBool("FORWARD_AUTH"),
		OIDCIssuer:       viper.GetString("OIDC_ISSUER"),
		OIDCClientID:     viper.GetString("OIDC_CLIENT_ID"),
		OIDCClientSecret: viper.GetString("OIDC_CLIENT_SECRET"),
		OIDCRedirectURL:  viper.GetString("OIDC_REDIRECT_URL"),
	}
}

// SSOEnabled reports whether the OIDC login flow is fully configured.
func (c *Config) SSOEnabled() bool {
	return c.OIDCIssuer != "" && c.OIDCClientID != "" && c.OIDCClientSecret != ""
}

func parseDuration(s string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}
