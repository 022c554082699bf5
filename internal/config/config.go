// internal/config/config.go
//
// Typed environment configuration for the hangman server.
// All process-wide toggles (offline mode, LLM picker delegation) live in
// this immutable struct and are passed to collaborators at construction;
// nothing reads ambient globals after startup.

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is parsed once in main and handed down read-only.
type Config struct {
	Port         string `env:"PORT" envDefault:"5175"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	DBPath       string `env:"DB_PATH" envDefault:"./data/app.db"`
	ClientOrigin string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`

	JWTSecret      string `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string `env:"COOKIE_NAME" envDefault:"hangman_token"`
	SecureCookies  bool   `env:"SECURE_COOKIES" envDefault:"false"`

	// Offline disables every remote collaborator; local fallbacks answer.
	Offline bool `env:"OFFLINE_MODE" envDefault:"true"`

	// UseLLMPicker delegates secret-word selection to the remote picker.
	// Off by default to avoid repetitive picks.
	UseLLMPicker bool `env:"USE_LLM_PICKER" envDefault:"false"`

	LLMAPIKey    string `env:"LLM_API_KEY"`
	LLMBaseURL   string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel     string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMTimeoutMS int    `env:"LLM_TIMEOUT_MS" envDefault:"8000"`

	// PickSalt seeds the deterministic fallback when the external picker
	// returns an invalid word.
	PickSalt string `env:"PICK_SALT" envDefault:"local_dev_salt"`
}

// Parse loads configuration from environment variables.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
