package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds the service configuration parsed from the environment.
// SMTP settings live with the mailer and are parsed there.
type Config struct {
	Port         string `env:"PORT"             envDefault:"8080"`
	MongoDBURL   string `env:"MONGODB_URL"`
	DatabaseName string `env:"MONGODB_DATABASE" envDefault:"auth"`

	// FrontendURL is used both as the CORS origin and as the base of
	// verification links.
	FrontendURL string `env:"FRONTEND_URL"`

	Token TokenConfig
}

// TokenConfig holds signing secrets and lifetimes for the two token kinds.
type TokenConfig struct {
	AccessTokenSecret     string        `env:"SECRET_KEY_ACCESS_TOKEN"`
	RefreshTokenSecret    string        `env:"SECRET_KEY_REFRESH_TOKEN"`
	AccessTokenExpiresIn  time.Duration `env:"ACCESS_TOKEN_EXPIRES_IN"  envDefault:"5h"`
	RefreshTokenExpiresIn time.Duration `env:"REFRESH_TOKEN_EXPIRES_IN" envDefault:"168h"`
}

// New creates a Config instance from environment variables.
func New(logger *zerolog.Logger) *Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate configuration")
	}

	return &cfg
}

// validate checks that everything without a usable default is present.
func (c *Config) validate() error {
	if c.MongoDBURL == "" {
		return fmt.Errorf("missing MONGODB_URL environment variable")
	}
	if c.FrontendURL == "" {
		return fmt.Errorf("missing FRONTEND_URL environment variable")
	}
	if c.Token.AccessTokenSecret == "" {
		return fmt.Errorf("missing SECRET_KEY_ACCESS_TOKEN environment variable")
	}
	if c.Token.RefreshTokenSecret == "" {
		return fmt.Errorf("missing SECRET_KEY_REFRESH_TOKEN environment variable")
	}

	return nil
}
