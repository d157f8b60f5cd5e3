package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the archival service.
// Environment variables are automatically parsed from the CHATVAULT_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// Chat platform REST API
	ChatAPIBaseURL string `envconfig:"CHAT_API_BASE_URL" default:"https://discord.com/api/v10"`
	ChatAPIToken   string `envconfig:"CHAT_API_TOKEN" default:""`
	AppID          string `envconfig:"APP_ID" default:""`

	// HTTP Configuration (operational surface: interactions, health, metrics)
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Archival engine
	OutputRoot        string `envconfig:"OUTPUT_ROOT" default:"out"`
	BatchSize         int    `envconfig:"BATCH_SIZE" default:"50"`
	ReportingInterval int    `envconfig:"REPORTING_INTERVAL" default:"200"`

	// Network timeouts (seconds). Individual fetches are never retried; the
	// timeout only bounds how long one transfer may hang.
	FetchTimeoutSeconds int `envconfig:"FETCH_TIMEOUT_SECONDS" default:"300"`

	// Startup probe against the chat API
	StartupProbeTimeoutSeconds int `envconfig:"STARTUP_PROBE_TIMEOUT_SECONDS" default:"60"`
}

// ResolveDefaults validates derived settings and rejects unusable values.
func (c *Config) ResolveDefaults() error {
	if c.BatchSize <= 0 || c.BatchSize > 100 {
		return fmt.Errorf("unsupported BATCH_SIZE: %d", c.BatchSize)
	}
	if c.ReportingInterval <= 0 {
		return fmt.Errorf("unsupported REPORTING_INTERVAL: %d", c.ReportingInterval)
	}
	if c.OutputRoot == "" {
		return fmt.Errorf("OUTPUT_ROOT must not be empty")
	}
	return nil
}

// New creates a new Config by parsing environment variables.
// Environment variables should be prefixed with CHATVAULT_
// Example: CHATVAULT_CHAT_API_TOKEN, CHATVAULT_HTTP_PORT
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("CHATVAULT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("chat_api_base_url", cfg.ChatAPIBaseURL).
		Str("chat_api_token_present", func() string {
			if cfg.ChatAPIToken != "" {
				return "true"
			}
			return "false"
		}()).
		Int("port", cfg.HTTPPort).
		Str("output_root", cfg.OutputRoot).
		Int("batch_size", cfg.BatchSize).
		Int("reporting_interval", cfg.ReportingInterval).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing
func NewForTesting() *Config {
	return &Config{
		Environment:                EnvTesting,
		ChatAPIBaseURL:             "http://localhost:8081/api",
		ChatAPIToken:               "test-token",
		AppID:                      "test-app",
		HTTPPort:                   8080,
		OutputRoot:                 "out",
		BatchSize:                  50,
		ReportingInterval:          200,
		FetchTimeoutSeconds:        300,
		StartupProbeTimeoutSeconds: 60,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
