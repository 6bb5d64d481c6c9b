// Package config provides application configuration.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"

	"github.com/finbotics/loanflow/internal/underwriting"
)

// Config holds all application configuration, loaded from environment
// variables.
type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	DataDir string `env:"DATA_DIR" envDefault:"./data"`

	// Session store backend: "memory" (default) or "sqlite".
	StoreBackend string `env:"STORE_BACKEND" envDefault:"memory"`
	DBPath       string `env:"DB_PATH" envDefault:"./data/loanflow.db"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	BaseURL        string   `env:"BASE_URL"`

	// Optional AI document parsing / name matching. Empty key disables
	// the AI path; the local parsers are used instead.
	OpenRouterKey   string `env:"OPENROUTER_API_KEY"`
	OpenRouterModel string `env:"OPENROUTER_MODEL" envDefault:"meta-llama/llama-3.3-70b-instruct:free"`

	// Lending policy overrides.
	MinCreditScore        int     `env:"MIN_CREDIT_SCORE" envDefault:"700"`
	PreApprovedMultiplier int     `env:"PRE_APPROVED_MULTIPLIER" envDefault:"2"`
	MaxEMIToSalaryRatio   float64 `env:"MAX_EMI_TO_SALARY_RATIO" envDefault:"0.50"`

	// Conversation transcript logging (NDJSON, one file per session).
	TranscriptEnabled   bool   `env:"TRANSCRIPT_LOG_ENABLED" envDefault:"true"`
	TranscriptDir       string `env:"TRANSCRIPT_LOG_DIR" envDefault:"./data/logs/transcripts"`
	TranscriptQueueSize int    `env:"TRANSCRIPT_LOG_QUEUE_SIZE" envDefault:"1000"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that required configuration fields are consistent.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.StoreBackend != "memory" && c.StoreBackend != "sqlite" {
		return fmt.Errorf("STORE_BACKEND must be memory or sqlite, got %q", c.StoreBackend)
	}
	if c.StoreBackend == "sqlite" && c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty with the sqlite backend")
	}
	if c.MinCreditScore <= 0 {
		return fmt.Errorf("MIN_CREDIT_SCORE must be > 0")
	}
	if c.PreApprovedMultiplier < 1 {
		return fmt.Errorf("PRE_APPROVED_MULTIPLIER must be >= 1")
	}
	if c.MaxEMIToSalaryRatio <= 0 || c.MaxEMIToSalaryRatio > 1 {
		return fmt.Errorf("MAX_EMI_TO_SALARY_RATIO must be in (0, 1]")
	}
	if c.TranscriptEnabled && c.TranscriptQueueSize <= 0 {
		return fmt.Errorf("TRANSCRIPT_LOG_QUEUE_SIZE must be > 0")
	}
	return nil
}

// Policy builds the underwriting policy with any configured overrides
// applied on top of the defaults.
func (c *Config) Policy() underwriting.Policy {
	p := underwriting.DefaultPolicy()
	p.MinCreditScore = c.MinCreditScore
	p.PreApprovedMultiplier = decimal.NewFromInt(int64(c.PreApprovedMultiplier))
	p.MaxEMIToSalaryRatio = decimal.NewFromFloat(c.MaxEMIToSalaryRatio)
	return p
}

// AIEnabled reports whether the AI document/name services are configured.
func (c *Config) AIEnabled() bool {
	return c.OpenRouterKey != ""
}
