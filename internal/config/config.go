package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	DBMinConns  int32  `envconfig:"HC_DB_MIN_CONNS" default:"1"`
	DBMaxConns  int32  `envconfig:"HC_DB_MAX_CONNS" default:"8"`

	// Basic-auth credentials for the ops API's mutating endpoints. The hash
	// comes from the hash-password command; an empty hash disables them.
	OpsUser         string `envconfig:"OPS_API_USER" default:"ops"`
	OpsPasswordHash string `envconfig:"OPS_API_PASSWORD_HASH" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DBMinConns < 0 {
		return fmt.Errorf("HC_DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("HC_DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("HC_DB_MIN_CONNS (%d) cannot exceed HC_DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if strings.TrimSpace(c.OpsUser) == "" {
		return fmt.Errorf("OPS_API_USER is required")
	}
	return nil
}
