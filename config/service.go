package config

import (
	"fmt"

	"github.com/kbukum/reqkit/logger"
	"github.com/kbukum/reqkit/validation"
)

// ServiceConfig holds the fields every reqkit binary shares. Embed it with
// `mapstructure:",squash"`.
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string        `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging" validate:"-"`
}

// GetServiceConfig returns the embedded ServiceConfig.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults fills in zero-value fields. Debug implies debug logging.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Debug && c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	c.Logging.ApplyDefaults()
}

// Validate checks the shared fields.
func (c *ServiceConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
