package observability

import (
	"fmt"
	"time"

	"github.com/kbukum/reqkit/validation"
)

// Config configures the OTLP exporters.
type Config struct {
	Enabled     bool   `yaml:"enabled" mapstructure:"enabled"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	// Endpoint is the OTLP HTTP collector host:port.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" validate:"required_if=Enabled true"`
	Insecure bool   `yaml:"insecure" mapstructure:"insecure"`
	// SampleRate is the trace sampling ratio from 0 to 1.
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	// Interval is the metric export interval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval" validate:"gte=0"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	return nil
}
