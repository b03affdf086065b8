package redis

import (
	"fmt"
	"time"

	"github.com/kbukum/reqkit/validation"
)

// Config holds Redis connection configuration.
type Config struct {
	// Enabled controls whether Redis is used at all.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Addr is the server address (host:port).
	Addr string `yaml:"addr" mapstructure:"addr" validate:"required_if=Enabled true"`

	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`

	// DB is the database number.
	DB int `yaml:"db" mapstructure:"db" validate:"gte=0"`

	// PoolSize is the maximum number of socket connections.
	PoolSize int `yaml:"pool_size" mapstructure:"pool_size" validate:"gte=0"`

	// MaxRetries is the number of retries before giving up.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries" validate:"gte=0"`

	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout" validate:"gte=0"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout" validate:"gte=0"`

	// KeyPrefix namespaces every key written through a TypedStore.
	KeyPrefix string `yaml:"key_prefix" mapstructure:"key_prefix"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 3 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 3 * time.Second
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "reqkit"
	}
}

// Validate checks that required fields are present.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}
