package logger

import (
	"fmt"
	"slices"
)

// Config contains logging configuration.
//
// Output is "stdout", "stderr" or a file path. File output is rotated using
// MaxSize, MaxBackups, MaxAge and Compress.
type Config struct {
	Level      string `yaml:"level" mapstructure:"level"`
	Format     string `yaml:"format" mapstructure:"format"`
	Output     string `yaml:"output" mapstructure:"output"`
	NoColor    bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp  bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller     bool   `yaml:"caller" mapstructure:"caller"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"`       // megabytes
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"` // number of backups
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"`         // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	LocalTime  bool   `yaml:"local_time" mapstructure:"local_time"`
}

// ApplyDefaults applies default values to logging configuration.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stderr"
	}
	if c.MaxSize == 0 {
		c.MaxSize = 100
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = 3
	}
	if c.MaxAge == 0 {
		c.MaxAge = 28
	}
	c.Timestamp = true
}

// Validate validates logging configuration.
func (c *Config) Validate() error {
	validLevels := []string{"trace", "debug", "info", "warn", "error", "fatal", "disabled"}
	if !slices.Contains(validLevels, c.Level) {
		return fmt.Errorf("logging.level must be one of %v (got: %s)", validLevels, c.Level)
	}
	validFormats := []string{"json", "console"}
	if !slices.Contains(validFormats, c.Format) {
		return fmt.Errorf("logging.format must be one of %v (got: %s)", validFormats, c.Format)
	}
	if c.MaxSize < 0 || c.MaxBackups < 0 || c.MaxAge < 0 {
		return fmt.Errorf("logging rotation limits must not be negative")
	}
	return nil
}

// IsFile reports whether Output names a file rather than a standard stream.
func (c *Config) IsFile() bool {
	switch c.Output {
	case "", "stdout", "stderr":
		return false
	default:
		return true
	}
}
