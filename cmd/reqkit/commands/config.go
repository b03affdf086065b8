package commands

import (
	"errors"
	"time"

	"github.com/kbukum/reqkit/auth"
	"github.com/kbukum/reqkit/config"
	"github.com/kbukum/reqkit/httpclient"
	"github.com/kbukum/reqkit/observability"
	"github.com/kbukum/reqkit/version"
)

const appName = "reqkit"

// Config is the reqkit.yml layout.
//
//	name: reqkit
//	http:
//	  base_url: https://api.example.com
//	  headers:
//	    Accept: application/json
//	auth:
//	  token_url: https://auth.example.com/oauth/token
//	  client_id: cli
//	  store: keyring
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	HTTP          httpclient.Config    `yaml:"http" mapstructure:"http"`
	Auth          auth.Config          `yaml:"auth" mapstructure:"auth"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills every section. Observability switches client
// instrumentation on.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = appName
	}
	c.ServiceConfig.ApplyDefaults()
	c.HTTP.ApplyDefaults()
	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = version.UserAgent()
	}
	c.Auth.ApplyDefaults()
	if c.Observability.Enabled {
		c.Observability.ApplyDefaults()
		c.HTTP.Tracing = true
		c.HTTP.Metrics = true
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	return errors.Join(
		c.ServiceConfig.Validate(),
		c.HTTP.Validate(),
		c.Auth.Validate(),
		c.Observability.Validate(),
	)
}

func loadConfig(g *globalOptions) (*Config, error) {
	opts := []config.LoaderOption{
		config.WithDefault("name", appName),
		config.WithDefault("logging.level", "warn"),
		config.WithDefault("http.timeout", 30*time.Second),
	}
	if g.configFile != "" {
		opts = append(opts, config.WithConfigFile(g.configFile))
	}
	if g.envFile != "" {
		opts = append(opts, config.WithEnvFile(g.envFile))
	}

	cfg := &Config{}
	if err := config.LoadConfig(appName, cfg, opts...); err != nil {
		return nil, err
	}

	if g.baseURL != "" {
		cfg.HTTP.BaseURL = g.baseURL
	}
	if g.timeout > 0 {
		cfg.HTTP.Timeout = g.timeout
	}
	if g.verbose {
		cfg.Debug = true
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}
