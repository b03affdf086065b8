package httpclient

import (
	"fmt"
	"time"

	"github.com/kbukum/reqkit/codec"
	"github.com/kbukum/reqkit/validation"
)

const (
	defaultTimeout = 30 * time.Second
	defaultName    = "http"
)

// Config configures a Client. It is copied into the Client by New and never
// changes afterwards.
type Config struct {
	// Name identifies the client in logs, spans and component summaries.
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is used for requests that carry no URL of their own.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,http_url"`

	// UserAgent is sent with every request when set.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// Headers are service default headers. Request headers override them.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Codec selects the body codec: "json" (default) or "yaml".
	Codec string `yaml:"codec" mapstructure:"codec" validate:"omitempty,oneof=json yaml yml"`

	// Envelope, when set, is the JSON path of the payload inside every
	// response body (e.g. "data").
	Envelope string `yaml:"envelope" mapstructure:"envelope"`

	// Timeout bounds a whole exchange on HTTPTransport. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// HTTP2ReadIdleTimeout enables HTTP/2 health-check pings after the
	// connection has been idle this long. Zero disables them.
	HTTP2ReadIdleTimeout time.Duration `yaml:"http2_read_idle_timeout" mapstructure:"http2_read_idle_timeout" validate:"gte=0"`

	// TLS configures HTTPTransport.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Tracing and Metrics enable OpenTelemetry spans and instruments using
	// the global providers unless overridden by options.
	Tracing bool `yaml:"tracing" mapstructure:"tracing"`
	Metrics bool `yaml:"metrics" mapstructure:"metrics"`

	// Authentication supplies bearer tokens. It is shared, not owned.
	Authentication AuthenticationProvider `yaml:"-" mapstructure:"-" validate:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = defaultName
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Codec == "" {
		c.Codec = "json"
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("httpclient: %w", err)
	}
	return nil
}

// buildCodec returns the codec named by the configuration.
func (c *Config) buildCodec() (codec.Codec, error) {
	cd, err := codec.ByName(c.Codec)
	if err != nil {
		return nil, err
	}
	if c.Envelope != "" {
		cd = codec.Envelope(cd, c.Envelope)
	}
	return cd, nil
}

// cloneHeaders copies the header map so callers cannot mutate a live config.
func cloneHeaders(h map[string]string) map[string]string {
	if h == nil {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}
