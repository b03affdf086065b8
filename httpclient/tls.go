package httpclient

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// TLSConfig configures the TLS client of HTTPTransport.
type TLSConfig struct {
	// InsecureSkipVerify disables server certificate verification.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify" mapstructure:"insecure_skip_verify"`
	// CAFile is a PEM bundle trusted in place of the system roots.
	CAFile string `yaml:"ca_file" mapstructure:"ca_file"`
	// CertFile and KeyFile enable mutual TLS.
	CertFile string `yaml:"cert_file" mapstructure:"cert_file" validate:"required_with=KeyFile"`
	KeyFile  string `yaml:"key_file" mapstructure:"key_file" validate:"required_with=CertFile"`
	// ServerName overrides the name used for certificate verification.
	ServerName string `yaml:"server_name" mapstructure:"server_name"`
	// MinVersion is "1.2" (default) or "1.3".
	MinVersion string `yaml:"min_version" mapstructure:"min_version" validate:"omitempty,oneof=1.2 1.3"`
}

// Build returns the *tls.Config described by c, or nil when c sets nothing.
func (c *TLSConfig) Build() (*tls.Config, error) {
	if c == nil || *c == (TLSConfig{}) {
		return nil, nil
	}

	cfg := &tls.Config{
		InsecureSkipVerify: c.InsecureSkipVerify, //nolint:gosec // opt-in via config
		ServerName:         c.ServerName,
		MinVersion:         tls.VersionTLS12,
	}
	if c.MinVersion == "1.3" {
		cfg.MinVersion = tls.VersionTLS13
	}

	if c.CAFile != "" {
		pem, err := os.ReadFile(c.CAFile)
		if err != nil {
			return nil, fmt.Errorf("httpclient: read ca_file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("httpclient: ca_file %s contains no certificates", c.CAFile)
		}
		cfg.RootCAs = pool
	}

	if c.CertFile != "" && c.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("httpclient: load client certificate: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	return cfg, nil
}
