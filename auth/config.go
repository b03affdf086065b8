package auth

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/99designs/keyring"
	"golang.org/x/oauth2"

	"github.com/kbukum/reqkit/logger"
	"github.com/kbukum/reqkit/redis"
	"github.com/kbukum/reqkit/validation"
)

// Store backends.
const (
	StoreMemory  = "memory"
	StoreKeyring = "keyring"
	StoreRedis   = "redis"
)

// Config configures a TokenProvider.
type Config struct {
	// AccessToken and RefreshToken seed the provider when the store is empty.
	AccessToken  string `yaml:"access_token" mapstructure:"access_token"`
	RefreshToken string `yaml:"refresh_token" mapstructure:"refresh_token"`

	// TokenURL enables the OAuth 2.0 refresh_token grant.
	TokenURL     string   `yaml:"token_url" mapstructure:"token_url" validate:"omitempty,http_url"`
	ClientID     string   `yaml:"client_id" mapstructure:"client_id"`
	ClientSecret string   `yaml:"client_secret" mapstructure:"client_secret"`
	Scopes       []string `yaml:"scopes" mapstructure:"scopes"`

	// Leeway treats tokens as stale this long before expiry.
	Leeway time.Duration `yaml:"leeway" mapstructure:"leeway" validate:"gte=0"`
	// RefreshTimeout bounds one refresh against the token endpoint.
	RefreshTimeout time.Duration `yaml:"refresh_timeout" mapstructure:"refresh_timeout" validate:"gte=0"`

	// Store selects where tokens persist: memory (default), keyring or redis.
	Store string `yaml:"store" mapstructure:"store" validate:"omitempty,oneof=memory keyring redis"`
	// Profile names the stored token, so several accounts can coexist.
	Profile string `yaml:"profile" mapstructure:"profile"`

	Keyring KeyringConfig `yaml:"keyring" mapstructure:"keyring"`
	Redis   redis.Config  `yaml:"redis" mapstructure:"redis"`
}

// KeyringConfig selects the keyring backend.
type KeyringConfig struct {
	// ServiceName identifies reqkit entries in the OS keychain.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	// Backend is "auto" (default), "system" or "file".
	Backend string `yaml:"backend" mapstructure:"backend" validate:"omitempty,oneof=auto system file"`
	// FileDir holds the encrypted files of the file backend.
	FileDir string `yaml:"file_dir" mapstructure:"file_dir"`
	// FilePassword unlocks the file backend. The user is prompted when empty.
	FilePassword string `yaml:"file_password" mapstructure:"file_password"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Leeway == 0 {
		c.Leeway = DefaultLeeway
	}
	if c.RefreshTimeout == 0 {
		c.RefreshTimeout = DefaultRefreshTimeout
	}
	if c.Store == "" {
		c.Store = StoreMemory
	}
	if c.Profile == "" {
		c.Profile = "default"
	}
	if c.Keyring.ServiceName == "" {
		c.Keyring.ServiceName = "reqkit"
	}
	if c.Keyring.Backend == "" {
		c.Keyring.Backend = "auto"
	}
	if c.Store == StoreRedis {
		c.Redis.Enabled = true
	}
	c.Redis.ApplyDefaults()
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	return nil
}

// Enabled reports whether any credential is configured.
func (c *Config) Enabled() bool {
	return c.AccessToken != "" || c.RefreshToken != "" || c.TokenURL != "" || c.Store != StoreMemory
}

// OAuth2 returns the OAuth 2.0 client configuration, or nil without TokenURL.
func (c *Config) OAuth2() *oauth2.Config {
	if c.TokenURL == "" {
		return nil
	}
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Scopes:       c.Scopes,
		Endpoint:     oauth2.Endpoint{TokenURL: c.TokenURL},
	}
}

// OpenKeyring opens the keyring described by c.
func OpenKeyring(c KeyringConfig) (keyring.Keyring, error) {
	cfg := keyring.Config{ServiceName: c.ServiceName}
	if c.Backend != "system" {
		cfg.FileDir = c.FileDir
		if cfg.FileDir == "" {
			if home, err := os.UserHomeDir(); err == nil {
				cfg.FileDir = filepath.Join(home, ".config", "reqkit", "keyring")
			}
		}
		if c.FilePassword != "" {
			cfg.FilePasswordFunc = keyring.FixedStringPrompt(c.FilePassword)
		} else {
			cfg.FilePasswordFunc = keyring.TerminalPrompt
		}
	}
	if c.Backend == "file" {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}
	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("auth: open keyring: %w", err)
	}
	return ring, nil
}

// NewFromConfig builds a TokenProvider with the store and refresher
// described by cfg. The returned close function releases the store.
func NewFromConfig(ctx context.Context, cfg Config, log *logger.Logger) (*TokenProvider, func() error, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	closer := func() error { return nil }
	var store TokenStore
	switch cfg.Store {
	case StoreKeyring:
		ring, err := OpenKeyring(cfg.Keyring)
		if err != nil {
			return nil, nil, err
		}
		store = NewKeyringStore(ring, cfg.Profile)
	case StoreRedis:
		client, err := redis.New(cfg.Redis, log)
		if err != nil {
			return nil, nil, fmt.Errorf("auth: %w", err)
		}
		store = NewRedisStore(client, cfg.Redis.KeyPrefix, cfg.Profile)
		closer = client.Close
	default:
		store = NewMemoryStore()
	}

	var refresher Refresher
	if oc := cfg.OAuth2(); oc != nil {
		oauthClient := &http.Client{Timeout: cfg.RefreshTimeout}
		base := OAuth2Refresher(oc)
		refresher = RefresherFunc(func(ctx context.Context, refreshToken string) (*Token, error) {
			return base.Refresh(context.WithValue(ctx, oauth2.HTTPClient, oauthClient), refreshToken)
		})
	}

	opts := []ProviderOption{WithStore(store), WithLeeway(cfg.Leeway), WithRefreshTimeout(cfg.RefreshTimeout)}
	if log != nil {
		opts = append(opts, WithProviderLogger(log))
	}
	p := NewTokenProvider(refresher, opts...)

	if cfg.AccessToken != "" || cfg.RefreshToken != "" {
		current, err := p.Token(ctx)
		if err != nil {
			_ = closer()
			return nil, nil, err
		}
		if current == nil {
			seed := &Token{AccessToken: cfg.AccessToken, RefreshToken: cfg.RefreshToken, TokenType: "Bearer"}
			if err := p.SetToken(ctx, seed); err != nil {
				_ = closer()
				return nil, nil, err
			}
		}
	}
	return p, closer, nil
}
