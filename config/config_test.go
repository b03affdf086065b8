package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/reqkit/logger"
)

type testConfig struct {
	ServiceConfig `mapstructure:",squash"`
	HTTP          struct {
		BaseURL string        `mapstructure:"base_url"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"http"`
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "reqkit"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
	})

	t.Run("debug raises log level", func(t *testing.T) {
		cfg := ServiceConfig{Name: "reqkit", Debug: true}
		cfg.ApplyDefaults()
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug level, got %q", cfg.Logging.Level)
		}
	})

	t.Run("explicit level wins over debug", func(t *testing.T) {
		cfg := ServiceConfig{Name: "reqkit", Debug: true, Logging: logger.Config{Level: "warn"}}
		cfg.ApplyDefaults()
		if cfg.Logging.Level != "warn" {
			t.Errorf("expected warn level, got %q", cfg.Logging.Level)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid development", ServiceConfig{Name: "reqkit", Environment: "development"}, ""},
		{"valid production", ServiceConfig{Name: "reqkit", Environment: "production"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "name"},
		{"invalid environment", ServiceConfig{Name: "reqkit", Environment: "qa"}, "environment"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(strings.ToLower(err.Error()), tc.wantErr) {
				t.Errorf("expected error containing %q, got %q", tc.wantErr, err.Error())
			}
		})
	}
}

func TestLoadWithYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reqkit.yml")
	content := `
name: reqkit
environment: staging
http:
  base_url: https://api.example.com
  timeout: 15s
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	var cfg testConfig
	if err := LoadConfig("reqkit", &cfg, WithConfigFile(path), WithEnvFile(filepath.Join(dir, "none.env"))); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "reqkit" || cfg.Environment != "staging" {
		t.Errorf("unexpected service config %+v", cfg.ServiceConfig)
	}
	if cfg.HTTP.BaseURL != "https://api.example.com" {
		t.Errorf("unexpected base url %q", cfg.HTTP.BaseURL)
	}
	if cfg.HTTP.Timeout != 15*time.Second {
		t.Errorf("unexpected timeout %v", cfg.HTTP.Timeout)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reqkit.yml")
	if err := os.WriteFile(path, []byte("name: reqkit\nhttp:\n  base_url: https://file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("REQKIT_HTTP_BASE_URL", "https://env")

	var cfg testConfig
	if err := LoadConfig("reqkit", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.HTTP.BaseURL != "https://env" {
		t.Errorf("expected env override, got %q", cfg.HTTP.BaseURL)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("REQKIT_TEST_DOTENV_NAME=from-dotenv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("REQKIT_TEST_DOTENV_NAME") })

	var cfg struct {
		Test struct {
			Dotenv struct {
				Name string `mapstructure:"name"`
			} `mapstructure:"dotenv"`
		} `mapstructure:"test"`
	}
	if err := LoadConfig("reqkit", &cfg, WithEnvFile(envPath), WithFileSystem(&mockFS{real: true})); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Test.Dotenv.Name != "from-dotenv" {
		t.Errorf("expected dotenv value, got %q", cfg.Test.Dotenv.Name)
	}
}

func TestLoadDefaults(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("reqkit", &cfg,
		WithFileSystem(&mockFS{}),
		WithDefault("http.timeout", "30s"),
		WithDefault("name", "reqkit"),
	)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.HTTP.Timeout != 30*time.Second || cfg.Name != "reqkit" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("reqkit", &cfg, WithConfigFile("/nonexistent/reqkit.yml"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestResolverWithMockFS(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]bool
		want  string
	}{
		{"working directory", map[string]bool{"reqkit.yml": true}, "reqkit.yml"},
		{"hidden file", map[string]bool{".reqkit.yml": true}, ".reqkit.yml"},
		{"config dir", map[string]bool{"config/reqkit.yml": true}, "config/reqkit.yml"},
		{"user config", map[string]bool{"/home/u/.config/reqkit/config.yml": true}, "/home/u/.config/reqkit/config.yml"},
		{"first match wins", map[string]bool{"reqkit.yml": true, ".reqkit.yml": true}, "reqkit.yml"},
		{"nothing found", map[string]bool{}, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resolver := &Resolver{FileSystem: &mockFS{files: tc.files}}
			files := resolver.ResolveFiles("reqkit", LoaderConfig{})
			if files.ConfigFile != tc.want {
				t.Errorf("expected %q, got %q", tc.want, files.ConfigFile)
			}
		})
	}
}

func TestResolverExplicitPaths(t *testing.T) {
	resolver := &Resolver{FileSystem: &mockFS{files: map[string]bool{"reqkit.yml": true, ".env": true}}}
	files := resolver.ResolveFiles("reqkit", LoaderConfig{ConfigFile: "custom.yml", EnvFile: "custom.env"})
	if files.ConfigFile != "custom.yml" || files.EnvFile != "custom.env" {
		t.Errorf("explicit paths not kept: %+v", files)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("HTTP_BASE_URL")
	for _, want := range []string{"http_base_url", "http.base.url", "http.base_url"} {
		found := false
		for _, v := range got {
			if v == want {
				found = true
			}
		}
		if !found {
			t.Errorf("expected variant %q in %v", want, got)
		}
	}
	if got := envKeyVariants("DEBUG"); len(got) != 1 || got[0] != "debug" {
		t.Errorf("unexpected variants %v", got)
	}
}

type mockFS struct {
	files map[string]bool
	real  bool
}

func (m *mockFS) Exists(path string) bool {
	if m.real {
		return RealFileSystem{}.Exists(path)
	}
	return m.files[path]
}

func (m *mockFS) LoadEnv(path string) error {
	if m.real {
		return RealFileSystem{}.LoadEnv(path)
	}
	return nil
}

func (m *mockFS) UserConfigDir() (string, error) { return "/home/u/.config", nil }

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	WithFileSystem(&mockFS{})(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	if lc.FileSystem == nil || lc.ConfigFile != "/path/to/config.yml" || lc.EnvFile != "/path/to/.env" {
		t.Errorf("options not applied: %+v", lc)
	}
}
