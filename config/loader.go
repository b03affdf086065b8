package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/reqkit/logger"
)

// FileSystem abstracts file access so tests can fake it.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
	UserConfigDir() (string, error)
}

// RealFileSystem implements FileSystem using the OS.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv loads path without overriding variables already set.
func (RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

func (RealFileSystem) UserConfigDir() (string, error) {
	return os.UserConfigDir()
}

// ResolvedFiles contains the config and env file paths that were found.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// Resolver finds config and env files for an application.
type Resolver struct {
	FileSystem FileSystem
}

// ResolveFiles returns explicit paths if set, otherwise the first existing
// candidate. An explicit path that does not exist is still returned so LoadConfig
// can report it.
func (r *Resolver) ResolveFiles(app string, opts LoaderConfig) ResolvedFiles {
	files := ResolvedFiles{ConfigFile: opts.ConfigFile, EnvFile: opts.EnvFile}
	if files.ConfigFile == "" {
		files.ConfigFile = r.first(r.configCandidates(app))
	}
	if files.EnvFile == "" {
		files.EnvFile = r.first([]string{".env." + app, ".env"})
	}
	return files
}

func (r *Resolver) configCandidates(app string) []string {
	candidates := []string{
		app + ".yml",
		app + ".yaml",
		"." + app + ".yml",
		filepath.Join("config", app+".yml"),
	}
	if dir, err := r.FileSystem.UserConfigDir(); err == nil && dir != "" {
		candidates = append(candidates,
			filepath.Join(dir, app, "config.yml"),
			filepath.Join(dir, app, "config.yaml"),
		)
	}
	return candidates
}

func (r *Resolver) first(paths []string) string {
	for _, p := range paths {
		if r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
	Defaults   map[string]interface{}
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithDefault sets a default for a dotted key such as "http.timeout".
func WithDefault(key string, value interface{}) LoaderOption {
	return func(lc *LoaderConfig) {
		if lc.Defaults == nil {
			lc.Defaults = make(map[string]interface{})
		}
		lc.Defaults[key] = value
	}
}

// LoadConfig reads configuration for app into cfg, which must be a pointer to a
// struct with mapstructure tags.
func LoadConfig(app string, cfg interface{}, opts ...LoaderOption) error {
	lc := LoaderConfig{FileSystem: RealFileSystem{}}
	for _, opt := range opts {
		opt(&lc)
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(app, lc)
	return load(app, cfg, files, lc)
}

func load(app string, cfg interface{}, files ResolvedFiles, lc LoaderConfig) error {
	log := logger.Get("config")
	v := viper.New()
	for k, val := range lc.Defaults {
		v.SetDefault(k, val)
	}

	if files.ConfigFile != "" {
		if !lc.FileSystem.Exists(files.ConfigFile) {
			return fmt.Errorf("config: file %s not found", files.ConfigFile)
		}
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", files.ConfigFile, err)
		}
		log.Debug("config file loaded", logger.Fields("file", files.ConfigFile))
	}

	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			log.Warn("env file not loaded", logger.Fields("file", files.EnvFile, logger.FieldError, err.Error()))
		}
	}

	bindEnv(v, strings.ToUpper(app)+"_")

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config: decode %s config: %w", app, err)
	}
	return nil
}

// bindEnv copies every variable starting with prefix into v under all the
// dotted key shapes it could map to.
func bindEnv(v *viper.Viper, prefix string) {
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(key, prefix) {
			continue
		}
		for _, variant := range envKeyVariants(strings.TrimPrefix(key, prefix)) {
			v.Set(variant, value)
		}
	}
}

// envKeyVariants returns the dotted keys an env key may address.
//
//	HTTP_BASE_URL -> [http_base_url, http.base.url, http.base_url, http_base.url]
func envKeyVariants(envKey string) []string {
	lower := strings.ToLower(envKey)
	parts := strings.Split(lower, "_")
	if len(parts) <= 1 {
		return []string{lower}
	}

	variants := []string{lower, strings.Join(parts, ".")}
	for i := 1; i < len(parts); i++ {
		variants = append(variants,
			strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"),
			strings.Join(parts[:i], "_")+"."+strings.Join(parts[i:], "_"),
		)
	}
	return dedupe(variants)
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}
