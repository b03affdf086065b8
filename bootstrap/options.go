package bootstrap

import (
	"time"

	"github.com/kbukum/reqkit/logger"
)

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	version         string
	gracefulTimeout *time.Duration
	handleSignals   bool
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{handleSignals: true}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger. If not set, the global logger is
// initialised from the config's Logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithVersion sets the version reported in logs and summaries.
func WithVersion(v string) Option {
	return func(o *appOptions) {
		o.version = v
	}
}

// WithGracefulTimeout sets the maximum duration for shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}

// WithoutSignals disables SIGINT/SIGTERM handling in RunTask.
func WithoutSignals() Option {
	return func(o *appOptions) {
		o.handleSignals = false
	}
}
