package commands

import (
	"context"
	"fmt"

	"github.com/kbukum/reqkit/auth"
	"github.com/kbukum/reqkit/bootstrap"
	"github.com/kbukum/reqkit/httpclient"
	"github.com/kbukum/reqkit/logger"
	"github.com/kbukum/reqkit/observability"
	"github.com/kbukum/reqkit/version"
)

// runtime is the per-invocation wiring shared by commands.
type runtime struct {
	app    *bootstrap.App[*Config]
	http   *httpclient.Component
	tokens *auth.TokenProvider
}

// newRuntime loads config and prepares the application.
func newRuntime(ctx context.Context, g *globalOptions) (*runtime, error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, err
	}

	app, err := bootstrap.NewApp(cfg, bootstrap.WithVersion(version.Get().Short()))
	if err != nil {
		return nil, err
	}
	rt := &runtime{app: app}
	if err := rt.setup(ctx, cfg); err != nil {
		return nil, err
	}
	return rt, nil
}

// setup wires observability and the token provider before the HTTP
// component so the client picks them up when it starts. On failure every
// stop hook registered so far has run.
func (rt *runtime) setup(ctx context.Context, cfg *Config) error {
	shutdown, err := observability.Init(ctx, cfg.Observability, cfg.Name, version.Get().Version)
	if err != nil {
		return rt.abort(err)
	}
	rt.app.OnStop(bootstrap.Hook(shutdown))

	if cfg.Auth.Enabled() {
		tokens, closeStore, err := auth.NewFromConfig(ctx, cfg.Auth, logger.Get("auth"))
		if err != nil {
			return rt.abort(fmt.Errorf("token provider: %w", err))
		}
		rt.app.OnStop(func(context.Context) error { return closeStore() })
		rt.tokens = tokens
		cfg.HTTP.Authentication = tokens
	}

	rt.http = httpclient.NewComponent(cfg.HTTP, httpclient.WithLogger(logger.Get("httpclient")))
	if err := rt.app.RegisterComponent(rt.http); err != nil {
		return rt.abort(err)
	}
	return nil
}

// abort runs the stop hooks registered so far and returns err.
func (rt *runtime) abort(err error) error {
	if serr := rt.app.Shutdown(); serr != nil {
		rt.app.Logger.Warn("cleanup after failed setup", logger.ErrorFields("shutdown", serr))
	}
	return err
}

// run executes task inside the application lifecycle.
func (rt *runtime) run(ctx context.Context, task func(ctx context.Context) error) error {
	return rt.app.RunTask(ctx, task)
}
