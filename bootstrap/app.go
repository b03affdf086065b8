package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/reqkit/component"
	"github.com/kbukum/reqkit/logger"
)

// App carries a typed config and the components a command needs.
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger

	gracefulTimeout time.Duration
	handleSignals   bool

	onStart []Hook
	onStop  []Hook
}

// NewApp applies defaults, validates cfg and initialises the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()
	o := resolveOptions(opts)

	app := &App[C]{
		Name:            base.Name,
		Version:         o.version,
		Cfg:             cfg,
		gracefulTimeout: 10 * time.Second,
		handleSignals:   o.handleSignals,
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}

	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(base.Logging, base.Name)
		app.Logger = logger.GetGlobalLogger()
	}
	app.Components = component.NewRegistry(app.Logger.WithComponent("component"))
	return app, nil
}

// RegisterComponent adds a component to the registry. Components start in
// registration order.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// ReadyCheck reports every component that is not healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusHealthy {
			continue
		}
		detail := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			detail += "(" + h.Message + ")"
		}
		unhealthy = append(unhealthy, detail)
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %v", unhealthy)
	}
	return nil
}

// RunTask starts all components, runs task and shuts down. The task context
// is canceled on SIGINT or SIGTERM. The task error wins over a shutdown
// error.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.handleSignals {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		go func() {
			select {
			case sig := <-sigCh:
				a.Logger.Info("received signal, canceling task", logger.Fields("signal", sig.String()))
				cancel()
			case <-taskCtx.Done():
			}
		}()
	}

	if err := a.startup(taskCtx); err != nil {
		return errors.Join(err, a.stop())
	}

	taskErr := task(taskCtx)
	if stopErr := a.stop(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("starting components: %w", err)
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}

	a.Logger.Debug("application started", logger.Fields(
		"name", a.Name,
		"version", a.Version,
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return nil
}

// Shutdown stops hooks and components. Use it when driving the lifecycle by
// hand instead of through RunTask.
func (a *App[C]) Shutdown() error {
	return a.stop()
}

func (a *App[C]) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var errs []error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("onStop hook error", logger.Fields(logger.FieldError, err.Error()))
		errs = append(errs, err)
	}
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("shutdown completed with errors", logger.Fields(logger.FieldError, err.Error()))
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
