package redis

import (
	"context"
	"fmt"

	"github.com/kbukum/reqkit/component"
	"github.com/kbukum/reqkit/logger"
)

// Component wraps Client with lifecycle management.
type Component struct {
	client *Client
	cfg    Config
	log    *logger.Logger
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a Redis component for the component registry.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	if log == nil {
		log = logger.Get("redis")
	}
	return &Component{cfg: cfg, log: log.WithComponent("redis")}
}

// Client returns the underlying client, or nil if not started.
func (c *Component) Client() *Client {
	return c.client
}

// Name returns the component name.
func (c *Component) Name() string { return "redis" }

// Start creates the client and verifies connectivity.
func (c *Component) Start(ctx context.Context) error {
	client, err := New(c.cfg, c.log)
	if err != nil {
		return err
	}
	if err := client.Ping(ctx); err != nil {
		_ = client.Close()
		return err
	}
	c.client = client
	c.log.Info("redis component started", logger.Fields("addr", c.cfg.Addr))
	return nil
}

// Stop closes the connection.
func (c *Component) Stop(_ context.Context) error {
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

// Health pings the server.
func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case c.client == nil:
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	default:
		if err := c.client.Ping(ctx); err != nil {
			h.Status = component.StatusUnhealthy
			h.Message = err.Error()
		}
	}
	return h
}

// Describe returns the component description for startup summaries.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    c.Name(),
		Type:    "redis",
		Details: fmt.Sprintf("%s db=%d", c.cfg.Addr, c.cfg.DB),
	}
}
