package httpclient

import (
	"context"

	"github.com/kbukum/reqkit/component"
)

// Component wraps a Client with lifecycle management.
type Component struct {
	client *Client
	config Config
	opts   []Option
}

var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a new HTTP client component.
// The client is created lazily in Start().
func NewComponent(cfg Config, opts ...Option) *Component {
	return &Component{config: cfg, opts: opts}
}

// Name returns the component name.
func (c *Component) Name() string {
	if c.config.Name == "" {
		return defaultName
	}
	return c.config.Name
}

// Start creates the client.
func (c *Component) Start(_ context.Context) error {
	client, err := New(c.config, c.opts...)
	if err != nil {
		return err
	}
	c.client = client
	return nil
}

// Stop closes the client transport.
func (c *Component) Stop(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	err := c.client.Close(ctx)
	c.client = nil
	return err
}

// Health reports healthy once the client has been started.
func (c *Component) Health(_ context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if c.client == nil {
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	}
	return h
}

// Describe returns the component description for startup summaries.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    c.Name(),
		Type:    "http-client",
		Details: c.config.BaseURL,
	}
}

// Client returns the underlying client. Must be called after Start().
func (c *Component) Client() *Client {
	return c.client
}
