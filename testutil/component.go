package testutil

import (
	"context"

	"github.com/kbukum/reqkit/component"
)

// TestComponent extends component.Component with testing-specific lifecycle methods.
type TestComponent interface {
	component.Component

	// Reset restores the component to its initial state.
	Reset(ctx context.Context) error

	// Snapshot captures the current state of the component.
	Snapshot(ctx context.Context) (interface{}, error)

	// Restore restores the component to a previously captured state.
	Restore(ctx context.Context, snapshot interface{}) error
}
