package httpclient

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Composed is a multi-step operation built from several sends, where later
// calls may depend on earlier results. There is no rollback.
type Composed[T any] interface {
	Run(ctx context.Context, c *Client) (T, error)
}

// ComposedFunc adapts a function to Composed.
type ComposedFunc[T any] func(ctx context.Context, c *Client) (T, error)

// Run implements Composed.
func (f ComposedFunc[T]) Run(ctx context.Context, c *Client) (T, error) {
	return f(ctx, c)
}

// Run executes a composed operation. Failures outside the taxonomy are
// wrapped as UntypedError; taxonomy errors are returned unchanged.
func Run[T any](ctx context.Context, c *Client, op Composed[T]) (T, error) {
	ctx, span := c.inst.tracer.Start(ctx, spanRun,
		trace.WithAttributes(attribute.String(attrClient, c.config.Name)),
	)
	defer span.End()

	v, err := op.Run(ctx, c)
	if err != nil {
		err = Wrap(err)
		span.RecordError(err)
		span.SetAttributes(attribute.Int(attrErrorCode, Code(err)))
		var zero T
		return zero, err
	}
	return v, nil
}
