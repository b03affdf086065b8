package httpclient

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/kbukum/reqkit/httpclient"

// Span and attribute names.
const (
	spanSend = "httpclient.send"
	spanRun  = "httpclient.run"

	attrClient    = "reqkit.client"
	attrCallID    = "reqkit.call_id"
	attrErrorCode = "reqkit.error_code"
	attrMethod    = "http.request.method"
	attrURL       = "url.full"
	attrStatus    = "http.response.status_code"
)

type instruments struct {
	tracer   trace.Tracer
	requests metric.Int64Counter
	duration metric.Float64Histogram
	inflight metric.Int64UpDownCounter
}

func newInstruments(tp trace.TracerProvider, mp metric.MeterProvider) (*instruments, error) {
	meter := mp.Meter(instrumentationName)

	requests, err := meter.Int64Counter("reqkit.client.requests",
		metric.WithDescription("Completed client calls by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating requests counter: %w", err)
	}
	duration, err := meter.Float64Histogram("reqkit.client.duration",
		metric.WithDescription("Duration of client calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}
	inflight, err := meter.Int64UpDownCounter("reqkit.client.inflight",
		metric.WithDescription("Client calls currently in flight"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating inflight counter: %w", err)
	}

	return &instruments{
		tracer:   tp.Tracer(instrumentationName),
		requests: requests,
		duration: duration,
		inflight: inflight,
	}, nil
}

func tracerProvider(enabled bool, override trace.TracerProvider) trace.TracerProvider {
	switch {
	case override != nil:
		return override
	case enabled:
		return otel.GetTracerProvider()
	default:
		return tracenoop.NewTracerProvider()
	}
}

func meterProvider(enabled bool, override metric.MeterProvider) metric.MeterProvider {
	switch {
	case override != nil:
		return override
	case enabled:
		return otel.GetMeterProvider()
	default:
		return metricnoop.NewMeterProvider()
	}
}

// record closes out one call on its span and metrics.
func (in *instruments) record(ctx context.Context, span trace.Span, client, method string, status int, err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Int(attrErrorCode, Code(err)))
	}
	if status > 0 {
		span.SetAttributes(attribute.Int(attrStatus, status))
	}

	attrs := metric.WithAttributes(
		attribute.String(attrClient, client),
		attribute.String(attrMethod, method),
		attribute.String("outcome", outcome),
		attribute.Int(attrErrorCode, Code(err)),
	)
	in.requests.Add(ctx, 1, attrs)
	in.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String(attrClient, client),
		attribute.String(attrMethod, method),
	))
}
