package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/reqkit/codec"
	"github.com/kbukum/reqkit/logger"
)

// Client dispatches templates through a Transport, validates the status and
// decodes the body. It is immutable after New and safe for concurrent use.
type Client struct {
	config    Config
	codec     codec.Codec
	transport Transport
	log       *logger.Logger
	inst      *instruments
}

// Option customizes a Client.
type Option func(*options)

type options struct {
	transport      Transport
	codec          codec.Codec
	log            *logger.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// WithTransport replaces the default HTTPTransport.
func WithTransport(t Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithCodec replaces the codec selected by Config.Codec.
func WithCodec(c codec.Codec) Option {
	return func(o *options) { o.codec = c }
}

// WithLogger sets the logger. Defaults to logger.Get("httpclient").
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithTracerProvider sets the tracer provider, enabling tracing.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// WithMeterProvider sets the meter provider, enabling metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// New creates a Client. cfg is copied; later changes to it have no effect.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Headers = cloneHeaders(cfg.Headers)

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := &Client{config: cfg, codec: o.codec, transport: o.transport, log: o.log}

	if c.codec == nil {
		cd, err := cfg.buildCodec()
		if err != nil {
			return nil, fmt.Errorf("httpclient: %w", err)
		}
		c.codec = cd
	}
	if c.transport == nil {
		t, err := NewHTTPTransport(cfg)
		if err != nil {
			return nil, err
		}
		c.transport = t
	}
	if c.log == nil {
		c.log = logger.Get("httpclient")
	}
	c.log = c.log.WithFields(map[string]interface{}{"client": cfg.Name})

	inst, err := newInstruments(
		tracerProvider(cfg.Tracing, o.tracerProvider),
		meterProvider(cfg.Metrics, o.meterProvider),
	)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %w", err)
	}
	c.inst = inst

	return c, nil
}

// Config returns a copy of the client configuration.
func (c *Client) Config() Config {
	cfg := c.config
	cfg.Headers = cloneHeaders(c.config.Headers)
	return cfg
}

// Codec returns the codec used to decode responses.
func (c *Client) Codec() codec.Codec {
	return c.codec
}

// Encode encodes v with the client codec, for building request bodies.
func (c *Client) Encode(v any) ([]byte, error) {
	data, err := c.codec.Encode(v)
	if err != nil {
		return nil, &InvalidRequestError{Reason: "encode body", Err: err}
	}
	return data, nil
}

// Close releases transport resources when the transport supports it.
func (c *Client) Close(ctx context.Context) error {
	if closer, ok := c.transport.(interface{ Close(context.Context) error }); ok {
		return closer.Close(ctx)
	}
	return nil
}

// Send executes tmpl and returns only the decoded value.
func Send[T any](ctx context.Context, c *Client, tmpl Template[T]) (T, error) {
	resp, err := SendResponse(ctx, c, tmpl)
	if err != nil {
		var zero T
		return zero, err
	}
	return resp.Value, nil
}

// SendResponse executes tmpl: it builds the wire request, dispatches it,
// validates the status, decodes the body and returns the value together with
// its transport metadata. Every failure is a taxonomy Error.
//
// A 401 is returned as RequestFailedError like any other non-2xx status;
// retrying after a token refresh is left to the caller.
func SendResponse[T any](ctx context.Context, c *Client, tmpl Template[T]) (*Response[T], error) {
	callID := uuid.NewString()
	method := tmpl.Request().Method
	if method == "" {
		method = MethodGet
	}

	ctx, span := c.inst.tracer.Start(ctx, spanSend,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(attrClient, c.config.Name),
			attribute.String(attrCallID, callID),
			attribute.String(attrMethod, method.String()),
		),
	)
	defer span.End()

	log := c.log.WithContext(ctx).WithFields(map[string]interface{}{logger.FieldRequestID: callID})

	c.inst.inflight.Add(ctx, 1)
	start := time.Now()
	resp, err := send(ctx, c, tmpl, span, log)
	elapsed := time.Since(start)
	c.inst.inflight.Add(ctx, -1)

	status := StatusCode(err)
	if resp != nil {
		status = resp.Raw.StatusCode
	}
	c.inst.record(ctx, span, c.config.Name, method.String(), status, err, elapsed)

	fields := logger.Fields(
		logger.FieldStatusCode, status,
		logger.FieldDuration, elapsed.Milliseconds(),
	)
	if err != nil {
		fields[logger.FieldErrorCode] = Code(err)
		fields[logger.FieldError] = err.Error()
		log.Debug("request failed", fields)
		return nil, err
	}
	log.Debug("request completed", fields)
	return resp, nil
}

func send[T any](ctx context.Context, c *Client, tmpl Template[T], span trace.Span, log *logger.Logger) (*Response[T], error) {
	wire, err := Build(ctx, tmpl.Request(), c.config)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String(attrURL, wire.URL.Redacted()))
	log.Debug("sending request", logger.Fields(
		logger.FieldMethod, wire.Method,
		logger.FieldURL, wire.URL.Redacted(),
	))

	raw, err := c.transport.Execute(ctx, wire)
	if err != nil {
		var te Error
		if errors.As(err, &te) {
			return nil, err
		}
		return nil, &NetworkError{Failure: ClassifyFailure(err), Err: err}
	}

	if raw == nil || raw.StatusCode < 100 {
		return nil, &InvalidResponseError{Response: raw}
	}
	if !raw.IsSuccess() {
		return nil, &RequestFailedError{
			StatusCode: raw.StatusCode,
			Reason:     reasonPhrase(raw),
			Body:       raw.Body,
		}
	}
	if len(raw.Body) == 0 && !acceptsEmptyBody(tmpl) {
		return nil, &EmptyResponseError{StatusCode: raw.StatusCode}
	}

	value, dctx, err := decode(tmpl, raw, c.codec)
	if err != nil {
		return nil, err
	}
	return &Response[T]{Value: value, Raw: raw, Context: dctx}, nil
}

// decode runs the template decoder, mapping its failures into the taxonomy.
func decode[T any](tmpl Template[T], raw *RawResponse, cd codec.Codec) (value T, dctx codec.Context, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &UntypedError{Err: fmt.Errorf("panic while decoding %s: %v", typeOf[T](), r)}
		}
	}()

	value, dctx, err = tmpl.Decode(raw, cd)
	if err == nil {
		return value, dctx, nil
	}
	var te Error
	if errors.As(err, &te) {
		return value, nil, err
	}
	return value, nil, &DecodingError{Type: typeOf[T](), Data: raw.Body, Err: err}
}

// reasonPhrase prefers the server reason phrase over the standard text.
func reasonPhrase(raw *RawResponse) string {
	reason := strings.TrimSpace(strings.TrimPrefix(raw.Status, strconv.Itoa(raw.StatusCode)))
	if reason != "" {
		return reason
	}
	if text := http.StatusText(raw.StatusCode); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", raw.StatusCode)
}
