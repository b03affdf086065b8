package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/net/http2"
)

// Transport executes wire requests. Implementations must honour ctx.
//
// Errors that are not taxonomy errors are classified with ClassifyFailure
// and surfaced as NetworkError. Return a *TransportError to state the
// failure kind explicitly.
type Transport interface {
	Execute(ctx context.Context, req *WireRequest) (*RawResponse, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, req *WireRequest) (*RawResponse, error)

// Execute implements Transport.
func (f TransportFunc) Execute(ctx context.Context, req *WireRequest) (*RawResponse, error) {
	return f(ctx, req)
}

// HTTPTransport is the net/http Transport used by default.
type HTTPTransport struct {
	httpClient *http.Client
}

var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport creates a transport from the TLS, timeout and HTTP/2
// settings of cfg.
func NewHTTPTransport(cfg Config) (*HTTPTransport, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		transport.TLSClientConfig = tlsCfg
	}

	if cfg.HTTP2ReadIdleTimeout > 0 {
		transport.TLSNextProto = nil
		h2, err := http2.ConfigureTransports(transport)
		if err != nil {
			return nil, fmt.Errorf("httpclient: configure http2: %w", err)
		}
		h2.ReadIdleTimeout = cfg.HTTP2ReadIdleTimeout
	}

	return &HTTPTransport{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
	}, nil
}

// Execute sends req and reads the whole response body.
func (t *HTTPTransport) Execute(ctx context.Context, req *WireRequest) (*RawResponse, error) {
	if req == nil || req.URL == nil {
		return nil, &InvalidRequestError{Reason: "nil wire request"}
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL.String(), body)
	if err != nil {
		return nil, &InvalidRequestError{Reason: "create request", Err: err}
	}
	if req.Header != nil {
		httpReq.Header = req.Header.Clone()
	}

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // Error on close is safe to ignore for read operations

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		kind := ClassifyFailure(err)
		if kind == FailureUnknown {
			kind = FailureConnectionLost
		}
		return nil, &TransportError{Kind: kind, Err: fmt.Errorf("read response body: %w", err)}
	}

	return &RawResponse{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (t *HTTPTransport) Unwrap() *http.Client {
	return t.httpClient
}

// Close releases idle connections.
func (t *HTTPTransport) Close(_ context.Context) error {
	t.httpClient.CloseIdleConnections()
	return nil
}
