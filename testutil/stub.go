package testutil

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/reqkit/codec"
	"github.com/kbukum/reqkit/component"
	"github.com/kbukum/reqkit/httpclient"
)

// Stub is a canned answer for one URL.
type Stub struct {
	StatusCode int
	// Reason overrides the reason phrase of the status line.
	Reason string
	Header http.Header
	Body   []byte
	// Err is returned instead of a response when set.
	Err error
	// Delay is waited before answering; cancelling ctx aborts the wait.
	Delay time.Duration
	// NilResponse makes Execute return (nil, nil).
	NilResponse bool
}

// StubTransport is an in-memory httpclient.Transport keyed by URL.
// Registering a URL twice replaces the earlier stub.
type StubTransport struct {
	mu    sync.Mutex
	stubs map[string]Stub
	calls []*httpclient.WireRequest
}

var (
	_ httpclient.Transport = (*StubTransport)(nil)
	_ TestComponent        = (*StubTransport)(nil)
)

// NewStubTransport returns an empty stub table.
func NewStubTransport() *StubTransport {
	return &StubTransport{stubs: make(map[string]Stub)}
}

// Register answers requests for url with stub.
func (s *StubTransport) Register(url string, stub Stub) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubs[url] = stub
}

// RegisterJSON answers requests for url with status and v encoded as JSON.
func (s *StubTransport) RegisterJSON(t testing.TB, url string, status int, v any) {
	t.Helper()
	body, err := codec.JSON().Encode(v)
	if err != nil {
		t.Fatalf("encode stub body for %s: %v", url, err)
	}
	s.Register(url, Stub{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{codec.ContentTypeJSON}},
		Body:       body,
	})
}

// Execute implements httpclient.Transport. A URL with no stub fails with a
// cannot-connect transport error. The exact URL is tried first, then the
// URL without its query.
func (s *StubTransport) Execute(ctx context.Context, req *httpclient.WireRequest) (*httpclient.RawResponse, error) {
	url := req.URL.String()

	s.mu.Lock()
	s.calls = append(s.calls, cloneWire(req))
	stub, ok := s.stubs[url]
	if !ok {
		stub, ok = s.stubs[strings.SplitN(url, "?", 2)[0]]
	}
	s.mu.Unlock()

	if !ok {
		return nil, &httpclient.TransportError{
			Kind: httpclient.FailureCannotConnect,
			Err:  fmt.Errorf("no stub registered for %s", url),
		}
	}

	if stub.Delay > 0 {
		timer := time.NewTimer(stub.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	if stub.Err != nil {
		return nil, stub.Err
	}
	if stub.NilResponse {
		return nil, nil
	}

	reason := stub.Reason
	if reason == "" {
		reason = http.StatusText(stub.StatusCode)
	}
	return &httpclient.RawResponse{
		StatusCode: stub.StatusCode,
		Status:     strings.TrimSpace(fmt.Sprintf("%d %s", stub.StatusCode, reason)),
		Header:     stub.Header.Clone(),
		Body:       append([]byte(nil), stub.Body...),
	}, nil
}

// Calls returns the requests received so far, oldest first.
func (s *StubTransport) Calls() []*httpclient.WireRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*httpclient.WireRequest, len(s.calls))
	copy(out, s.calls)
	return out
}

// LastCall returns the most recent request, or nil.
func (s *StubTransport) LastCall() *httpclient.WireRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return nil
	}
	return s.calls[len(s.calls)-1]
}

// --- TestComponent ---

// Name implements component.Component.
func (s *StubTransport) Name() string { return "stub-transport" }

// Start implements component.Component.
func (s *StubTransport) Start(_ context.Context) error { return nil }

// Stop clears the table.
func (s *StubTransport) Stop(ctx context.Context) error { return s.Reset(ctx) }

// Health implements component.Component.
func (s *StubTransport) Health(_ context.Context) component.Health {
	return component.Health{Name: s.Name(), Status: component.StatusHealthy}
}

// Reset removes every stub and recorded call.
func (s *StubTransport) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubs = make(map[string]Stub)
	s.calls = nil
	return nil
}

// Snapshot captures the stub table.
func (s *StubTransport) Snapshot(_ context.Context) (interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := make(map[string]Stub, len(s.stubs))
	for k, v := range s.stubs {
		snap[k] = v
	}
	return snap, nil
}

// Restore replaces the stub table with a snapshot.
func (s *StubTransport) Restore(_ context.Context, snapshot interface{}) error {
	snap, ok := snapshot.(map[string]Stub)
	if !ok {
		return fmt.Errorf("testutil: invalid stub snapshot %T", snapshot)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubs = make(map[string]Stub, len(snap))
	for k, v := range snap {
		s.stubs[k] = v
	}
	return nil
}

func cloneWire(req *httpclient.WireRequest) *httpclient.WireRequest {
	u := *req.URL
	return &httpclient.WireRequest{
		URL:    &u,
		Method: req.Method,
		Header: req.Header.Clone(),
		Body:   append([]byte(nil), req.Body...),
	}
}
