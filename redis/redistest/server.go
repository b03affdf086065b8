// Package redistest runs an in-memory Redis server for tests.
package redistest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/reqkit/component"
	"github.com/kbukum/reqkit/redis"
	"github.com/kbukum/reqkit/testutil"
)

// Server is a miniredis-backed component.
type Server struct {
	mini    *miniredis.Miniredis
	started bool
	mu      sync.RWMutex
}

var (
	_ component.Component    = (*Server)(nil)
	_ testutil.TestComponent = (*Server)(nil)
)

// NewServer returns a stopped server.
func NewServer() *Server {
	return &Server{}
}

// Start starts a server and returns a client connected to it. Both are
// shut down when the test ends.
func Start(t testing.TB) (*Server, *redis.Client) {
	t.Helper()
	srv := NewServer()
	testutil.T(t).Setup(srv)

	client, err := redis.New(srv.Config(), nil)
	if err != nil {
		t.Fatalf("redistest: create client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return srv, client
}

// Config returns a client configuration pointing at the server.
func (s *Server) Config() redis.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg := redis.Config{Enabled: true}
	if s.mini != nil {
		cfg.Addr = s.mini.Addr()
	}
	return cfg
}

// Get reads a raw value directly from the server.
func (s *Server) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.mini == nil {
		return "", fmt.Errorf("redistest: not started")
	}
	return s.mini.Get(key)
}

// FastForward advances the server clock, expiring keys.
func (s *Server) FastForward(d time.Duration) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.mini != nil {
		s.mini.FastForward(d)
	}
}

// Name returns the component name.
func (s *Server) Name() string { return "redis-test" }

// Start launches the in-memory server.
func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("redistest: already started")
	}
	mini, err := miniredis.Run()
	if err != nil {
		return fmt.Errorf("redistest: start miniredis: %w", err)
	}
	s.mini = mini
	s.started = true
	return nil
}

// Stop shuts the server down.
func (s *Server) Stop(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.mini.Close()
	s.started = false
	return nil
}

// Health reports whether the server is running.
func (s *Server) Health(_ context.Context) component.Health {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return component.Health{Name: s.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: s.Name(), Status: component.StatusHealthy}
}

// Reset flushes all keys.
func (s *Server) Reset(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return fmt.Errorf("redistest: not started")
	}
	s.mini.FlushAll()
	return nil
}

// Snapshot captures all string keys.
func (s *Server) Snapshot(_ context.Context) (interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, fmt.Errorf("redistest: not started")
	}
	snapshot := make(map[string]string)
	for _, key := range s.mini.Keys() {
		if val, err := s.mini.Get(key); err == nil {
			snapshot[key] = val
		}
	}
	return snapshot, nil
}

// Restore replaces all keys with a snapshot.
func (s *Server) Restore(_ context.Context, snap interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return fmt.Errorf("redistest: not started")
	}
	snapshot, ok := snap.(map[string]string)
	if !ok {
		return fmt.Errorf("redistest: invalid snapshot %T", snap)
	}
	s.mini.FlushAll()
	for key, val := range snapshot {
		if err := s.mini.Set(key, val); err != nil {
			return fmt.Errorf("redistest: restore %q: %w", key, err)
		}
	}
	return nil
}
