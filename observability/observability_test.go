package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// collector records the OTLP paths it receives.
type collector struct {
	mu    sync.Mutex
	paths map[string]int
}

func newCollector(t *testing.T) (*collector, string) {
	t.Helper()
	c := &collector{paths: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		c.paths[r.URL.Path]++
		c.mu.Unlock()
		w.Header().Set("Content-Type", "application/x-protobuf")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return c, strings.TrimPrefix(srv.URL, "http://")
}

func (c *collector) count(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paths[path]
}

func restoreGlobals(t *testing.T) {
	t.Cleanup(func() {
		otel.SetTracerProvider(tracenoop.NewTracerProvider())
		otel.SetMeterProvider(noop.NewMeterProvider())
	})
}

func TestConfigApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected default endpoint, got %q", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected sample rate 1, got %v", cfg.SampleRate)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected 15s interval, got %v", cfg.Interval)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"disabled", Config{}, false},
		{"enabled", Config{Enabled: true, Endpoint: "otel:4318", SampleRate: 0.5}, false},
		{"enabled without endpoint", Config{Enabled: true}, true},
		{"sample rate above one", Config{Endpoint: "otel:4318", SampleRate: 2}, true},
		{"negative interval", Config{Interval: -time.Second}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1, sdktrace.AlwaysSample().Description()},
		{0, sdktrace.NeverSample().Description()},
	}
	for _, tc := range tests {
		if got := sampler(tc.rate).Description(); got != tc.want {
			t.Errorf("sampler(%v) = %q, want %q", tc.rate, got, tc.want)
		}
	}
	if got := sampler(0.25).Description(); !strings.Contains(got, "TraceIDRatioBased") {
		t.Errorf("unexpected ratio sampler %q", got)
	}
}

func TestInitDisabled(t *testing.T) {
	before := otel.GetTracerProvider()
	shutdown, err := Init(context.Background(), Config{}, "reqkit", "dev")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if otel.GetTracerProvider() != before {
		t.Error("disabled config must not replace the global tracer provider")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestInitExportsToCollector(t *testing.T) {
	restoreGlobals(t)
	col, endpoint := newCollector(t)

	ctx := context.Background()
	shutdown, err := Init(ctx, Config{Enabled: true, Endpoint: endpoint, Insecure: true}, "reqkit", "1.0.0")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	_, span := otel.Tracer("test").Start(ctx, "op")
	span.End()
	counter, err := otel.Meter("test").Int64Counter("test.calls")
	if err != nil {
		t.Fatal(err)
	}
	counter.Add(ctx, 1)

	sctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := shutdown(sctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	if col.count("/v1/traces") == 0 {
		t.Error("expected trace export")
	}
	if col.count("/v1/metrics") == 0 {
		t.Error("expected metric export")
	}
}

func TestNewResource(t *testing.T) {
	res, err := NewResource("reqkit", "1.2.0", "staging")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := map[string]string{}
	for _, kv := range res.Attributes() {
		found[string(kv.Key)] = kv.Value.Emit()
	}
	if found["service.name"] != "reqkit" || found["service.version"] != "1.2.0" || found["deployment.environment"] != "staging" {
		t.Errorf("unexpected attributes %v", found)
	}
}
