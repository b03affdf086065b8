package component

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kbukum/reqkit/logger"
)

type mockComponent struct {
	name       string
	startErr   error
	stopErr    error
	health     Health
	startOrder *[]string
	stopOrder  *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(_ context.Context) error {
	if m.startOrder != nil {
		*m.startOrder = append(*m.startOrder, m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(_ context.Context) error {
	if m.stopOrder != nil {
		*m.stopOrder = append(*m.stopOrder, m.name)
	}
	return m.stopErr
}
func (m *mockComponent) Health(_ context.Context) Health { return m.health }

type describedComponent struct {
	mockComponent
}

func (d *describedComponent) Describe() Description {
	return Description{Type: "http-client", Details: "https://api.example.com"}
}

func newTestRegistry() *Registry {
	return NewRegistry(logger.NewNop())
}

func TestRegisterDuplicate(t *testing.T) {
	r := newTestRegistry()
	if err := r.Register(&mockComponent{name: "a"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register(&mockComponent{name: "a"}); err == nil {
		t.Fatal("expected error for duplicate registration")
	}
	if r.Get("a") == nil {
		t.Error("expected registered component")
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for unknown component")
	}
}

func TestStartStopOrder(t *testing.T) {
	var started, stopped []string
	r := newTestRegistry()
	for _, name := range []string{"store", "client"} {
		_ = r.Register(&mockComponent{name: name, startOrder: &started, stopOrder: &stopped})
	}

	ctx := context.Background()
	if err := r.StartAll(ctx); err != nil {
		t.Fatalf("StartAll() error = %v", err)
	}
	if err := r.StopAll(ctx); err != nil {
		t.Fatalf("StopAll() error = %v", err)
	}

	if strings.Join(started, ",") != "store,client" {
		t.Errorf("unexpected start order %v", started)
	}
	if strings.Join(stopped, ",") != "client,store" {
		t.Errorf("unexpected stop order %v", stopped)
	}
}

func TestStartAllError(t *testing.T) {
	var stopped []string
	boom := errors.New("boom")
	r := newTestRegistry()
	_ = r.Register(&mockComponent{name: "ok", stopOrder: &stopped})
	_ = r.Register(&mockComponent{name: "bad", startErr: boom, stopOrder: &stopped})

	err := r.StartAll(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}

	_ = r.StopAll(context.Background())
	if strings.Join(stopped, ",") != "ok" {
		t.Errorf("only started components should stop, got %v", stopped)
	}
}

func TestStopAllJoinsErrors(t *testing.T) {
	e1, e2 := errors.New("e1"), errors.New("e2")
	r := newTestRegistry()
	_ = r.Register(&mockComponent{name: "a", stopErr: e1})
	_ = r.Register(&mockComponent{name: "b", stopErr: e2})
	_ = r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Errorf("expected both stop errors, got %v", err)
	}
}

func TestHealthAllAndDescribe(t *testing.T) {
	r := newTestRegistry()
	_ = r.Register(&mockComponent{name: "a", health: Health{Name: "a", Status: StatusHealthy}})
	_ = r.Register(&describedComponent{mockComponent{name: "b", health: Health{Name: "b", Status: StatusDegraded}}})

	health := r.HealthAll(context.Background())
	if len(health) != 2 || health[1].Status != StatusDegraded {
		t.Errorf("unexpected health %+v", health)
	}

	desc := r.Describe()
	if len(desc) != 2 {
		t.Fatalf("expected 2 descriptions, got %d", len(desc))
	}
	if desc[0].Name != "a" || desc[0].Type != "" {
		t.Errorf("undescribed component should only carry its name, got %+v", desc[0])
	}
	if desc[1].Name != "b" || desc[1].Type != "http-client" {
		t.Errorf("unexpected description %+v", desc[1])
	}
}
