package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubPinger struct {
	err error
}

func (p *stubPinger) Ping(ctx context.Context) error {
	return p.err
}

func TestPingChecker_Healthy(t *testing.T) {
	checker := NewPingChecker("journal-postgres", &stubPinger{}, time.Second)

	result := checker.Check(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("expected healthy, got %s", result.Status)
	}
	if result.Name != "journal-postgres" {
		t.Errorf("unexpected name: %s", result.Name)
	}
	if result.Error != "" {
		t.Errorf("expected empty error, got %q", result.Error)
	}
}

func TestPingChecker_Unhealthy(t *testing.T) {
	checker := NewPingChecker("journal-redis", &stubPinger{err: errors.New("connection refused")}, time.Second)

	result := checker.Check(context.Background())
	if result.Status != StatusUnhealthy {
		t.Errorf("expected unhealthy, got %s", result.Status)
	}
	if result.Error != "connection refused" {
		t.Errorf("unexpected error text: %q", result.Error)
	}
}

func TestRegistry_CheckAggregates(t *testing.T) {
	registry := NewRegistry()
	registry.Register(NewPingChecker("a", &stubPinger{}, time.Second))
	registry.Register(NewPingChecker("b", &stubPinger{}, time.Second))

	result := registry.Check(context.Background())
	if !result.IsHealthy() {
		t.Errorf("expected healthy aggregate, got %s", result.Status)
	}
	if len(result.Checks) != 2 {
		t.Errorf("expected 2 check results, got %d", len(result.Checks))
	}
}

func TestRegistry_AnyFailureIsUnhealthy(t *testing.T) {
	registry := NewRegistry()
	registry.Register(NewPingChecker("a", &stubPinger{}, time.Second))
	registry.Register(NewPingChecker("b", &stubPinger{err: errors.New("down")}, time.Second))

	result := registry.Check(context.Background())
	if result.IsHealthy() {
		t.Error("expected unhealthy aggregate")
	}
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	registry := NewRegistry()
	registry.Register(NewPingChecker("a", &stubPinger{err: errors.New("down")}, time.Second))
	registry.Register(NewPingChecker("a", &stubPinger{}, time.Second))

	result, err := registry.CheckOne(context.Background(), "a")
	if err != nil {
		t.Fatalf("CheckOne failed: %v", err)
	}
	if result.Status != StatusHealthy {
		t.Errorf("expected replacement checker to win, got %s", result.Status)
	}
}

func TestRegistry_Unregister(t *testing.T) {
	registry := NewRegistry()
	registry.Register(NewPingChecker("a", &stubPinger{}, time.Second))
	registry.Unregister("a")

	if _, err := registry.CheckOne(context.Background(), "a"); err == nil {
		t.Error("expected error for unregistered check")
	}
}

func TestRegistry_CheckOneUnknown(t *testing.T) {
	if _, err := NewRegistry().CheckOne(context.Background(), "missing"); err == nil {
		t.Error("expected error for unknown check")
	}
}
