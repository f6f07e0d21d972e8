package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

func testConfig() Config {
	return Config{
		Name:             "test-circuit",
		MaxRequests:      2,
		Interval:         10 * time.Second,
		Timeout:          100 * time.Millisecond,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

func TestNew(t *testing.T) {
	cb := New(testConfig())

	if cb.Name() != "test-circuit" {
		t.Errorf("expected name='test-circuit', got %q", cb.Name())
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("expected initial state=Closed, got %v", cb.State())
	}
}

func TestCircuitBreaker_Run(t *testing.T) {
	cb := New(testConfig())
	boom := errors.New("boom")

	if err := cb.Run(func() error { return nil }); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if err := cb.Run(func() error { return boom }); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestCircuitBreaker_TripsOpen(t *testing.T) {
	cb := New(testConfig())
	testErr := errors.New("test error")

	for i := 0; i < 5; i++ {
		if err := cb.Run(func() error { return testErr }); !errors.Is(err, testErr) {
			t.Fatalf("request %d: expected test error, got %v", i, err)
		}
	}

	if !cb.IsOpen() {
		t.Fatalf("expected state=Open, got %v", cb.State())
	}

	err := cb.Run(func() error {
		t.Error("function should not be called when circuit is open")
		return nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState, got %v", err)
	}
}

func TestCircuitBreaker_HalfOpenRecovers(t *testing.T) {
	cb := New(testConfig())
	testErr := errors.New("test error")

	for i := 0; i < 6; i++ {
		_ = cb.Run(func() error { return testErr })
	}
	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("circuit should be open, got %v", cb.State())
	}

	time.Sleep(150 * time.Millisecond)

	for i := 0; i < 2; i++ {
		if err := cb.Run(func() error { return nil }); err != nil {
			t.Fatalf("expected success in half-open state, got %v", err)
		}
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("expected Closed after successful probes, got %v", cb.State())
	}
}

func TestCircuitBreaker_MinRequests(t *testing.T) {
	cfg := testConfig()
	cfg.MinRequests = 10
	cb := New(cfg)

	for i := 0; i < 4; i++ {
		_ = cb.Run(func() error { return errors.New("x") })
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("expected state=Closed (below MinRequests), got %v", cb.State())
	}
}

func TestCircuitBreaker_IsSuccessful(t *testing.T) {
	notCounted := errors.New("caller error")
	cfg := testConfig()
	cfg.IsSuccessful = func(err error) bool { return err == nil || errors.Is(err, notCounted) }
	cb := New(cfg)

	for i := 0; i < 10; i++ {
		_ = cb.Run(func() error { return notCounted })
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("expected Closed when errors are classified as success, got %v", cb.State())
	}
}

func TestPresetConfigs(t *testing.T) {
	tests := []struct {
		cfg  Config
		name string
	}{
		{cfg: DefaultConfig("x"), name: "x"},
		{cfg: ObjectStoreConfig(), name: "object-store"},
		{cfg: DBConfig(), name: "database"},
	}
	for _, tt := range tests {
		if tt.cfg.Name != tt.name {
			t.Errorf("expected Name=%q, got %q", tt.name, tt.cfg.Name)
		}
		if tt.cfg.MinRequests == 0 || tt.cfg.MaxRequests == 0 {
			t.Errorf("%s: request limits must be positive", tt.name)
		}
	}
}
