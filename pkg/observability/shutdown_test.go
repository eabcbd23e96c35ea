package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestManager(timeout time.Duration) *ShutdownManager {
	return NewShutdownManager(NewLogger(ErrorLevel, &bytes.Buffer{}), nil, timeout)
}

func TestNewShutdownManagerDefaultTimeout(t *testing.T) {
	sm := newTestManager(0)
	if sm.timeout != 30*time.Second {
		t.Errorf("Expected 30s default timeout, got %v", sm.timeout)
	}

	sm = newTestManager(5 * time.Second)
	if sm.timeout != 5*time.Second {
		t.Errorf("Expected 5s timeout, got %v", sm.timeout)
	}
}

func TestShutdownHooksRunInRegistrationOrder(t *testing.T) {
	sm := newTestManager(time.Second)

	var order []string
	for _, name := range []string{"monitor", "storage", "keyring"} {
		n := name
		sm.RegisterShutdownFunc(n, func(ctx context.Context) error {
			order = append(order, n)
			return nil
		})
	}

	if err := sm.run(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if strings.Join(order, ",") != "monitor,storage,keyring" {
		t.Errorf("Hooks ran out of order: %v", order)
	}
}

func TestShutdownCollectsHookErrors(t *testing.T) {
	sm := newTestManager(time.Second)

	ran := false
	sm.RegisterShutdownFunc("storage", func(ctx context.Context) error {
		return errors.New("connection already closed")
	})
	sm.RegisterShutdownFunc("keyring", func(ctx context.Context) error {
		ran = true
		return nil
	})

	err := sm.run(context.Background())
	if err == nil {
		t.Fatal("Expected an error from the failing hook")
	}
	if !strings.Contains(err.Error(), "storage") {
		t.Errorf("Error should name the failed hook: %v", err)
	}
	if !ran {
		t.Error("A failing hook must not stop later hooks")
	}
}

func TestShutdownStopsAtDeadline(t *testing.T) {
	sm := newTestManager(time.Second)

	ran := false
	sm.RegisterShutdownFunc("storage", func(ctx context.Context) error {
		ran = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sm.run(ctx)
	if err == nil {
		t.Fatal("Expected a deadline error")
	}
	if !strings.Contains(err.Error(), "deadline") {
		t.Errorf("Expected deadline error, got %v", err)
	}
	if ran {
		t.Error("Hooks must not run after the deadline")
	}
}
