package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	if l := NewLimiter(10, 5); l.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", l.defaultBurst)
	}
	if l := NewLimiter(10, -1); l.defaultBurst != 1 {
		t.Errorf("expected default burst 1 for negative input, got %d", l.defaultBurst)
	}
}

func TestLimiter_PerHost(t *testing.T) {
	l := NewLimiter(100, 1)
	ctx := context.Background()

	if err := l.Wait(ctx, "https://rest.uniprot.org/a"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := l.Wait(ctx, "https://ftp.uniprot.org/b"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if len(l.limiters) != 2 {
		t.Errorf("expected 2 host limiters, got %d", len(l.limiters))
	}
}

func TestLimiter_WaitWithDelay(t *testing.T) {
	l := NewLimiter(100, 1)

	start := time.Now()
	if err := l.WaitWithDelay(context.Background(), "http://example.com", 50*time.Millisecond); err != nil {
		t.Fatalf("WaitWithDelay failed: %v", err)
	}
	if d := time.Since(start); d < 50*time.Millisecond {
		t.Errorf("expected delay >= 50ms, got %v", d)
	}
}

func TestLimiter_CancelledContext(t *testing.T) {
	l := NewLimiter(0.001, 1)
	ctx, cancel := context.WithCancel(context.Background())

	if err := l.Wait(ctx, "http://example.com"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}
	cancel()
	if err := l.Wait(ctx, "http://example.com"); err == nil {
		t.Error("expected error after cancellation")
	}
}

func TestLimiter_ZeroRateIsUnlimited(t *testing.T) {
	l := NewLimiter(0, 1)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for i := 0; i < 20; i++ {
		if err := l.Wait(ctx, "http://example.com"); err != nil {
			t.Fatalf("wait %d failed: %v", i, err)
		}
	}
}
