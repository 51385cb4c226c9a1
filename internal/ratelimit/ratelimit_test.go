package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestAcquireEnforcesInterval(t *testing.T) {
	l := New(20 * time.Millisecond)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := l.Acquire(context.Background()); err != nil {
			t.Fatalf("Acquire: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("three acquisitions took %v, want >= 40ms", elapsed)
	}
}

func TestDisabledLimiterNeverBlocks(t *testing.T) {
	l := New(0)
	start := time.Now()
	for i := 0; i < 100; i++ {
		if err := l.Acquire(context.Background()); err != nil {
			t.Fatalf("Acquire: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("disabled limiter blocked for %v", elapsed)
	}
}

func TestNilLimiterIsSafe(t *testing.T) {
	var l *Limiter
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire on nil: %v", err)
	}
}

func TestAcquireRespectsCancellation(t *testing.T) {
	l := New(time.Hour)
	_ = l.Acquire(context.Background()) // consume the initial token

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := l.Acquire(ctx); err == nil {
		t.Fatal("expected context error")
	}
}
