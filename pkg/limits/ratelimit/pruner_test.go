package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestPrunerEmptyScheduleIsNoop(t *testing.T) {
	sw := NewSlidingWindow(5, time.Minute)
	p := NewPruner(sw, "")

	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start with empty schedule failed: %v", err)
	}
	p.Stop()
}

func TestPrunerRejectsInvalidSchedule(t *testing.T) {
	sw := NewSlidingWindow(5, time.Minute)
	p := NewPruner(sw, "not a cron expression")

	if err := p.Start(context.Background()); err == nil {
		t.Error("expected error for invalid cron schedule")
	}
}

func TestPrunerStartStop(t *testing.T) {
	sw := NewSlidingWindow(5, time.Minute)
	p := NewPruner(sw, "@every 1h")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Stop must be safe to call repeatedly
	p.Stop()
	p.Stop()
}

func TestPrunerRunPruning(t *testing.T) {
	sw := NewSlidingWindow(5, 10*time.Millisecond)
	p := NewPruner(sw, "@every 1h")

	sw.Allow("short-lived")
	time.Sleep(20 * time.Millisecond)

	p.runPruning()
	if sw.Size() != 0 {
		t.Errorf("expected identifier pruned, %d remain", sw.Size())
	}
}
