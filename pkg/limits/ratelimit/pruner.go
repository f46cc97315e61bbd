package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Pruner periodically drops fully-expired identifier histories from a
// limiter so long-running processes don't accumulate dead map entries.
// It runs on a cron schedule (e.g., "@every 5m").
type Pruner struct {
	limiter  *SlidingWindow
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewPruner creates a pruner for the given limiter.
// An empty schedule disables scheduled pruning.
func NewPruner(limiter *SlidingWindow, schedule string) *Pruner {
	return &Pruner{
		limiter:  limiter,
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "ratelimit.pruner"),
	}
}

// Start begins scheduled pruning. The pruner stops itself when ctx is
// cancelled.
func (p *Pruner) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.schedule == "" {
		p.logger.Info("prune schedule not configured, skipping pruner")
		return nil
	}

	if _, err := cron.ParseStandard(p.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", p.schedule, err)
	}

	if _, err := p.cron.AddFunc(p.schedule, p.runPruning); err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	p.cron.Start()
	p.running = true

	p.logger.Info("rate limit pruner started", "schedule", p.schedule)

	go func() {
		<-ctx.Done()
		p.Stop()
	}()

	return nil
}

// runPruning executes one pruning cycle.
func (p *Pruner) runPruning() {
	removed := p.limiter.Prune()
	if removed > 0 {
		p.logger.Info("pruned idle rate limit identifiers", "removed", removed)
	} else {
		p.logger.Debug("rate limit pruning completed, nothing to remove")
	}
}

// Stop stops the scheduler and waits for any running job to complete.
func (p *Pruner) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cron != nil && p.running {
		ctx := p.cron.Stop()
		<-ctx.Done() // Wait for running jobs to finish
		p.running = false
		p.logger.Info("rate limit pruner stopped")
	}
}
