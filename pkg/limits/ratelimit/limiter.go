package ratelimit

import (
	"log/slog"
	"sync"
	"time"
)

// GlobalIdentifier is the identifier used when per-client keying is
// disabled and all callers share one window.
const GlobalIdentifier = "global"

// Result describes the outcome of a limit check.
type Result struct {
	// Allowed indicates if the call is permitted.
	Allowed bool

	// Limit is the configured maximum calls per window.
	Limit int

	// Remaining is how many calls remain in the window.
	Remaining int

	// RetryAfter suggests how long to wait before retrying (zero when
	// the call was allowed).
	RetryAfter time.Duration
}

// SlidingWindow admits at most maxCalls per identifier within a trailing
// period. Safe for concurrent use.
type SlidingWindow struct {
	maxCalls int
	period   time.Duration

	mu    sync.Mutex
	calls map[string][]time.Time

	// now is replaceable for tests
	now func() time.Time
}

// NewSlidingWindow creates a limiter admitting maxCalls per period.
func NewSlidingWindow(maxCalls int, period time.Duration) *SlidingWindow {
	return &SlidingWindow{
		maxCalls: maxCalls,
		period:   period,
		calls:    make(map[string][]time.Time),
		now:      time.Now,
	}
}

// Allow reports whether a call by identifier is admitted, recording it if so.
func (sw *SlidingWindow) Allow(identifier string) bool {
	return sw.Check(identifier).Allowed
}

// Check prunes the identifier's expired history, admits the call if the
// window has room, and returns the window state either way.
func (sw *SlidingWindow) Check(identifier string) Result {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := sw.now()
	cutoff := now.Add(-sw.period)

	history := sw.calls[identifier]
	kept := history[:0]
	for _, t := range history {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) < sw.maxCalls {
		kept = append(kept, now)
		sw.calls[identifier] = kept
		return Result{
			Allowed:   true,
			Limit:     sw.maxCalls,
			Remaining: sw.maxCalls - len(kept),
		}
	}

	sw.calls[identifier] = kept

	// Oldest retained call leaving the window frees a slot
	retryAfter := kept[0].Add(sw.period).Sub(now)
	if retryAfter < 0 {
		retryAfter = 0
	}

	slog.Warn("rate limit exceeded",
		"identifier", identifier,
		"limit", sw.maxCalls,
		"period", sw.period,
	)

	return Result{
		Allowed:    false,
		Limit:      sw.maxCalls,
		Remaining:  0,
		RetryAfter: retryAfter,
	}
}

// Prune drops identifiers whose entire history has expired.
// Returns the number of identifiers removed.
func (sw *SlidingWindow) Prune() int {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	cutoff := sw.now().Add(-sw.period)
	removed := 0
	for id, history := range sw.calls {
		live := false
		for _, t := range history {
			if t.After(cutoff) {
				live = true
				break
			}
		}
		if !live {
			delete(sw.calls, id)
			removed++
		}
	}
	return removed
}

// Size returns the number of tracked identifiers.
func (sw *SlidingWindow) Size() int {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return len(sw.calls)
}
