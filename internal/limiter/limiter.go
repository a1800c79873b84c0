// Package limiter implements the adaptive concurrency limiter from
// spec.md §4.5: a weighted counting semaphore that lowers its ceiling
// when acquisition observes resource exhaustion (EMFILE/ENFILE) and
// restores it opportunistically, bounding in-flight work against the
// process file-descriptor limit.
package limiter

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Limiter is a golang.org/x/sync/semaphore.Weighted wrapper that can
// shrink and grow its ceiling at runtime. semaphore.Weighted itself has
// no notion of a resizable capacity, so ceiling changes are implemented
// by acquiring/releasing "phantom" units against a fixed-size semaphore
// sized at Max, the way a counting semaphore with a configurable active
// region is usually built on top of a fixed one.
type Limiter struct {
	sem   *semaphore.Weighted
	max   int64
	floor int64
	halvingFactor int64

	mu      sync.Mutex
	ceiling int64 // current effective ceiling
	shrunk  int64 // units held back from the ceiling by report_exhaustion
	live    int64 // permits currently granted
}

// Config configures the limiter.
type Config struct {
	// Max is the absolute maximum ceiling (spec.md §4.5's
	// "user-configured max").
	Max int64
	// Initial is the starting ceiling, normally
	// min(Max, observed FD rlimit/2) per spec.md §4.5.
	Initial int64
	// Floor is the lowest the ceiling may shrink to.
	Floor int64
	// HalvingFactor divides the ceiling on exhaustion (2 halves it, the
	// spec's example).
	HalvingFactor int64
}

// New builds a Limiter from cfg, filling in sane defaults.
func New(cfg Config) *Limiter {
	if cfg.HalvingFactor < 2 {
		cfg.HalvingFactor = 2
	}
	if cfg.Floor < 1 {
		cfg.Floor = 1
	}
	if cfg.Initial < cfg.Floor {
		cfg.Initial = cfg.Floor
	}
	if cfg.Initial > cfg.Max {
		cfg.Initial = cfg.Max
	}
	l := &Limiter{
		sem:           semaphore.NewWeighted(cfg.Max),
		max:           cfg.Max,
		floor:         cfg.Floor,
		halvingFactor: cfg.HalvingFactor,
		shrunk:        cfg.Max - cfg.Initial,
	}
	if l.shrunk > 0 {
		// Hold the gap between Max and Initial out of circulation from
		// the start, exactly as ReportExhaustion holds units back later.
		_ = l.sem.Acquire(context.Background(), l.shrunk)
	}
	return l
}

// InitialCeiling computes spec.md §4.5's formula:
// min(userMax, rlimit/2).
func InitialCeiling(userMax, fdRlimit int64) int64 {
	half := fdRlimit / 2
	if half < 1 {
		half = 1
	}
	if userMax > 0 && userMax < half {
		return userMax
	}
	return half
}

// Permit is a scoped token; Release gives back one unit of the ceiling.
type Permit struct {
	l *Limiter
}

// Acquire suspends until a unit is available under the current ceiling.
//
// The ceiling is enforced by never releasing the "shrunk" units back to
// the underlying max-sized semaphore (ReportExhaustion acquires them and
// holds them; maybeProbeUp is what lets them go). A plain Acquire(1)
// against the max-sized semaphore therefore already respects whatever
// the current effective ceiling is.
func (l *Limiter) Acquire(ctx context.Context) (*Permit, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	atomic.AddInt64(&l.live, 1)
	return &Permit{l: l}, nil
}

// Release gives back the permit's unit.
func (p *Permit) Release() {
	atomic.AddInt64(&p.l.live, -1)
	p.l.sem.Release(1)
	p.l.maybeProbeUp()
}

// Live returns the number of permits currently granted. Spec.md §8
// invariant 7: this must never exceed Ceiling().
func (l *Limiter) Live() int64 { return atomic.LoadInt64(&l.live) }

// Ceiling returns the current effective ceiling.
func (l *Limiter) Ceiling() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.max - l.shrunk
}

// ReportExhaustion is called by a permit holder that observed a
// resource-exhaustion error; it lowers the ceiling by the configured
// factor, clamped to Floor (spec.md §4.5).
func (l *Limiter) ReportExhaustion() {
	l.mu.Lock()
	current := l.max - l.shrunk
	shrunkTo := current / l.halvingFactor
	if shrunkTo < l.floor {
		shrunkTo = l.floor
	}
	if shrunkTo >= current {
		l.mu.Unlock()
		return
	}
	delta := current - shrunkTo
	l.shrunk += delta
	l.mu.Unlock()

	// Pull `delta` units permanently out of circulation until probed back.
	// Done outside l.mu: this can block until enough live permits release,
	// and must not stall unrelated Ceiling()/maybeProbeUp() callers meanwhile.
	_ = l.sem.Acquire(context.Background(), delta)
}

// maybeProbeUp restores one unit of ceiling on release, capped at Max,
// per spec.md §4.5 ("Periodically, or on each release, the limiter
// probes upward by one unit").
func (l *Limiter) maybeProbeUp() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.shrunk <= 0 {
		return
	}
	l.shrunk--
	l.sem.Release(1)
}
