// Package runtime provides the execution-runtime surface spec.md §5
// describes abstractly: a pool of worker executors a cross-thread
// dispatcher routes tasks to, a blocking-offload pool for syscalls that
// cannot be driven asynchronously (directory enumeration, see spec.md
// §4.8), and fail-fast join semantics for a batch of dispatched tasks.
//
// Go has no io_uring-style per-thread submission ring in this pack's
// ecosystem (see SPEC_FULL.md §0), so "dispatch to a worker executor"
// here means "run on a goroutine drawn from a bounded pool", the same
// fan-out rclone's backend/combine.multithread and the chunked-upload
// backends use: an errgroup.Group capped with SetLimit, Go() per task,
// Wait() joins with the first error winning and sibling tasks
// cancelled via the group's context.
package runtime

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Runtime is a bounded pool of worker executors. Blocking offload
// (spec.md §4.8's directory-read offload) does not go through it: it
// uses the separate, semaphore-gated BlockingPool in offload.go, so the
// traversal dispatcher and the blocking directory-read offload never
// starve each other's concurrency budget.
type Runtime struct {
	limit int
}

// New returns a Runtime whose dispatched tasks never exceed limit
// concurrently. limit <= 0 means unbounded, matching errgroup's
// SetLimit(-1) convention.
func New(limit int) *Runtime {
	return &Runtime{limit: limit}
}

// Batch is one fail-fast group of dispatched tasks: spec.md §5's
// "Fail-fast in the dispatcher cancels sibling tasks after their
// current suspension point resumes; already-submitted ops run to
// completion before the cancellation is honored" — errgroup.Group
// already has exactly this shape: canceling gCtx doesn't interrupt a
// task mid-syscall, it only makes the *next* ctx-aware suspension
// point in sibling tasks observe cancellation.
type Batch struct {
	g    *errgroup.Group
	ctx  context.Context
}

// NewBatch starts a fail-fast batch bounded by the Runtime's limit,
// derived from ctx so Dispatch'd tasks observe external cancellation.
func (r *Runtime) NewBatch(ctx context.Context) *Batch {
	g, gCtx := errgroup.WithContext(ctx)
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}
	return &Batch{g: g, ctx: gCtx}
}

// Context returns the batch's context, cancelled once any dispatched
// task returns a non-nil error.
func (b *Batch) Context() context.Context { return b.ctx }

// Dispatch runs fn on a worker executor (spec.md §4.8's "dispatch to
// another executor with join handle"). Dispatch blocks only if the
// Runtime's limit is currently saturated — it is not itself a
// suspension point in the sense of waiting for fn to finish.
func (b *Batch) Dispatch(fn func(ctx context.Context) error) {
	b.g.Go(func() error {
		return fn(b.ctx)
	})
}

// Join waits for every dispatched task to complete, returning the
// first non-nil error (spec.md §5's fail-fast join).
func (b *Batch) Join() error {
	return b.g.Wait()
}
