package engine

import (
	"time"

	"github.com/jmalicki/arsync-sub000/internal/xerr"
)

// exhaustionBackoff is the pause before the single retry spec.md §7
// prescribes for a ResourceExhaustion submission. rclone's own retry
// helper (lib/pacer) was retrieved into this pack as test files only, not
// its implementation, so this is a fixed short sleep rather than a ported
// backoff curve (see DESIGN.md).
const exhaustionBackoff = 10 * time.Millisecond

// retryOnExhaustion runs op once; if it fails with an error xerr.Retryable
// reports as retryable, it retries the same op exactly once, per spec.md
// §7's propagation policy: an Interrupted submission is retried
// transparently (no backoff — a signal mid-syscall is not an overload
// condition); a ResourceExhaustion submission additionally notifies the
// concurrency limiter (shrinking its ceiling) and backs off first, since
// that one is retried in the hope that in-flight FDs have since freed up.
// A second failure is always propagated — this is a single retry, not a
// loop.
func retryOnExhaustion[T any](tc *TraversalContext, op func() (T, error)) (T, error) {
	result, err := op()
	if !xerr.Retryable(err) {
		return result, err
	}
	if xerr.Is(err, xerr.ResourceExhaustion) {
		tc.Limiter.ReportExhaustion()
		time.Sleep(exhaustionBackoff)
	}
	return op()
}

// retryOnExhaustionErr is retryOnExhaustion for operations that return
// only an error.
func retryOnExhaustionErr(tc *TraversalContext, op func() error) error {
	_, err := retryOnExhaustion(tc, func() (struct{}, error) { return struct{}{}, op() })
	return err
}
