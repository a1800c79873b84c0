package runtime

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// BlockingPool is the dedicated blocking-offload pool spec.md §5
// describes: "blocking operations (directory enumeration, see §4.8)
// are offloaded to a dedicated blocking pool", kept separate from the
// worker-executor Runtime above so a burst of directory reads can
// never starve the traversal dispatcher's own concurrency budget.
type BlockingPool struct {
	sem *semaphore.Weighted
}

// NewBlockingPool builds a pool allowing up to limit concurrent
// blocking calls. limit <= 0 means unbounded.
func NewBlockingPool(limit int64) *BlockingPool {
	if limit <= 0 {
		return &BlockingPool{}
	}
	return &BlockingPool{sem: semaphore.NewWeighted(limit)}
}

// Offload runs fn — a blocking call such as Handle.ReadDirNames —
// against the pool's concurrency budget, suspending the caller at the
// semaphore acquire until a slot is free rather than spawning
// unboundedly.
func Offload[T any](ctx context.Context, p *BlockingPool, fn func() (T, error)) (T, error) {
	var zero T
	if p.sem != nil {
		if err := p.sem.Acquire(ctx, 1); err != nil {
			return zero, err
		}
		defer p.sem.Release(1)
	}
	return fn()
}
