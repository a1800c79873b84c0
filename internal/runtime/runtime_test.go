package runtime

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchJoinsAllTasks(t *testing.T) {
	rt := New(4)
	b := rt.NewBatch(context.Background())

	var n int64
	for i := 0; i < 50; i++ {
		b.Dispatch(func(ctx context.Context) error {
			atomic.AddInt64(&n, 1)
			return nil
		})
	}
	require.NoError(t, b.Join())
	assert.EqualValues(t, 50, n)
}

func TestBatchFailFast(t *testing.T) {
	rt := New(2)
	b := rt.NewBatch(context.Background())
	wantErr := errors.New("boom")

	b.Dispatch(func(ctx context.Context) error { return wantErr })
	b.Dispatch(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	err := b.Join()
	assert.Error(t, err)
}

func TestOffloadRespectsLimit(t *testing.T) {
	pool := NewBlockingPool(1)
	got, err := Offload(context.Background(), pool, func() (int, error) {
		// The pool's single slot is held by this call.
		assert.False(t, pool.sem.TryAcquire(1))
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}
