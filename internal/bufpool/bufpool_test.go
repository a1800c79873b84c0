package bufpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireReleaseRoundTrip(t *testing.T) {
	p := New(1024)
	b := p.Acquire()
	require.Len(t, b.Bytes(), 1024)
	b.Slice(10)
	assert.Len(t, b.Bytes(), 10)
	b.Reset()
	assert.Len(t, b.Bytes(), 1024)
	b.Release()

	snap := p.Snapshot()
	assert.EqualValues(t, 1, snap.Acquires)
	assert.EqualValues(t, 0, snap.InUse)
}

func TestTakeAndRestore(t *testing.T) {
	p := New(64)
	b := p.Acquire()
	storage := b.Take()
	require.NotNil(t, storage)
	assert.Nil(t, b.Bytes())

	// Release while storage is Taken must not return it to the pool.
	b.Release()
	assert.EqualValues(t, 1, p.Snapshot().InUse)

	b.Restore(storage)
	b.Release()
	assert.EqualValues(t, 0, p.Snapshot().InUse)
}

func TestNewPoolsDefaultsIOSize(t *testing.T) {
	pools := NewPools(0)
	assert.Equal(t, DefaultIOSize, pools.IO.size)
	assert.Equal(t, MetaSize, pools.Meta.size)
}

func TestHitRateAfterWarmup(t *testing.T) {
	p := New(32)
	b1 := p.Acquire()
	b1.Release()
	b2 := p.Acquire() // should reuse b1's buffer rather than allocate
	b2.Release()

	snap := p.Snapshot()
	assert.EqualValues(t, 2, snap.Acquires)
	assert.EqualValues(t, 1, snap.Allocated)
	assert.InDelta(t, 0.5, snap.HitRate, 0.0001)
}
