// Package bufpool implements the buffer pool contract from spec.md §4.3:
// two disjoint sub-pools (I/O-sized, metadata-sized) with scoped
// check-out/return. Go has no destructors, so "RAII" here means the
// caller must Release what it Acquires, typically via defer, the same
// discipline rclone's callers use for file handles (defer f.Close()).
package bufpool

import (
	"sync"
	"sync/atomic"
)

const (
	// DefaultIOSize is the default size of an I/O buffer (spec.md §4.3).
	DefaultIOSize = 64 * 1024
	// MetaSize is the fixed size of a metadata buffer.
	MetaSize = 4 * 1024
)

// Pool is one sub-pool of fixed-size buffers.
type Pool struct {
	size      int
	pool      sync.Pool
	allocated int64 // total buffers ever allocated (high-water mark)
	inUse     int64 // currently checked out
	acquires  int64 // total Acquire calls
}

// New creates a Pool handing out buffers of the given size.
func New(size int) *Pool {
	p := &Pool{size: size}
	p.pool.New = func() interface{} {
		atomic.AddInt64(&p.allocated, 1)
		b := make([]byte, p.size)
		return &b
	}
	return p
}

// Buffer is a scoped loan from a Pool. The zero value is not usable;
// obtain one via Pool.Acquire.
type Buffer struct {
	pool *Pool
	buf  *[]byte // nil once Take()n and not yet Restore()d
}

// Acquire checks out a buffer of the pool's configured size.
func (p *Pool) Acquire() *Buffer {
	atomic.AddInt64(&p.acquires, 1)
	atomic.AddInt64(&p.inUse, 1)
	b := p.pool.Get().(*[]byte)
	*b = (*b)[:p.size]
	return &Buffer{pool: p, buf: b}
}

// Bytes returns the buffer's storage. Truncate it (via Slice) before a
// short read so a short write doesn't send pool-sized garbage past EOF.
func (b *Buffer) Bytes() []byte {
	if b.buf == nil {
		return nil
	}
	return *b.buf
}

// Slice truncates the visible length of the buffer to n bytes, without
// affecting the pool's fixed allocation size.
func (b *Buffer) Slice(n int) {
	if b.buf == nil {
		return
	}
	*b.buf = (*b.buf)[:n]
}

// Reset restores the buffer's visible length to the pool's full size,
// for reuse across read/write iterations.
func (b *Buffer) Reset() {
	if b.buf == nil {
		return
	}
	*b.buf = (*b.buf)[:b.pool.size]
}

// Take surrenders the backing storage to a submission op that needs to
// own it until completion (spec.md §4.3's take()/restore() pair);
// dropping a Buffer whose storage was Taken and never Restored does not
// return it to the pool.
func (b *Buffer) Take() *[]byte {
	out := b.buf
	b.buf = nil
	return out
}

// Restore gives ownership of storage back to this Buffer after a
// submission op completes.
func (b *Buffer) Restore(storage *[]byte) {
	b.buf = storage
}

// Release returns the buffer to its pool. It is a no-op if the storage
// was Taken and never Restored (spec.md §4.3).
func (b *Buffer) Release() {
	if b.buf == nil {
		return
	}
	atomic.AddInt64(&b.pool.inUse, -1)
	buf := b.buf
	*buf = (*buf)[:cap(*buf)]
	b.pool.pool.Put(buf)
	b.buf = nil
}

// Stats is a point-in-time snapshot of a Pool's counters.
type Stats struct {
	Allocated int64
	InUse     int64
	Acquires  int64
	HitRate   float64
}

// Snapshot reports the pool's current counters. Reported hit rate =
// (acquisitions - allocations) / acquisitions, per spec.md §4.3.
func (p *Pool) Snapshot() Stats {
	allocated := atomic.LoadInt64(&p.allocated)
	acquires := atomic.LoadInt64(&p.acquires)
	hitRate := 0.0
	if acquires > 0 {
		hitRate = float64(acquires-allocated) / float64(acquires)
	}
	return Stats{
		Allocated: allocated,
		InUse:     atomic.LoadInt64(&p.inUse),
		Acquires:  acquires,
		HitRate:   hitRate,
	}
}

// Pools bundles the two sub-pools the contract requires: I/O-sized
// buffers and fixed metadata buffers.
type Pools struct {
	IO   *Pool
	Meta *Pool
}

// NewPools builds the standard pair, with ioSize defaulting to
// DefaultIOSize when 0.
func NewPools(ioSize int) *Pools {
	if ioSize <= 0 {
		ioSize = DefaultIOSize
	}
	return &Pools{
		IO:   New(ioSize),
		Meta: New(MetaSize),
	}
}
