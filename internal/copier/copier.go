// Package copier implements the per-file copy strategies from spec.md
// §4.6: sequential copy for small files, region-parallel copy for
// large ones, both grounded on rclone's backend/local preallocation
// (preallocate_unix.go) and page-cache (fadvise_unix.go) handling,
// generalized from "local file as one half of a remote transfer" to
// "local file copied to a local destination entirely via dirfd-relative
// syscalls".
package copier

import (
	"context"

	"github.com/jmalicki/arsync-sub000/internal/bufpool"
	"github.com/jmalicki/arsync-sub000/internal/ringio"
	"github.com/jmalicki/arsync-sub000/internal/runtime"
)

// Config controls the copy strategy, per spec.md §4.6.
type Config struct {
	// ParallelThreshold is the minimum file size that is eligible for
	// region-parallel copy.
	ParallelThreshold int64
	// ParallelDepth is d in 2^d regions. 0 disables region-parallel
	// copy regardless of size.
	ParallelDepth int
	// ChunkSize is the read/write granularity within a region.
	// Defaults to 2 MiB when <= 0.
	ChunkSize int64
	// Fsync requests an fsync(dst) after all data is written.
	Fsync bool
}

const defaultChunkSize = 2 * 1024 * 1024

// hugePageAlign is the 2 MiB boundary spec.md §4.6 rounds non-zero
// region starts down to, so regions stay aligned with typical kernel
// I/O coalescing windows.
const hugePageAlign = 2 * 1024 * 1024

func (c Config) chunkSize() int64 {
	if c.ChunkSize <= 0 {
		return defaultChunkSize
	}
	return c.ChunkSize
}

// Copy copies size bytes from srcFd to dstFd, choosing sequential or
// region-parallel strategy per spec.md §4.6's decision table. atime
// and mtime must already have been captured from the source before
// this call, so the read itself does not pollute the preserved atime.
func Copy(ctx context.Context, cfg Config, rt *runtime.Runtime, pools *bufpool.Pools, srcFd, dstFd int, size int64) error {
	if size == 0 {
		return nil
	}

	preallocateAndAdvise(srcFd, dstFd, size)

	var err error
	if size < cfg.ParallelThreshold || cfg.ParallelDepth == 0 {
		err = copySequential(pools, cfg.chunkSize(), srcFd, dstFd, 0, size)
	} else {
		err = copyParallel(ctx, cfg, rt, pools, srcFd, dstFd, size)
	}
	if err != nil {
		return err
	}
	if cfg.Fsync {
		return ringio.Fsync(dstFd)
	}
	return nil
}

func preallocateAndAdvise(srcFd, dstFd int, size int64) {
	// Best-effort per spec.md §4.6; failures here are not fatal to the
	// copy, matching rclone's preAllocate treatment of ENOTSUP.
	_ = ringio.Fallocate(dstFd, 0, size)
	_ = ringio.Fadvise(srcFd, 0, size, ringio.AdviceNoReuse)
	_ = ringio.Fadvise(dstFd, 0, size, ringio.AdviceNoReuse)
}

// copySequential runs the read/write loop of spec.md §4.6 over
// [offset, offset+length), capping each iteration at chunkSize (the
// region worker's configured granularity) as well as the pool's fixed
// buffer size, whichever is smaller.
func copySequential(pools *bufpool.Pools, chunkSize int64, srcFd, dstFd int, offset, length int64) error {
	buf := pools.IO.Acquire()
	defer buf.Release()

	end := offset + length
	for offset < end {
		want := int64(len(buf.Bytes()))
		if chunkSize < want {
			want = chunkSize
		}
		if remaining := end - offset; remaining < want {
			want = remaining
		}
		buf.Slice(int(want))
		n, err := ringio.ReadAt(srcFd, buf.Bytes(), offset)
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
		buf.Slice(n)
		if _, err := ringio.WriteAt(dstFd, buf.Bytes(), offset); err != nil {
			return err
		}
		offset += int64(n)
		buf.Reset()
	}
	return nil
}

// copyParallel partitions [0, size) into 2^ParallelDepth regions per
// spec.md §4.6, dispatching each onto the runtime's worker pool and
// joining with fail-fast semantics.
func copyParallel(ctx context.Context, cfg Config, rt *runtime.Runtime, pools *bufpool.Pools, srcFd, dstFd int, size int64) error {
	regions := partition(size, cfg.ParallelDepth)

	batch := rt.NewBatch(ctx)
	for _, r := range regions {
		r := r
		batch.Dispatch(func(ctx context.Context) error {
			return copySequential(pools, cfg.chunkSize(), srcFd, dstFd, r.start, r.end-r.start)
		})
	}
	return batch.Join()
}

type region struct {
	start, end int64
}

// partition splits [0, size) into 2^depth contiguous regions,
// rounding each internal boundary down to a 2 MiB page per spec.md
// §4.6 so regions stay aligned with typical kernel I/O coalescing
// windows, while keeping boundaries monotonically increasing (a
// region never goes empty or negative-length from rounding).
func partition(size int64, depth int) []region {
	count := int64(1) << uint(depth)
	if count > size {
		count = size
	}
	if count < 1 {
		count = 1
	}
	width := size / count

	boundaries := make([]int64, count+1)
	boundaries[0] = 0
	boundaries[count] = size
	prev := int64(0)
	for i := int64(1); i < count; i++ {
		b := roundDownHugePage(i * width)
		if b <= prev {
			b = prev + 1
		}
		boundaries[i] = b
		prev = b
	}

	regions := make([]region, count)
	for i := int64(0); i < count; i++ {
		regions[i] = region{start: boundaries[i], end: boundaries[i+1]}
	}
	return regions
}

func roundDownHugePage(offset int64) int64 {
	return (offset / hugePageAlign) * hugePageAlign
}
