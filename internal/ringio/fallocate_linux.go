//go:build linux

package ringio

import (
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// fallocFlags mirrors backend/local/preallocate_unix.go: try KEEP_SIZE
// first, then fall back to KEEP_SIZE|PUNCH_HOLE for filesystems (e.g.
// ZFS) that reject the plain form, and disable preallocation entirely
// once both combinations are known to fail.
var (
	fallocFlags = [...]uint32{
		unix.FALLOC_FL_KEEP_SIZE,
		unix.FALLOC_FL_KEEP_SIZE | unix.FALLOC_FL_PUNCH_HOLE,
	}
	fallocFlagsIndex int32
)

// Fallocate preallocates size bytes of fd's extent starting at offset.
// Size <= 0 is a no-op (spec.md §4.1: "fallocate(fh, offset, len, mode):
// kernel allocation hint").
func Fallocate(fd int, offset, size int64) error {
	if size <= 0 {
		return nil
	}
	index := atomic.LoadInt32(&fallocFlagsIndex)
	for {
		if index >= int32(len(fallocFlags)) {
			return nil // preallocation disabled for this filesystem
		}
		err := unix.Fallocate(fd, fallocFlags[index], offset, size)
		if err == unix.ENOTSUP {
			index++
			atomic.StoreInt32(&fallocFlagsIndex, index)
			continue
		}
		if err != nil {
			return classify("fallocate", "", err)
		}
		return nil
	}
}
