//go:build !windows

package ringio

import (
	"golang.org/x/sys/unix"

	"github.com/jmalicki/arsync-sub000/internal/xerr"
)

// ReadAt issues a pread at the given offset. Short reads are permitted
// (spec.md §4.1); the buffer is the caller's and is returned unchanged —
// this wrapper only reports how many bytes landed in it.
func ReadAt(fd int, buf []byte, offset int64) (int, error) {
	var n int
	err := retryEINTR(func() error {
		var e error
		n, e = unix.Pread(fd, buf, offset)
		return e
	})
	if err != nil {
		return n, classify("pread", "", err)
	}
	return n, nil
}

// WriteAt issues a pwrite at the given offset. A short write (fewer bytes
// written than requested, with bytes remaining) is treated as a failure
// per spec.md §4.1.
func WriteAt(fd int, buf []byte, offset int64) (int, error) {
	var n int
	err := retryEINTR(func() error {
		var e error
		n, e = unix.Pwrite(fd, buf, offset)
		return e
	})
	if err != nil {
		return n, classify("pwrite", "", err)
	}
	if n < len(buf) {
		return n, xerr.New(xerr.ShortWrite, "pwrite", "", nil)
	}
	return n, nil
}

// Fsync flushes fd's data and metadata to stable storage.
func Fsync(fd int) error {
	return classify("fsync", "", retryEINTR(func() error { return unix.Fsync(fd) }))
}
