//go:build !linux && !windows

package ringio

import "golang.org/x/sys/unix"

// Fallocate on the non-Linux unixes has no single portable fallocate();
// we fall back to ftruncate, which reserves the logical size without the
// physical-block guarantee Linux's FALLOC_FL_KEEP_SIZE gives, matching
// the "on platforms lacking it, use the platform equivalent" instruction
// in spec.md §4.1.
func Fallocate(fd int, offset, size int64) error {
	if size <= 0 {
		return nil
	}
	err := unix.Ftruncate(fd, offset+size)
	if err != nil {
		return classify("ftruncate", "", err)
	}
	return nil
}
