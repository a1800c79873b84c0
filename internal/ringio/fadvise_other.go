//go:build !linux && !windows

package ringio

// Fadvise is a Linux-only hint (POSIX_FADV_* has no portable equivalent
// on Darwin/BSD); it is a documented no-op elsewhere, matching spec.md
// §4.1's "ignored failures are acceptable".
func Fadvise(fd int, offset, length int64, advice Advice) error {
	return nil
}
