//go:build linux

package ringio

import "golang.org/x/sys/unix"

// Fadvise issues a performance hint; failures are ignored by the caller
// per spec.md §4.1 ("performance hint only; ignored failures are
// acceptable") — it still returns the error so callers can log it at
// debug level the way backend/local/fadvise_unix.go does.
func Fadvise(fd int, offset, length int64, advice Advice) error {
	var a int
	switch advice {
	case AdviceSequential:
		a = unix.FADV_SEQUENTIAL
	case AdviceDontNeed:
		a = unix.FADV_DONTNEED
	case AdviceNoReuse:
		a = unix.FADV_NOREUSE
	default:
		a = unix.FADV_NORMAL
	}
	return classify("fadvise", "", unix.Fadvise(fd, offset, length, a))
}
