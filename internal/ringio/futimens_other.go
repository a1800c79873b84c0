//go:build (freebsd || netbsd || openbsd || dragonfly || darwin) && !windows

package ringio

import "golang.org/x/sys/unix"

// Futimens outside Linux falls back to futimes(2), which is
// microsecond-precision only; the nanosecond remainder is lost. This is
// a documented platform gap (spec.md §6 notes BSD/Darwin semantics are
// "analogous" but not identical).
func Futimens(fd int, atime, mtime Timestamp) error {
	tv := []unix.Timeval{
		unix.NsecToTimeval(atime.Sec*1e9 + atime.Nsec),
		unix.NsecToTimeval(mtime.Sec*1e9 + mtime.Nsec),
	}
	return classify("futimes", "", unix.Futimes(fd, tv))
}
