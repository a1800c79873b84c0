//go:build linux

package ringio

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Futimens sets atime/mtime on an already-open file descriptor with
// nanosecond precision — the "variant that takes fh and NULL name"
// spec.md §4.1 describes. golang.org/x/sys/unix only exposes the
// path-taking utimensat binding, so this resolves the fd through
// /proc/self/fd, the standard Linux idiom for giving a path-based call
// fd semantics.
func Futimens(fd int, atime, mtime Timestamp) error {
	return UtimesAt(unix.AT_FDCWD, fmt.Sprintf("/proc/self/fd/%d", fd), atime, mtime, false)
}
