//go:build !windows

package ringio

import (
	"golang.org/x/sys/unix"
)

// Fchmod sets the permission and type bits of an open file descriptor.
func Fchmod(fd int, mode uint32) error {
	return classify("fchmod", "", retryEINTR(func() error { return unix.Fchmod(fd, mode) }))
}

// Fchown sets the owner and group of an open file descriptor.
func Fchown(fd int, uid, gid int) error {
	return classify("fchown", "", retryEINTR(func() error { return unix.Fchown(fd, uid, gid) }))
}

// UtimesAt sets atime/mtime relative to dirfd, with nanosecond precision.
// noFollow requests AT_SYMLINK_NOFOLLOW, the symlink-safe variant spec.md
// §4.7 calls lutimensat.
func UtimesAt(dirfd int, name string, atime, mtime Timestamp, noFollow bool) error {
	flags := 0
	if noFollow {
		flags = unix.AT_SYMLINK_NOFOLLOW
	}
	ts := [2]unix.Timespec{
		unix.NsecToTimespec(atime.Sec*1e9 + atime.Nsec),
		unix.NsecToTimespec(mtime.Sec*1e9 + mtime.Nsec),
	}
	err := retryEINTR(func() error { return unix.UtimesNanoAt(dirfd, name, ts[:], flags) })
	return classify("utimensat", name, err)
}

// ChownAt sets the owner and group of name relative to dirfd. noFollow
// requests AT_SYMLINK_NOFOLLOW — spec.md §4.7's lfchownat, used for
// symlinks since opening one for an fd-based fchown would follow it.
func ChownAt(dirfd int, name string, uid, gid int, noFollow bool) error {
	flags := 0
	if noFollow {
		flags = unix.AT_SYMLINK_NOFOLLOW
	}
	err := retryEINTR(func() error { return unix.Fchownat(dirfd, name, uid, gid, flags) })
	return classify("fchownat", name, err)
}

