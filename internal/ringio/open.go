//go:build !windows

package ringio

import (
	"os"

	"golang.org/x/sys/unix"
)

// OpenDirAt opens name relative to dirfd as a directory, returning the
// owned *os.File the caller wraps in a dirfd.Handle (spec.md §4.2).
func OpenDirAt(dirfd int, name string) (*os.File, error) {
	var fd int
	err := retryEINTR(func() error {
		var e error
		fd, e = unix.Openat(dirfd, name, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
		return e
	})
	if err != nil {
		return nil, classify("openat", name, err)
	}
	return os.NewFile(uintptr(fd), name), nil
}

// OpenFileAt opens name relative to dirfd with the given flags/perm,
// returning the owned *os.File.
func OpenFileAt(dirfd int, name string, flags int, perm uint32) (*os.File, error) {
	var fd int
	err := retryEINTR(func() error {
		var e error
		fd, e = unix.Openat(dirfd, name, flags|unix.O_CLOEXEC, perm)
		return e
	})
	if err != nil {
		return nil, classify("openat", name, err)
	}
	return os.NewFile(uintptr(fd), name), nil
}

// MkdirAt creates a directory relative to dirfd.
func MkdirAt(dirfd int, name string, perm uint32) error {
	err := retryEINTR(func() error { return unix.Mkdirat(dirfd, name, perm) })
	return classify("mkdirat", name, err)
}

// UnlinkAt removes a non-directory entry relative to dirfd.
func UnlinkAt(dirfd int, name string) error {
	err := retryEINTR(func() error { return unix.Unlinkat(dirfd, name, 0) })
	return classify("unlinkat", name, err)
}
