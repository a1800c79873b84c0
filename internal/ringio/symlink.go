//go:build !windows

package ringio

import "golang.org/x/sys/unix"

// SymlinkAt creates a symlink at dirfd/name pointing to target.
func SymlinkAt(target string, dirfd int, name string) error {
	err := retryEINTR(func() error { return unix.Symlinkat(target, dirfd, name) })
	return classify("symlinkat", name, err)
}

// ReadlinkAt returns the literal target string of the symlink at
// dirfd/name, growing its buffer until the read no longer fills it.
func ReadlinkAt(dirfd int, name string) (string, error) {
	for size := 256; ; size *= 2 {
		buf := make([]byte, size)
		var n int
		err := retryEINTR(func() error {
			var e error
			n, e = unix.Readlinkat(dirfd, name, buf)
			return e
		})
		if err != nil {
			return "", classify("readlinkat", name, err)
		}
		if n < size {
			return string(buf[:n]), nil
		}
	}
}

// LinkAt creates a hard link at newDirfd/newName pointing to the same
// inode as oldDirfd/oldName.
func LinkAt(oldDirfd int, oldName string, newDirfd int, newName string) error {
	err := retryEINTR(func() error { return unix.Linkat(oldDirfd, oldName, newDirfd, newName, 0) })
	return classify("linkat", newName, err)
}

// MknodAt recreates a device, FIFO, or socket special file.
func MknodAt(dirfd int, name string, mode uint32, dev uint64) error {
	err := retryEINTR(func() error { return unix.Mknodat(dirfd, name, mode, int(dev)) })
	return classify("mknodat", name, err)
}
