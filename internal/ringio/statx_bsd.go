//go:build freebsd || netbsd || openbsd || dragonfly

package ringio

import "golang.org/x/sys/unix"

// StatAt on the BSDs has no statx(); fstatat() already carries everything
// the spec needs except a kernel-maintained birth time is exposed under a
// different field per-BSD, which we don't attempt to normalize here (see
// DESIGN.md's platform-matrix note).
func StatAt(dirfd int, name string, noFollow bool) (FileMetadata, error) {
	flags := 0
	if noFollow {
		flags = unix.AT_SYMLINK_NOFOLLOW
	}
	var stat unix.Stat_t
	err := retryEINTR(func() error { return unix.Fstatat(dirfd, name, &stat, flags) })
	if err != nil {
		return FileMetadata{}, classify("fstatat", name, err)
	}
	return FileMetadata{
		Size:   stat.Size,
		Mode:   uint32(stat.Mode),
		UID:    stat.Uid,
		GID:    stat.Gid,
		Nlink:  uint64(stat.Nlink),
		Inode:  stat.Ino,
		Device: uint64(stat.Dev),
		Rdev:   uint64(stat.Rdev),
		Atime:  Timestamp{Sec: int64(stat.Atim.Sec), Nsec: int64(stat.Atim.Nsec)},
		Mtime:  Timestamp{Sec: int64(stat.Mtim.Sec), Nsec: int64(stat.Mtim.Nsec)},
		Ctime:  Timestamp{Sec: int64(stat.Ctim.Sec), Nsec: int64(stat.Ctim.Nsec)},
	}, nil
}
