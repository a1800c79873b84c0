//go:build darwin

package ringio

import "golang.org/x/sys/unix"

// StatAt on Darwin uses fstatat(); the Stat_t field names differ from the
// Linux/BSD convention (Atimespec rather than Atim), which is why this is
// a separate file rather than folded into statx_bsd.go.
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
	m := FileMetadata{
		Size:   stat.Size,
		Mode:   uint32(stat.Mode),
		UID:    stat.Uid,
		GID:    stat.Gid,
		Nlink:  uint64(stat.Nlink),
		Inode:  stat.Ino,
		Device: uint64(stat.Dev),
		Rdev:   uint64(stat.Rdev),
		Atime:  Timestamp{Sec: int64(stat.Atimespec.Sec), Nsec: int64(stat.Atimespec.Nsec)},
		Mtime:  Timestamp{Sec: int64(stat.Mtimespec.Sec), Nsec: int64(stat.Mtimespec.Nsec)},
		Ctime:  Timestamp{Sec: int64(stat.Ctimespec.Sec), Nsec: int64(stat.Ctimespec.Nsec)},
	}
	m.Birth = Timestamp{Sec: int64(stat.Birthtimespec.Sec), Nsec: int64(stat.Birthtimespec.Nsec)}
	m.HasBirth = true
	return m, nil
}
