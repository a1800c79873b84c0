//go:build linux

package ringio

import (
	"runtime"
	"sync"

	"golang.org/x/sys/unix"
)

var (
	statxCheckOnce sync.Once
	statxAvailable bool
)

func haveStatx() bool {
	statxCheckOnce.Do(func() {
		if runtime.GOOS == "android" {
			statxAvailable = false
			return
		}
		var stat unix.Statx_t
		err := unix.Statx(unix.AT_FDCWD, ".", 0, unix.STATX_ALL, &stat)
		statxAvailable = err != unix.ENOSYS
	})
	return statxAvailable
}

// StatAt performs a dirfd-relative statx, requesting type, size, mode,
// ownership, link count, inode, device, and all three timestamps with
// nanosecond precision (spec.md §4.1). It falls back to fstatat on
// kernels older than 4.11, the same two-tier strategy
// backend/local/metadata_linux.go uses.
func StatAt(dirfd int, name string, noFollow bool) (FileMetadata, error) {
	if haveStatx() {
		return statxAt(dirfd, name, noFollow)
	}
	return fstatAt(dirfd, name, noFollow)
}

func statxAt(dirfd int, name string, noFollow bool) (FileMetadata, error) {
	flags := 0
	if noFollow {
		flags = unix.AT_SYMLINK_NOFOLLOW
	}
	var stat unix.Statx_t
	mask := uint32(unix.STATX_TYPE | unix.STATX_MODE | unix.STATX_UID | unix.STATX_GID |
		unix.STATX_NLINK | unix.STATX_INO | unix.STATX_SIZE |
		unix.STATX_ATIME | unix.STATX_MTIME | unix.STATX_CTIME | unix.STATX_BTIME)
	err := retryEINTR(func() error { return unix.Statx(dirfd, name, flags, int(mask), &stat) })
	if err != nil {
		return FileMetadata{}, classify("statx", name, err)
	}
	m := FileMetadata{
		Size:   int64(stat.Size),
		Mode:   uint32(stat.Mode),
		UID:    stat.Uid,
		GID:    stat.Gid,
		Nlink:  uint64(stat.Nlink),
		Inode:  stat.Ino,
		Device: unix.Mkdev(stat.Dev_major, stat.Dev_minor),
		Atime:  Timestamp{Sec: stat.Atime.Sec, Nsec: int64(stat.Atime.Nsec)},
		Mtime:  Timestamp{Sec: stat.Mtime.Sec, Nsec: int64(stat.Mtime.Nsec)},
		Ctime:  Timestamp{Sec: stat.Ctime.Sec, Nsec: int64(stat.Ctime.Nsec)},
	}
	if stat.Rdev_major != 0 || stat.Rdev_minor != 0 {
		m.Rdev = unix.Mkdev(stat.Rdev_major, stat.Rdev_minor)
	}
	if stat.Mask&unix.STATX_BTIME != 0 {
		m.Birth = Timestamp{Sec: stat.Btime.Sec, Nsec: int64(stat.Btime.Nsec)}
		m.HasBirth = true
	}
	return m, nil
}

func fstatAt(dirfd int, name string, noFollow bool) (FileMetadata, error) {
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
		Mode:   stat.Mode,
		UID:    stat.Uid,
		GID:    stat.Gid,
		Nlink:  uint64(stat.Nlink),
		Inode:  stat.Ino,
		Device: stat.Dev,
		Rdev:   stat.Rdev,
		Atime:  Timestamp{Sec: int64(stat.Atim.Sec), Nsec: int64(stat.Atim.Nsec)},
		Mtime:  Timestamp{Sec: int64(stat.Mtim.Sec), Nsec: int64(stat.Mtim.Nsec)},
		Ctime:  Timestamp{Sec: int64(stat.Ctim.Sec), Nsec: int64(stat.Ctim.Nsec)},
	}, nil
}
