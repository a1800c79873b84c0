// Package ringio holds the submission primitives (spec.md §4.1): typed
// wrappers over the kernel calls the copy engine issues. On a platform
// with a real asynchronous submission interface (Linux io_uring) these
// would be queued ops whose buffers are owned by the kernel until
// completion; Go's runtime already gives every blocking syscall that
// property (see SPEC_FULL.md §0), so each wrapper here is a synchronous
// call that classifies its result into the error taxonomy in
// internal/xerr and returns any buffer it was given back to the caller,
// matching the ownership contract spec.md §4.1 describes.
package ringio

import "time"

// Timestamp is a {seconds, nanoseconds} pair, spec.md §3's representation
// for atime/mtime/ctime/birthtime.
type Timestamp struct {
	Sec  int64
	Nsec int64
}

// Time converts the Timestamp to a time.Time.
func (t Timestamp) Time() time.Time {
	return time.Unix(t.Sec, t.Nsec)
}

// FromTime builds a Timestamp from a time.Time.
func FromTime(t time.Time) Timestamp {
	return Timestamp{Sec: t.Unix(), Nsec: int64(t.Nanosecond())}
}

// FileMetadata is the result of a statx-class call (spec.md §3).
type FileMetadata struct {
	Size    int64
	Mode    uint32 // type + permission bits, as returned by the kernel
	UID     uint32
	GID     uint32
	Nlink   uint64
	Inode   uint64
	Device  uint64
	Rdev    uint64 // populated for device special files
	Atime   Timestamp
	Mtime   Timestamp
	Ctime   Timestamp
	Birth   Timestamp
	HasBirth bool
}

// IsDir reports whether the metadata describes a directory.
func (m FileMetadata) IsDir() bool { return m.Mode&modeTypeMask == modeDir }

// IsRegular reports whether the metadata describes a regular file.
func (m FileMetadata) IsRegular() bool { return m.Mode&modeTypeMask == modeRegular }

// IsSymlink reports whether the metadata describes a symbolic link.
func (m FileMetadata) IsSymlink() bool { return m.Mode&modeTypeMask == modeSymlink }

// IsDevice reports whether the metadata describes a character or block
// device, a named pipe, or a socket — anything mknodat can recreate.
func (m FileMetadata) IsDevice() bool {
	switch m.Mode & modeTypeMask {
	case modeChar, modeBlock, modeFifo, modeSocket:
		return true
	default:
		return false
	}
}

// Advice selects a fadvise hint.
type Advice int

const (
	AdviceNormal Advice = iota
	AdviceSequential
	AdviceDontNeed
	AdviceNoReuse
)

// InodeKey uniquely identifies a filesystem object (spec.md §3).
type InodeKey struct {
	Device uint64
	Inode  uint64
}
