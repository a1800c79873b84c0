//go:build !windows

// Package dirfd implements the directory-FD handle (spec.md §4.2): an
// owned directory descriptor that makes every subsequent path resolution
// TOCTOU-safe because it is relative to an already-opened directory
// rather than a path string that can be raced out from under a second
// lookup.
package dirfd

import (
	"os"
	"sync/atomic"

	"github.com/jmalicki/arsync-sub000/internal/ringio"
)

// Handle is a cloneable, reference-counted owner of one open directory
// descriptor. As long as any clone exists, the descriptor stays valid and
// refers to the same directory inode (spec.md §3's DirectoryHandle
// invariant).
type Handle struct {
	file    *os.File
	path    string // diagnostics only
	refs    *int32
}

// Open opens path as a directory and returns the root Handle for a
// traversal.
func Open(path string) (*Handle, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if !fi.IsDir() {
		_ = f.Close()
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrInvalid}
	}
	refs := int32(1)
	return &Handle{file: f, path: path, refs: &refs}, nil
}

// Clone returns a new reference to the same underlying descriptor. The
// caller must Close its own clone independently.
func (h *Handle) Clone() *Handle {
	atomic.AddInt32(h.refs, 1)
	return &Handle{file: h.file, path: h.path, refs: h.refs}
}

// Close releases this clone's reference, closing the underlying
// descriptor once the last clone is released.
func (h *Handle) Close() error {
	if atomic.AddInt32(h.refs, -1) == 0 {
		return h.file.Close()
	}
	return nil
}

// Path returns the diagnostic path this handle was opened with. It must
// not be used to re-resolve the directory — that would reintroduce the
// TOCTOU window this package exists to close.
func (h *Handle) Path() string { return h.path }

// Fd returns the raw descriptor for use as a dirfd in *at-relative calls.
func (h *Handle) Fd() int { return int(h.file.Fd()) }

// StatAt stats name relative to this directory.
func (h *Handle) StatAt(name string, noFollow bool) (ringio.FileMetadata, error) {
	return ringio.StatAt(h.Fd(), name, noFollow)
}

// CreateDirAt creates a subdirectory relative to this directory.
func (h *Handle) CreateDirAt(name string, perm uint32) error {
	return ringio.MkdirAt(h.Fd(), name, perm)
}

// OpenDirAt opens a child directory relative to this directory as a new
// Handle, independent of this one's lifetime.
func (h *Handle) OpenDirAt(name string) (*Handle, error) {
	f, err := ringio.OpenDirAt(h.Fd(), name)
	if err != nil {
		return nil, err
	}
	refs := int32(1)
	return &Handle{file: f, path: h.path + "/" + name, refs: &refs}, nil
}

// OpenFileAt opens a regular file relative to this directory.
func (h *Handle) OpenFileAt(name string, flags int, perm uint32) (*os.File, error) {
	return ringio.OpenFileAt(h.Fd(), name, flags, perm)
}

// SetPermissionsOnSelf applies mode to the directory this handle owns.
func (h *Handle) SetPermissionsOnSelf(mode uint32) error {
	return ringio.Fchmod(h.Fd(), mode)
}

// SetOwnershipOnSelf applies uid/gid to the directory this handle owns.
func (h *Handle) SetOwnershipOnSelf(uid, gid int) error {
	return ringio.Fchown(h.Fd(), uid, gid)
}

// SetTimesOnSelf applies atime/mtime to the directory this handle owns.
func (h *Handle) SetTimesOnSelf(atime, mtime ringio.Timestamp) error {
	return ringio.Futimens(h.Fd(), atime, mtime)
}

// SymlinkAt creates a symlink relative to this directory.
func (h *Handle) SymlinkAt(target, name string) error {
	return ringio.SymlinkAt(target, h.Fd(), name)
}

// ReadlinkAt reads a symlink's literal target relative to this directory.
func (h *Handle) ReadlinkAt(name string) (string, error) {
	return ringio.ReadlinkAt(h.Fd(), name)
}

// LinkAt creates a hard link from name in this directory to newName in
// other's directory.
func (h *Handle) LinkAt(name string, other *Handle, newName string) error {
	return ringio.LinkAt(h.Fd(), name, other.Fd(), newName)
}

// MknodAt recreates a special file relative to this directory.
func (h *Handle) MknodAt(name string, mode uint32, dev uint64) error {
	return ringio.MknodAt(h.Fd(), name, mode, dev)
}

// UnlinkAt removes a non-directory entry relative to this directory.
func (h *Handle) UnlinkAt(name string) error {
	return ringio.UnlinkAt(h.Fd(), name)
}

// ReadDirNames lists this directory's entries.
func (h *Handle) ReadDirNames() ([]string, error) {
	return ringio.ReadDirNames(h.file)
}

// LUtimesAt sets atime/mtime on name relative to this directory without
// following a symlink (spec.md §4.7's lutimensat).
func (h *Handle) LUtimesAt(name string, atime, mtime ringio.Timestamp) error {
	return ringio.UtimesAt(h.Fd(), name, atime, mtime, true)
}

// UtimesAt sets atime/mtime on name relative to this directory, following
// symlinks.
func (h *Handle) UtimesAt(name string, atime, mtime ringio.Timestamp) error {
	return ringio.UtimesAt(h.Fd(), name, atime, mtime, false)
}

// LChownAt sets the owner/group of name relative to this directory
// without following a symlink.
func (h *Handle) LChownAt(name string, uid, gid int) error {
	return ringio.ChownAt(h.Fd(), name, uid, gid, true)
}

// ChownAt sets the owner/group of name relative to this directory,
// following symlinks.
func (h *Handle) ChownAt(name string, uid, gid int) error {
	return ringio.ChownAt(h.Fd(), name, uid, gid, false)
}
