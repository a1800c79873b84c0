//go:build !windows

package ringio

import (
	"errors"
	"io/fs"
	"syscall"

	"github.com/jmalicki/arsync-sub000/internal/xerr"
)

// retryEINTR re-issues op until it returns anything other than EINTR,
// the "Interrupted on a submission: retry transparently" propagation
// rule spec.md §7 states. A signal landing mid-syscall is not a
// filesystem error at all, so it never reaches classify.
func retryEINTR(op func() error) error {
	for {
		err := op()
		if err != syscall.EINTR {
			return err
		}
	}
}

// classify turns a raw syscall error into the taxonomy internal/xerr
// defines, the way rclone's backend/local checks individual errno values
// (xattr.go's xattrIsNotSupported, for instance) but generalized across
// every submission primitive in this package.
func classify(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		if errors.Is(err, fs.ErrNotExist) {
			return xerr.New(xerr.NotFound, op, path, err)
		}
		if errors.Is(err, fs.ErrPermission) {
			return xerr.New(xerr.PermissionDenied, op, path, err)
		}
		if errors.Is(err, fs.ErrExist) {
			return xerr.New(xerr.AlreadyExists, op, path, err)
		}
		return xerr.New(xerr.IoError, op, path, err)
	}
	switch errno {
	case syscall.ENOENT:
		return xerr.New(xerr.NotFound, op, path, err)
	case syscall.EACCES, syscall.EPERM:
		return xerr.New(xerr.PermissionDenied, op, path, err)
	case syscall.EEXIST:
		return xerr.New(xerr.AlreadyExists, op, path, err)
	case syscall.EXDEV:
		return xerr.New(xerr.CrossDevice, op, path, err)
	case syscall.ENOTSUP, syscall.EINVAL:
		return xerr.New(xerr.Unsupported, op, path, err)
	case syscall.EMFILE, syscall.ENFILE:
		return xerr.New(xerr.ResourceExhaustion, op, path, err)
	case syscall.EINTR:
		return xerr.New(xerr.Interrupted, op, path, err)
	default:
		return xerr.New(xerr.IoError, op, path, err)
	}
}
