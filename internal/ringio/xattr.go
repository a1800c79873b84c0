//go:build !windows

package ringio

import (
	"syscall"

	"github.com/pkg/xattr"

	"github.com/jmalicki/arsync-sub000/internal/xerr"
)

// XattrSupported mirrors backend/local/xattr.go's xattrSupported constant
// — whether this platform's xattr syscalls exist at all (distinct from
// whether a particular filesystem supports them, which IsXattrUnsupported
// detects per-call).
const XattrSupported = xattr.XATTR_SUPPORTED

// IsXattrUnsupported reports whether err indicates the underlying
// filesystem doesn't support extended attributes at all, the way
// backend/local/xattr.go's xattrIsNotSupported does, so callers can
// downgrade it to a warning per spec.md §7 rather than failing the
// traversal.
func IsXattrUnsupported(err error) bool {
	xattrErr, ok := err.(*xattr.Error)
	if !ok {
		return false
	}
	return xattrErr.Err == syscall.EINVAL || xattrErr.Err == syscall.ENOTSUP || xattrErr.Err == xattr.ENOATTR
}

// ListXattr returns the ordered set of extended attribute names on path.
// follow selects whether a symlink is followed or the link itself is
// inspected.
func ListXattr(path string, follow bool) ([]string, error) {
	var list []string
	var err error
	if follow {
		list, err = xattr.List(path)
	} else {
		list, err = xattr.LList(path)
	}
	if err != nil {
		if IsXattrUnsupported(err) {
			return nil, xerr.New(xerr.Unsupported, "listxattr", path, err)
		}
		return nil, classify("listxattr", path, err)
	}
	return list, nil
}

// GetXattr reads a single extended attribute value.
func GetXattr(path, name string, follow bool) ([]byte, error) {
	var v []byte
	var err error
	if follow {
		v, err = xattr.Get(path, name)
	} else {
		v, err = xattr.LGet(path, name)
	}
	if err != nil {
		if IsXattrUnsupported(err) {
			return nil, xerr.New(xerr.Unsupported, "getxattr", path, err)
		}
		return nil, classify("getxattr", path, err)
	}
	return v, nil
}

// SetXattr writes a single extended attribute value.
func SetXattr(path, name string, value []byte, follow bool) error {
	var err error
	if follow {
		err = xattr.Set(path, name, value)
	} else {
		err = xattr.LSet(path, name, value)
	}
	if err != nil {
		if IsXattrUnsupported(err) {
			return xerr.New(xerr.Unsupported, "setxattr", path, err)
		}
		return classify("setxattr", path, err)
	}
	return nil
}
