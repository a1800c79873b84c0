//go:build !windows

package metaapply

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/jmalicki/arsync-sub000/internal/dirfd"
	"github.com/jmalicki/arsync-sub000/internal/ringio"
)

func TestApplyFilePreservesPermsAndTimes(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "src")
	dstPath := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(srcPath, []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(dstPath, []byte("hello"), 0o600))

	srcMeta, err := ringio.StatAt(unix.AT_FDCWD, srcPath, false)
	require.NoError(t, err)
	srcMeta.Mode = 0o640 // force a visible change from dst's current 0o600

	dst, err := os.OpenFile(dstPath, os.O_RDWR, 0)
	require.NoError(t, err)
	defer dst.Close()

	cfg := Config{Perms: true, Times: true}
	require.NoError(t, ApplyFile(cfg, int(dst.Fd()), srcPath, dstPath, srcMeta))

	fi, err := os.Stat(dstPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), fi.Mode().Perm())
	assert.Equal(t, srcMeta.Mtime.Time().UnixNano(), fi.ModTime().UnixNano())
}

func TestApplySymlinkUsesNoFollowVariants(t *testing.T) {
	root, err := dirfd.Open(t.TempDir())
	require.NoError(t, err)
	defer root.Close()

	require.NoError(t, os.WriteFile(filepath.Join(root.Path(), "target"), []byte("x"), 0o644))
	require.NoError(t, root.SymlinkAt("target", "link"))

	meta, err := root.StatAt("target", false)
	require.NoError(t, err)

	cfg := Config{Times: true}
	err = ApplySymlink(cfg, root, "link", filepath.Join(root.Path(), "target"), filepath.Join(root.Path(), "link"), meta)
	assert.NoError(t, err)
}
