//go:build !windows

package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmalicki/arsync-sub000/internal/bufpool"
	"github.com/jmalicki/arsync-sub000/internal/copier"
	"github.com/jmalicki/arsync-sub000/internal/hardlink"
	"github.com/jmalicki/arsync-sub000/internal/limiter"
	"github.com/jmalicki/arsync-sub000/internal/metaapply"
	"github.com/jmalicki/arsync-sub000/internal/runtime"
	"github.com/jmalicki/arsync-sub000/internal/stats"
)

func newTestContext(opts Options) *TraversalContext {
	return &TraversalContext{
		Options:  opts,
		Limiter:  limiter.New(limiter.Config{Max: 64, Initial: 32, Floor: 1, HalvingFactor: 2}),
		Pools:    bufpool.NewPools(0),
		Hard:     hardlink.New(),
		Stats:    stats.New(),
		Runtime:  runtime.New(8),
		Blocking: runtime.NewBlockingPool(8),
	}
}

func buildTree(t *testing.T, root string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "f1.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "b", "f2.txt"), []byte("world"), 0o644))
	require.NoError(t, os.Symlink("f1.txt", filepath.Join(root, "a", "link-to-f1")))
}

func TestProcessRootCopiesTreeContentFaithfully(t *testing.T) {
	srcRoot := t.TempDir()
	dstRoot := t.TempDir()
	buildTree(t, srcRoot)

	tc := newTestContext(Options{
		Meta:             metaapply.Config{Archive: true},
		Copy:             copier.Config{ParallelThreshold: 1 << 30, ParallelDepth: 2},
		PreserveSymlinks: true,
	})

	err := ProcessRoot(context.Background(), tc, srcRoot, "a", dstRoot, "a")
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dstRoot, "a", "f1.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	got2, err := os.ReadFile(filepath.Join(dstRoot, "a", "b", "f2.txt"))
	require.NoError(t, err)
	assert.Equal(t, "world", string(got2))

	link, err := os.Readlink(filepath.Join(dstRoot, "a", "link-to-f1"))
	require.NoError(t, err)
	assert.Equal(t, "f1.txt", link)

	snap := tc.Stats.Snapshot()
	assert.EqualValues(t, 2, snap.FilesCopied)
	assert.EqualValues(t, 2, snap.DirectoriesCreated)
	assert.EqualValues(t, 1, snap.SymlinksProcessed)
}

func TestProcessRootDeduplicatesHardlinks(t *testing.T) {
	srcRoot := t.TempDir()
	dstRoot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(srcRoot, "a"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(srcRoot, "a", "one"), []byte("same"), 0o644))
	require.NoError(t, os.Link(filepath.Join(srcRoot, "a", "one"), filepath.Join(srcRoot, "a", "two")))

	tc := newTestContext(Options{
		Meta: metaapply.Config{Archive: true},
		Copy: copier.Config{},
	})

	require.NoError(t, ProcessRoot(context.Background(), tc, srcRoot, "a", dstRoot, "a"))

	fi1, err := os.Stat(filepath.Join(dstRoot, "a", "one"))
	require.NoError(t, err)
	fi2, err := os.Stat(filepath.Join(dstRoot, "a", "two"))
	require.NoError(t, err)
	assert.True(t, os.SameFile(fi1, fi2))

	snap := tc.Stats.Snapshot()
	assert.EqualValues(t, 1, snap.HardlinkGroups)
	assert.EqualValues(t, 1, snap.HardlinkGroupMembers)
}

func TestDryRunMakesNoChanges(t *testing.T) {
	srcRoot := t.TempDir()
	dstRoot := t.TempDir()
	buildTree(t, srcRoot)

	tc := newTestContext(Options{
		Meta:   metaapply.Config{Archive: true},
		DryRun: true,
	})

	require.NoError(t, ProcessRoot(context.Background(), tc, srcRoot, "a", dstRoot, "a"))

	_, err := os.Stat(filepath.Join(dstRoot, "a"))
	assert.True(t, os.IsNotExist(err))

	snap := tc.Stats.Snapshot()
	assert.EqualValues(t, 2, snap.FilesCopied)
}

func TestFilterExcludesMatchingEntries(t *testing.T) {
	srcRoot := t.TempDir()
	dstRoot := t.TempDir()
	buildTree(t, srcRoot)

	tc := newTestContext(Options{
		Meta:             metaapply.Config{Archive: true},
		PreserveSymlinks: true,
		Filter:           &Filter{ExcludePatterns: []string{"*.txt"}},
	})

	require.NoError(t, ProcessRoot(context.Background(), tc, srcRoot, "a", dstRoot, "a"))

	_, err := os.Stat(filepath.Join(dstRoot, "a", "f1.txt"))
	assert.True(t, os.IsNotExist(err))
}
