package copier

import (
	"bytes"
	"context"
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmalicki/arsync-sub000/internal/bufpool"
	"github.com/jmalicki/arsync-sub000/internal/runtime"
)

func copyViaFiles(t *testing.T, cfg Config, data []byte) []byte {
	t.Helper()
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "src")
	dstPath := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(srcPath, data, 0o644))

	src, err := os.Open(srcPath)
	require.NoError(t, err)
	defer src.Close()
	dst, err := os.OpenFile(dstPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	require.NoError(t, err)
	defer dst.Close()

	pools := bufpool.NewPools(4096)
	rt := runtime.New(4)

	err = Copy(context.Background(), cfg, rt, pools, int(src.Fd()), int(dst.Fd()), int64(len(data)))
	require.NoError(t, err)

	got, err := os.ReadFile(dstPath)
	require.NoError(t, err)
	return got
}

func TestCopySequentialExactContent(t *testing.T) {
	data := bytes.Repeat([]byte("abcd"), 5000) // 20000 bytes, small
	cfg := Config{ParallelThreshold: 1 << 30, ParallelDepth: 4}
	got := copyViaFiles(t, cfg, data)
	assert.Equal(t, data, got)
}

func TestCopyZeroLength(t *testing.T) {
	got := copyViaFiles(t, Config{}, nil)
	assert.Empty(t, got)
}

func TestCopyRegionParallelExactContent(t *testing.T) {
	data := make([]byte, 5*1024*1024)
	_, err := rand.Read(data)
	require.NoError(t, err)

	cfg := Config{ParallelThreshold: 1024, ParallelDepth: 3, ChunkSize: 256 * 1024}
	got := copyViaFiles(t, cfg, data)
	assert.Equal(t, data, got)
}

func TestPartitionProducesContiguousNonOverlappingRegions(t *testing.T) {
	regions := partition(10*1024*1024, 3)
	require.Len(t, regions, 8)
	assert.EqualValues(t, 0, regions[0].start)
	assert.EqualValues(t, 10*1024*1024, regions[len(regions)-1].end)
	for i := 1; i < len(regions); i++ {
		assert.Equal(t, regions[i-1].end, regions[i].start)
		assert.Greater(t, regions[i].end, regions[i].start)
	}
}

func TestPartitionRegionsAlignedToHugePageExceptFirst(t *testing.T) {
	regions := partition(64*1024*1024, 4)
	for i, r := range regions {
		if i == 0 {
			continue
		}
		assert.Zero(t, r.start%hugePageAlign, "region %d start %d not huge-page aligned", i, r.start)
	}
}
