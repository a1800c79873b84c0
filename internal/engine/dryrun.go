package engine

import (
	"context"
	"path/filepath"

	"github.com/jmalicki/arsync-sub000/internal/dirfd"
	"github.com/jmalicki/arsync-sub000/internal/ringio"
	"github.com/jmalicki/arsync-sub000/internal/rlog"
	"github.com/jmalicki/arsync-sub000/internal/runtime"
)

// DryRunProcessRoot walks the source tree and reports what would be
// copied without performing any write syscalls (SPEC_FULL.md §13's
// dry-run mode). It takes a plain destination path string rather than
// an opened destination parent, since dry-run must work even when the
// destination tree does not exist yet.
func DryRunProcessRoot(ctx context.Context, tc *TraversalContext, srcParentDir, srcName, dstPath string) error {
	srcParent, err := dirfd.Open(srcParentDir)
	if err != nil {
		return err
	}
	defer srcParent.Close()

	return dryRunEntry(ctx, tc, FileLocation{Dir: srcParent, Name: srcName}, dstPath)
}

func dryRunEntry(ctx context.Context, tc *TraversalContext, src FileLocation, dstPath string) error {
	permit, err := tc.Limiter.Acquire(ctx)
	if err != nil {
		return err
	}
	defer permit.Release()

	meta, err := retryOnExhaustion(tc, func() (ringio.FileMetadata, error) {
		return src.Dir.StatAt(src.Name, true)
	})
	if err != nil {
		tc.Stats.AddError()
		return err
	}

	if tc.Options.Filter != nil && !tc.Options.Filter.Include(src.Path()) {
		return nil
	}

	switch {
	case meta.IsDir():
		return dryRunDirectory(ctx, tc, src, dstPath, meta)
	case meta.IsSymlink():
		rlog.Infof(src.Path(), "would recreate symlink at %s", dstPath)
		tc.Stats.AddSymlinkProcessed()
		return nil
	case meta.IsRegular():
		rlog.Infof(src.Path(), "would copy %d bytes to %s", meta.Size, dstPath)
		tc.Stats.AddFileCopied()
		tc.Stats.AddBytesCopied(meta.Size)
		return nil
	default:
		if tc.Options.PreserveDevices {
			rlog.Infof(src.Path(), "would create special file at %s", dstPath)
		}
		return nil
	}
}

func dryRunDirectory(ctx context.Context, tc *TraversalContext, src FileLocation, dstPath string, meta ringio.FileMetadata) error {
	if crossesBoundary(tc, meta) {
		return nil
	}

	rlog.Infof(src.Path(), "would create directory %s", dstPath)
	tc.Stats.AddDirectoryCreated()

	srcHandle, err := retryOnExhaustion(tc, func() (*dirfd.Handle, error) {
		return src.Dir.OpenDirAt(src.Name)
	})
	if err != nil {
		tc.Stats.AddError()
		return err
	}
	defer srcHandle.Close()

	names, err := runtime.Offload(ctx, tc.Blocking, srcHandle.ReadDirNames)
	if err != nil {
		tc.Stats.AddError()
		return err
	}

	batch := tc.Runtime.NewBatch(ctx)
	for _, name := range names {
		name := name
		childSrc := FileLocation{Dir: srcHandle.Clone(), Name: name}
		childDstPath := filepath.Join(dstPath, name)
		batch.Dispatch(func(ctx context.Context) error {
			defer childSrc.Close()
			return dryRunEntry(ctx, tc, childSrc, childDstPath)
		})
	}
	return batch.Join()
}
