// Package engine implements the traversal dispatcher from spec.md
// §4.8: the recursive entry processor that classifies each source
// entry via dirfd-relative statx and routes it to directory, file,
// symlink, or special-file handling, dispatching children onto the
// runtime's worker pool and joining with fail-fast semantics.
package engine

import (
	"context"
	"path/filepath"

	"github.com/jmalicki/arsync-sub000/internal/bufpool"
	"github.com/jmalicki/arsync-sub000/internal/copier"
	"github.com/jmalicki/arsync-sub000/internal/dirfd"
	"github.com/jmalicki/arsync-sub000/internal/hardlink"
	"github.com/jmalicki/arsync-sub000/internal/limiter"
	"github.com/jmalicki/arsync-sub000/internal/metaapply"
	"github.com/jmalicki/arsync-sub000/internal/ringio"
	"github.com/jmalicki/arsync-sub000/internal/runtime"
	"github.com/jmalicki/arsync-sub000/internal/stats"
	"github.com/jmalicki/arsync-sub000/internal/xerr"
)

// Options configures one run, combining spec.md §4.7's metadata
// config with the SPEC_FULL.md §13 supplemented features: one-file-
// system device guard, dry-run, and exclude/include filters.
type Options struct {
	Meta             metaapply.Config
	Copy             copier.Config
	PreserveSymlinks bool
	PreserveDevices  bool
	OneFileSystem    bool
	DryRun           bool
	Filter           *Filter
}

// TraversalContext bundles the per-run singletons every recursive
// call needs: the concurrency limiter (C5), buffer pools (C3), the
// hard-link coordinator (C4), the statistics accumulator (C9), the
// runtime dispatcher (C10), and the options above. One TraversalContext
// is shared across an entire run.
type TraversalContext struct {
	Options  Options
	Limiter  *limiter.Limiter
	Pools    *bufpool.Pools
	Hard     *hardlink.Coordinator
	Stats    *stats.Counters
	Runtime  *runtime.Runtime
	Blocking *runtime.BlockingPool

	rootDevice uint64
	haveRoot   bool
}

// FileLocation is a (parent directory handle, basename) pair — the
// shape every operation in C1/C2 takes instead of a bare path, per
// spec.md §4.2.
type FileLocation struct {
	Dir  *dirfd.Handle
	Name string
}

// Path reconstructs a diagnostic path for logging; it is never used to
// re-resolve the entry.
func (l FileLocation) Path() string {
	return filepath.Join(l.Dir.Path(), l.Name)
}

// Close releases this location's directory handle reference.
func (l FileLocation) Close() error { return l.Dir.Close() }

// ProcessRoot is spec.md §4.8's entry point: opens both parent
// directories, packages them into FileLocations, and invokes the
// recursive entry processor on the root. In dry-run mode it delegates
// to DryRunProcessRoot instead, so the destination parent need not
// exist yet.
func ProcessRoot(ctx context.Context, tc *TraversalContext, srcParentDir, srcName, dstParentDir, dstName string) error {
	if tc.Options.DryRun {
		return DryRunProcessRoot(ctx, tc, srcParentDir, srcName, filepath.Join(dstParentDir, dstName))
	}

	srcParent, err := dirfd.Open(srcParentDir)
	if err != nil {
		return err
	}
	defer srcParent.Close()

	dstParent, err := dirfd.Open(dstParentDir)
	if err != nil {
		return err
	}
	defer dstParent.Close()

	return ProcessEntry(ctx, tc, FileLocation{Dir: srcParent, Name: srcName}, FileLocation{Dir: dstParent, Name: dstName})
}

// ProcessEntry is the recursive entry processor of spec.md §4.8's
// state machine: acquire permit, statx, branch.
func ProcessEntry(ctx context.Context, tc *TraversalContext, src, dst FileLocation) error {
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
		return processDirectory(ctx, tc, src, dst, meta)
	case meta.IsSymlink():
		return processSymlink(ctx, tc, src, dst, meta)
	case meta.IsRegular():
		return processFile(ctx, tc, src, dst, meta)
	default:
		return processSpecial(tc, src, dst, meta)
	}
}

func processDirectory(ctx context.Context, tc *TraversalContext, src, dst FileLocation, meta ringio.FileMetadata) error {
	if crossesBoundary(tc, meta) {
		return nil
	}

	mkdirErr := retryOnExhaustionErr(tc, func() error {
		return dst.Dir.CreateDirAt(dst.Name, meta.Mode&0o7777)
	})
	if mkdirErr != nil {
		if !xerr.Is(mkdirErr, xerr.AlreadyExists) {
			tc.Stats.AddError()
			return mkdirErr
		}
		existing, statErr := dst.Dir.StatAt(dst.Name, true)
		if statErr != nil {
			tc.Stats.AddError()
			return statErr
		}
		if !existing.IsDir() {
			tc.Stats.AddError()
			return xerr.New(xerr.TypeConflict, "mkdir", dst.Path(), nil)
		}
	}

	dstHandle, err := retryOnExhaustion(tc, func() (*dirfd.Handle, error) {
		return dst.Dir.OpenDirAt(dst.Name)
	})
	if err != nil {
		tc.Stats.AddError()
		return err
	}
	defer dstHandle.Close()

	if err := metaapply.ApplyDirectory(tc.Options.Meta, dstHandle, src.Path(), dst.Path(), meta); err != nil {
		tc.Stats.AddError()
		return err
	}
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
		childDst := FileLocation{Dir: dstHandle.Clone(), Name: name}
		batch.Dispatch(func(ctx context.Context) error {
			defer childSrc.Close()
			defer childDst.Close()
			return ProcessEntry(ctx, tc, childSrc, childDst)
		})
	}
	return batch.Join()
}

// crossesBoundary implements the --one-file-system guard (SPEC_FULL.md
// §13): the first directory seen fixes the root device; any later
// directory on a different device is skipped rather than recursed into.
func crossesBoundary(tc *TraversalContext, meta ringio.FileMetadata) bool {
	if !tc.Options.OneFileSystem {
		return false
	}
	if !tc.haveRoot {
		tc.rootDevice = meta.Device
		tc.haveRoot = true
		return false
	}
	return meta.Device != tc.rootDevice
}

func processSpecial(tc *TraversalContext, src, dst FileLocation, meta ringio.FileMetadata) error {
	if !tc.Options.PreserveDevices {
		tc.Stats.AddError()
		return nil
	}
	if err := dst.Dir.MknodAt(dst.Name, meta.Mode, meta.Rdev); err != nil {
		tc.Stats.AddError()
		return err
	}
	return nil
}
