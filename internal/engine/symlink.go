package engine

import (
	"context"
	"path/filepath"

	"github.com/jmalicki/arsync-sub000/internal/metaapply"
	"github.com/jmalicki/arsync-sub000/internal/ringio"
	"github.com/jmalicki/arsync-sub000/internal/xerr"
)

// processSymlink is spec.md §4.8's symlink branch: when configured to
// preserve symlinks, recreate the literal link target at the
// destination; otherwise dereference and recurse on the resolved
// target (handling chains, including relative targets resolved
// against the source's parent).
func processSymlink(ctx context.Context, tc *TraversalContext, src, dst FileLocation, meta ringio.FileMetadata) error {
	if tc.Options.PreserveSymlinks {
		return recreateSymlink(tc, src, dst, meta)
	}
	return dereferenceSymlink(ctx, tc, src, dst)
}

func recreateSymlink(tc *TraversalContext, src, dst FileLocation, meta ringio.FileMetadata) error {
	target, err := src.Dir.ReadlinkAt(src.Name)
	if err != nil {
		tc.Stats.AddError()
		return err
	}

	// Symlink creation is not idempotent under an existing name
	// (spec.md §4.8); remove any pre-existing destination entry first.
	if err := dst.Dir.UnlinkAt(dst.Name); err != nil && !xerr.Is(err, xerr.NotFound) {
		tc.Stats.AddError()
		return err
	}

	if err := dst.Dir.SymlinkAt(target, dst.Name); err != nil {
		tc.Stats.AddError()
		return err
	}

	if err := metaapply.ApplySymlink(tc.Options.Meta, dst.Dir, dst.Name, src.Path(), dst.Path(), meta); err != nil {
		tc.Stats.AddError()
		return err
	}
	tc.Stats.AddSymlinkProcessed()
	return nil
}

// dereferenceSymlink resolves the source's link target — relative to
// the source's parent when the target itself is relative — and
// recursively invokes ProcessRoot on the resolved (parent, name) pair
// with the same destination, per spec.md §4.8's chain-following rule.
func dereferenceSymlink(ctx context.Context, tc *TraversalContext, src, dst FileLocation) error {
	target, err := src.Dir.ReadlinkAt(src.Name)
	if err != nil {
		tc.Stats.AddError()
		return err
	}

	resolved := target
	if !filepath.IsAbs(target) {
		resolved = filepath.Join(src.Dir.Path(), target)
	}
	resolvedParent, resolvedBase := filepath.Split(resolved)
	if resolvedParent == "" {
		resolvedParent = "."
	}

	return ProcessRoot(ctx, tc, filepath.Clean(resolvedParent), resolvedBase, dst.Dir.Path(), dst.Name)
}
