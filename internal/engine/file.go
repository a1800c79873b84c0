package engine

import (
	"context"
	"os"

	"github.com/jmalicki/arsync-sub000/internal/copier"
	"github.com/jmalicki/arsync-sub000/internal/dirfd"
	"github.com/jmalicki/arsync-sub000/internal/hardlink"
	"github.com/jmalicki/arsync-sub000/internal/metaapply"
	"github.com/jmalicki/arsync-sub000/internal/ringio"
	"github.com/jmalicki/arsync-sub000/internal/xerr"
)

// processFile is spec.md §4.8's file branch: register with the
// hard-link coordinator (C4), then either run the per-file copier
// (Copier role) or wait and linkat against the Copier's destination
// (Linker role).
func processFile(ctx context.Context, tc *TraversalContext, src, dst FileLocation, meta ringio.FileMetadata) error {
	key := hardlink.InodeKey{Device: meta.Device, Inode: meta.Inode}
	ticket := tc.Hard.Register(key, src.Path(), dst.Dir.Path(), dst.Name, meta.Nlink)

	if ticket.Role == hardlink.Linker {
		return processLinker(tc, dst, ticket)
	}
	return processCopier(ctx, tc, src, dst, meta, ticket)
}

func processCopier(ctx context.Context, tc *TraversalContext, src, dst FileLocation, meta ringio.FileMetadata, ticket hardlink.Ticket) error {
	if meta.Nlink > 1 {
		tc.Stats.AddHardlinkGroup()
	}

	err := copyFileContent(ctx, tc, src, dst, meta)
	ticket.SignalCopyComplete(err != nil)
	if err != nil {
		tc.Stats.AddError()
		return err
	}
	tc.Stats.AddFileCopied()
	tc.Stats.AddBytesCopied(meta.Size)
	return nil
}

func processLinker(tc *TraversalContext, dst FileLocation, ticket hardlink.Ticket) error {
	ticket.Wait()
	copierDir, copierName, copyFailed := ticket.Destination()
	if copyFailed {
		tc.Stats.AddError()
		return xerr.New(xerr.IoError, "linkat", dst.Path(), nil)
	}

	copierHandle, err := dirfd.Open(copierDir)
	if err != nil {
		tc.Stats.AddError()
		return err
	}
	defer copierHandle.Close()

	if err := copierHandle.LinkAt(copierName, dst.Dir, dst.Name); err != nil {
		tc.Stats.AddError()
		return err
	}
	tc.Stats.AddHardlinkGroupMember()
	tc.Stats.AddFileCopied()
	return nil
}

func copyFileContent(ctx context.Context, tc *TraversalContext, src, dst FileLocation, meta ringio.FileMetadata) error {
	// Capture atime/mtime before reading, per spec.md §4.6, so the
	// read itself does not pollute the preserved atime.
	atime, mtime := meta.Atime, meta.Mtime

	srcFile, err := retryOnExhaustion(tc, func() (*os.File, error) {
		return src.Dir.OpenFileAt(src.Name, os.O_RDONLY, 0)
	})
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := retryOnExhaustion(tc, func() (*os.File, error) {
		return dst.Dir.OpenFileAt(dst.Name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, meta.Mode&0o7777)
	})
	if err != nil {
		return err
	}
	defer dstFile.Close()

	if err := copier.Copy(ctx, tc.Options.Copy, tc.Runtime, tc.Pools, int(srcFile.Fd()), int(dstFile.Fd()), meta.Size); err != nil {
		return err
	}

	meta.Atime, meta.Mtime = atime, mtime
	return metaapply.ApplyFile(tc.Options.Meta, int(dstFile.Fd()), src.Path(), dst.Path(), meta)
}
