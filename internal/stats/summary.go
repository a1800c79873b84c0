package stats

import "fmt"

// String renders a per-run summary line in the spirit of rclone's
// accounting.Stats.String() and rsync -a --stats, per SPEC_FULL.md's
// supplemented per-run summary feature.
func (s Snapshot) String() string {
	return fmt.Sprintf(
		"Files copied: %d, Directories created: %d, Symlinks: %d, "+
			"Bytes copied: %d, Hard-link groups: %d (members: %d), Errors: %d",
		s.FilesCopied, s.DirectoriesCreated, s.SymlinksProcessed,
		s.BytesCopied, s.HardlinkGroups, s.HardlinkGroupMembers, s.Errors,
	)
}
