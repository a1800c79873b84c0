package engine

import "path/filepath"

// Filter implements the exclude/include traversal filters from
// SPEC_FULL.md §13, grounded on the original walker's filter hook and
// on rclone's backend/local/parallel_stat.go taking a *filter.Filter
// parameter through doParallelStat. rclone's own glob engine
// (fs/filter/glob.go) is not present in this pack — only its test —
// so matching here is built on the standard library's
// path/filepath.Match, which already implements shell-style glob
// syntax; no ecosystem dependency in this pack provides path globbing.
type Filter struct {
	// IncludePatterns, if any match, force inclusion regardless of
	// ExcludePatterns (checked first, rsync-style first-match-wins).
	IncludePatterns []string
	// ExcludePatterns exclude a path not already force-included.
	ExcludePatterns []string
}

// Include reports whether path should be traversed/copied.
func (f *Filter) Include(path string) bool {
	if f == nil {
		return true
	}
	base := filepath.Base(path)
	for _, pat := range f.IncludePatterns {
		if globMatches(pat, path, base) {
			return true
		}
	}
	for _, pat := range f.ExcludePatterns {
		if globMatches(pat, path, base) {
			return false
		}
	}
	return true
}

func globMatches(pattern, fullPath, base string) bool {
	if ok, err := filepath.Match(pattern, base); err == nil && ok {
		return true
	}
	ok, err := filepath.Match(pattern, fullPath)
	return err == nil && ok
}
