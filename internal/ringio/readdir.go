//go:build !windows

package ringio

import "os"

// ReadDirNames lists the entries of the directory behind dirFile. Linux's
// io_uring has no getdents opcode on the kernels this project targets
// (spec.md §4.8 calls this out explicitly as a kernel-side gap, not a
// design choice), so this wraps the ordinary blocking getdents64(2) Go's
// os.File.Readdirnames already issues; callers run it through the
// blocking-offload path in internal/runtime rather than a worker's
// submission ring.
func ReadDirNames(dirFile *os.File) ([]string, error) {
	names, err := dirFile.Readdirnames(-1)
	if err != nil {
		return nil, classify("getdents", dirFile.Name(), err)
	}
	return names, nil
}
