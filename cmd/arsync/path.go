package main

import "path/filepath"

// splitRoot splits a user-supplied path argument into the
// (parent directory, basename) pair engine.ProcessRoot takes, resolving
// it to an absolute path first so a relative SOURCE/DEST on the command
// line behaves the same regardless of the traversal's working directory.
func splitRoot(path string) (parent, name string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	return filepath.Split(abs)
}
