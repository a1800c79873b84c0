package ringio

// POSIX st_mode type bits (S_IFMT and friends). These values are the same
// across Linux, the BSDs and Darwin; we hardcode them here rather than
// importing an OS-specific package so FileMetadata.Is* methods need no
// build tags.
const (
	modeTypeMask = 0o170000
	modeFifo     = 0o010000
	modeChar     = 0o020000
	modeDir      = 0o040000
	modeBlock    = 0o060000
	modeRegular  = 0o100000
	modeSymlink  = 0o120000
	modeSocket   = 0o140000
)
