package scan

import (
	"errors"
	"fmt"
)

// Sentinel causes wrapped by FatalError (spec §7 "Fatal (during scan)").
var (
	ErrInvalidName     = errors.New("name contains an embedded newline, a trailing carriage return, or is empty")
	ErrOversizeSymlink = errors.New("symlink target exceeds the maximum path length")
	ErrInodeConflict   = errors.New("inode seen twice in one scan without sufficient link count")
	ErrZeroSizeUnsafe  = errors.New("file shrank to zero size in place without force_zero")
	ErrAllFilesGone    = errors.New("disk reports every file removed and none equal or moved")
)

// FatalError is a scan-time failure that aborts the whole scan immediately
// (spec §7 item 3). Disk and Path identify where the failure was detected;
// Path may be empty when the failure is not specific to one entry.
type FatalError struct {
	Disk string
	Path string
	Err  error
}

func (e *FatalError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("fatal scan error on disk %s: %v", e.Disk, e.Err)
	}
	return fmt.Sprintf("fatal scan error on disk %s at %s: %v", e.Disk, e.Path, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

func newFatal(disk, path string, err error) *FatalError {
	return &FatalError{Disk: disk, Path: path, Err: err}
}
