// Package platform isolates the filesystem and positional-I/O primitives the
// scan engine and parity loop need (spec.md §6 "Platform I/O"), so the core
// algorithm packages never call os.* or golang.org/x/sys/unix directly.
package platform

import "time"

// Info is the lstat-equivalent metadata the scan engine needs to diff a
// directory entry against the stored snapshot.
type Info struct {
	Name       string
	Size       int64
	Mode       uint32
	ModTime    time.Time
	IsDir      bool
	IsSymlink  bool
	Inode      uint64
	Nlink      uint64
	Readable   bool
	BirthTime  time.Time
	ChangeTime time.Time
}

// FS is the directory-walk collaborator: lstat/readlink/opendir/readdir,
// reduced to the three calls the scan engine actually issues.
type FS interface {
	// Lstat returns metadata for path without following a trailing symlink.
	Lstat(path string) (Info, error)
	// Readlink resolves the target of a symbolic link in a single call.
	Readlink(path string) (string, error)
	// ReadDir lists the immediate children of a directory, in arbitrary
	// order; the scan engine does not depend on any particular ordering.
	ReadDir(path string) ([]string, error)
	// Excluded reports whether path carries an out-of-band exclusion marker
	// (the nosync extended attribute) layered on top of the filter predicate.
	Excluded(path string) bool
}

// OpenMode selects how Open should prepare the underlying file.
type OpenMode int

const (
	// ReadOnly opens an existing file for reading only.
	ReadOnly OpenMode = iota
	// ReadWriteCreate opens (creating if needed) a file for read-write,
	// resizing it to the requested size and requesting sequential readahead.
	ReadWriteCreate
)

// Handle is the positional-I/O surface the handle cache drives: exactly the
// primitives handle.c wraps around a single file descriptor.
type Handle interface {
	ReadAt(buf []byte, offset int64) (int, error)
	WriteAt(buf []byte, offset int64) (int, error)
	Close() error
}

// Opener opens a path on disk for the parity loop's handle cache.
type Opener interface {
	// Open opens path in the given mode. For ReadWriteCreate, size is the
	// file's recorded size: the file is grown (preallocated where possible)
	// or truncated to match, and sequential-access readahead is requested.
	Open(path string, mode OpenMode, size int64) (Handle, error)
}
