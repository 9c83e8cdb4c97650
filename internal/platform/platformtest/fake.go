// Package platformtest provides in-memory fakes for platform.FS and
// platform.Opener, adapted from the teacher's testhelper.FileImpl stubbing
// pattern (func-based Reader/Writer) so scan and parity tests can drive
// exact synthetic inode/mtime scenarios without touching a real filesystem.
package platformtest

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/CrawX/snapraid/internal/platform"
)

// Entry is one synthetic filesystem entry, addressed by full sub-path
// ("a/b.txt"), keyed the same way the scan engine keys disk.files.
type Entry struct {
	Size      int64
	Mtime     int64 // unix seconds, compared the same coarseness as st_mtime
	Inode     uint64
	Nlink     uint64
	IsDir     bool
	Symlink   string // non-empty marks this entry as a symlink to this target
	Excluded  bool
	Unreadable bool
	Content   []byte
}

// FS is an in-memory platform.FS.
type FS struct {
	Entries map[string]*Entry
}

func NewFS() *FS {
	return &FS{Entries: map[string]*Entry{}}
}

func (f *FS) AddFile(subpath string, size int64, mtime int64, inode uint64) {
	f.Entries[subpath] = &Entry{Size: size, Mtime: mtime, Inode: inode, Nlink: 1}
}

func (f *FS) AddSymlink(subpath, target string) {
	f.Entries[subpath] = &Entry{Symlink: target, Nlink: 1}
}

func (f *FS) Lstat(p string) (platform.Info, error) {
	p = strings.TrimPrefix(p, "./")
	e, ok := f.Entries[p]
	if !ok {
		return platform.Info{}, fmt.Errorf("platformtest: no such entry %q", p)
	}
	return platform.Info{
		Name:      path.Base(p),
		Size:      e.Size,
		IsDir:     e.IsDir,
		IsSymlink: e.Symlink != "",
		Inode:     e.Inode,
		Nlink:     e.Nlink,
		Readable:  !e.Unreadable,
		ModTime:   time.Unix(e.Mtime, 0).UTC(),
	}, nil
}

func (f *FS) Readlink(p string) (string, error) {
	e, ok := f.Entries[p]
	if !ok || e.Symlink == "" {
		return "", fmt.Errorf("platformtest: %q is not a symlink", p)
	}
	return e.Symlink, nil
}

func (f *FS) ReadDir(p string) ([]string, error) {
	seen := map[string]bool{}
	var names []string
	prefix := p
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	for sub := range f.Entries {
		if !strings.HasPrefix(sub, prefix) {
			continue
		}
		rest := strings.TrimPrefix(sub, prefix)
		name := strings.SplitN(rest, "/", 2)[0]
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (f *FS) Excluded(p string) bool {
	e, ok := f.Entries[p]
	return ok && e.Excluded
}
