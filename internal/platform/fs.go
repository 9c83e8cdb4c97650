package platform

import (
	"os"
	"path"
)

// OSFileSystem is the real, os-package-backed implementation of FS.
type OSFileSystem struct{}

// NewOSFileSystem returns the platform FS backed by the host operating
// system.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (OSFileSystem) Lstat(p string) (Info, error) {
	fi, err := os.Lstat(p)
	if err != nil {
		return Info{}, err
	}
	info := Info{
		Name:      fi.Name(),
		Size:      fi.Size(),
		Mode:      uint32(fi.Mode()),
		ModTime:   fi.ModTime(),
		IsDir:     fi.IsDir(),
		IsSymlink: fi.Mode()&os.ModeSymlink != 0,
		Readable:  true,
	}
	fillStatDetails(&info, fi, p)
	if _, err := os.Open(p); err != nil && os.IsPermission(err) {
		info.Readable = false
	}
	return info, nil
}

func (OSFileSystem) Readlink(p string) (string, error) {
	return os.Readlink(p)
}

func (OSFileSystem) ReadDir(p string) ([]string, error) {
	entries, err := os.ReadDir(p)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func (OSFileSystem) Excluded(p string) bool {
	return hasNosyncAttr(p)
}

// Join builds a sub-path the way the scan engine needs it: forward-slash
// separated, regardless of host OS path conventions.
func Join(dir, name string) string {
	if dir == "" {
		return name
	}
	return path.Join(dir, name)
}
