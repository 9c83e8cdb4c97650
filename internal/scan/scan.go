// Package scan implements the directory-walk diff engine: it reconciles a
// disk's persisted file/link lists against the live filesystem and applies
// the resulting insert/remove/update/move operations through the allocator
// in internal/array.
package scan

import (
	"strings"

	"github.com/CrawX/snapraid/internal/array"
	"github.com/CrawX/snapraid/internal/filter"
	"github.com/CrawX/snapraid/internal/platform"
	"github.com/CrawX/snapraid/internal/telemetry"
)

// maxSymlinkTarget mirrors a conventional PATH_MAX; a resolved link target
// longer than this fails the whole scan (spec §4.1 "link targets longer
// than the system path maximum fail the whole scan").
const maxSymlinkTarget = 4096

// Options carries the scan engine's behavioural flags (spec §4.1 "Inputs").
type Options struct {
	// ForceZero allows a file that shrank to zero bytes in place to be
	// treated as an ordinary change instead of a fatal safety trip.
	ForceZero bool
	// ForceEmpty allows a disk with no equal/moved files and at least one
	// removal to pass without a fatal "did you forget to mount this disk"
	// guard.
	ForceEmpty bool
	Verbose    bool

	Log telemetry.Log
}

// pending collects file and link allocations deferred until after the
// removal sweep, so positions freed by removals on this disk are available
// to the allocator when they drain (spec §4.1 "Insertions are deliberately
// deferred").
type pending struct {
	files []*array.File
	links []*array.Symlink
}

// Scan walks every disk in s, diffs it against the persisted snapshot, and
// applies the resulting edit script via the allocator. It returns one
// Result per disk, in the same order as s.Disks.
func Scan(s *array.State, fs platform.FS, filt filter.Filter, opts Options) ([]Result, error) {
	if filt == nil {
		filt = filter.Everything{}
	}

	results := make([]Result, len(s.Disks))
	for i, d := range s.Disks {
		results[i] = Result{Disk: d.Name}
		if err := scanDisk(s, d, fs, filt, opts, &results[i]); err != nil {
			return nil, err
		}
	}

	if !opts.ForceEmpty {
		for i, r := range results {
			if r.Equal == 0 && r.Moved == 0 && r.Remove > 0 {
				return nil, newFatal(s.Disks[i].Name, "", ErrAllFilesGone)
			}
		}
	}

	return results, nil
}

func scanDisk(s *array.State, d *array.Disk, fs platform.FS, filt filter.Filter, opts Options, r *Result) error {
	d.ResetPresence()
	p := &pending{}

	if err := scanDir(s, d, fs, filt, opts, p, r, ""); err != nil {
		return err
	}

	// Post-traversal sweep: anything not seen again is gone.
	var goneFiles []*array.File
	for _, f := range d.Files {
		if !array.FilePresent(f) {
			goneFiles = append(goneFiles, f)
		}
	}
	for _, f := range goneFiles {
		r.Remove++
		d.RemoveFile(s, f)
	}

	var goneLinks []*array.Symlink
	for _, l := range d.Links {
		if !array.LinkPresent(l) {
			goneLinks = append(goneLinks, l)
		}
	}
	for _, l := range goneLinks {
		r.Remove++
		d.RemoveLink(s, l)
	}

	// File inserts were counted when each file was classified in scanFile.
	for _, f := range p.files {
		d.InsertFile(s, f)
	}
	for _, l := range p.links {
		d.InsertLink(s, l)
		r.Insert++
	}

	return nil
}

func scanDir(s *array.State, d *array.Disk, fs platform.FS, filt filter.Filter, opts Options, p *pending, r *Result, relDir string) error {
	absDir := platform.Join(d.Root, relDir)
	names, err := fs.ReadDir(absDir)
	if err != nil {
		return newFatal(d.Name, absDir, err)
	}

	for _, name := range names {
		if name == "." || name == ".." {
			continue
		}
		if err := validateName(name); err != nil {
			return newFatal(d.Name, platform.Join(relDir, name), err)
		}

		relPath := platform.Join(relDir, name)
		absPath := platform.Join(d.Root, relPath)

		info, err := fs.Lstat(absPath)
		if err != nil {
			if opts.Log != nil {
				opts.Log.Warn("cannot stat %s: %v", relPath, err)
			}
			continue
		}

		if !filt.Matches(relPath, info.IsDir) || fs.Excluded(absPath) {
			if opts.Verbose && opts.Log != nil {
				opts.Log.Info("Excluding %s", relPath)
			}
			continue
		}

		switch {
		case info.IsSymlink:
			target, err := fs.Readlink(absPath)
			if err != nil {
				return newFatal(d.Name, relPath, err)
			}
			if len(target) > maxSymlinkTarget {
				return newFatal(d.Name, relPath, ErrOversizeSymlink)
			}
			if err := scanLink(s, d, p, r, relPath, target); err != nil {
				return err
			}
		case info.IsDir:
			if err := scanDir(s, d, fs, filt, opts, p, r, relPath); err != nil {
				return err
			}
		case !info.Readable:
			if opts.Log != nil {
				opts.Log.Warn("unreadable file %s, skipping", relPath)
			}
		default:
			if err := scanFile(s, d, opts, p, r, relPath, info); err != nil {
				return err
			}
		}
	}

	return nil
}

func validateName(name string) error {
	if name == "" || strings.Contains(name, "\n") || strings.HasSuffix(name, "\r") {
		return ErrInvalidName
	}
	return nil
}

func scanFile(s *array.State, d *array.Disk, opts Options, p *pending, r *Result, relPath string, info platform.Info) error {
	existing, hit := d.FileByInode(info.Inode)

	if hit && array.FilePresent(existing) {
		if info.Nlink > 1 {
			if opts.Log != nil {
				opts.Log.Warn("ignoring additional hardlink %s for inode %d", relPath, info.Inode)
			}
			return nil
		}
		return newFatal(d.Name, relPath, ErrInodeConflict)
	}

	if !hit {
		f := s.NewFile(relPath, info.Size, info.ModTime, info.Inode, info.Nlink)
		f.BirthTime = info.BirthTime
		f.ChangeTime = info.ChangeTime
		d.MarkFilePresent(f)
		p.files = append(p.files, f)
		r.Insert++
		return nil
	}

	d.MarkFilePresent(existing)

	sameIdentity := existing.Size == info.Size && existing.ModTime.Equal(info.ModTime)
	if sameIdentity {
		if existing.SubPath != relPath {
			r.Moved++
			existing.SubPath = relPath
			s.NeedWrite = true
		} else {
			r.Equal++
		}
		return nil
	}

	if existing.Size > 0 && info.Size == 0 && existing.SubPath == relPath && !opts.ForceZero {
		return newFatal(d.Name, relPath, ErrZeroSizeUnsafe)
	}

	samePath := existing.SubPath == relPath
	if samePath {
		r.Change++
	} else {
		r.Remove++
		r.Insert++
	}

	d.RemoveFile(s, existing)

	f := s.NewFile(relPath, info.Size, info.ModTime, info.Inode, info.Nlink)
	f.BirthTime = info.BirthTime
	f.ChangeTime = info.ChangeTime
	d.MarkFilePresent(f)
	p.files = append(p.files, f)

	return nil
}

func scanLink(s *array.State, d *array.Disk, p *pending, r *Result, relPath, target string) error {
	existing, hit := d.LinkByPath(relPath)

	if hit && array.LinkPresent(existing) {
		return newFatal(d.Name, relPath, ErrInodeConflict)
	}

	if !hit {
		l := &array.Symlink{SubPath: relPath, Target: target}
		d.MarkLinkPresent(l)
		p.links = append(p.links, l)
		return nil
	}

	d.MarkLinkPresent(existing)

	if existing.Target == target {
		r.Equal++
		return nil
	}

	r.Change++
	existing.Target = target
	s.NeedWrite = true
	return nil
}
