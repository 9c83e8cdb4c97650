// Package array holds the data model and allocator for the block-allocation
// and parity-coherence engine: disks, files, symlinks, block records, and
// the allocation table that ties a parity position to the block that owns
// it on a given disk.
package array

import (
	"time"

	"github.com/google/uuid"
)

// BlockRecord is the per-block metadata held inside a File's block vector:
// its assigned parity position, whether it has been hashed, whether the
// parity at that position is known consistent with its current content, and
// the content hash itself.
type BlockRecord struct {
	ParityPos ParityPos
	Hashed    bool
	HasParity bool
	ContentHash [16]byte
}

// File is one regular file tracked on a disk. SubPath is always relative to
// the disk's root, forward-slash separated, never trailing-slashed.
type File struct {
	fileID int64

	SubPath string
	Size    int64
	ModTime time.Time
	Inode   uint64
	Nlink   uint64

	BirthTime  time.Time
	ChangeTime time.Time

	Blocks []BlockRecord

	// present is reset to false at the start of each scan pass and set true
	// the moment the file is seen again; anything still false after the
	// walk is gone from the filesystem.
	present bool
}

// BlockCount returns the number of blocks f currently owns.
func (f *File) BlockCount() int { return len(f.Blocks) }

// Symlink is a tracked symbolic link. Identity is by SubPath, not inode:
// filesystems do not guarantee a stable inode for a symlink the way they do
// for a hardlinked regular file.
type Symlink struct {
	SubPath string
	Target  string

	present bool
}

// blockOwner is the allocation table's weak back-reference: a (fileID,
// blockIdx) pair resolved against the owning disk's file arena, never a raw
// pointer into File, so the table can never keep a removed file alive and
// never needs a cycle-aware collector to reclaim it (spec design note on
// back-references).
type blockOwner struct {
	fileID   int64
	blockIdx int
}

// Disk is one data disk: a root directory, its file and symlink lists and
// by-identity indexes, the allocation table, and the first-free-block hint.
type Disk struct {
	Name string
	Root string

	ArrayID uuid.UUID

	// Files is the file list in insertion order (disk.filelist).
	Files []*File
	// filesByInode is disk.fileset, keyed by inode for O(1) identity lookup.
	filesByInode map[uint64]*File
	arena        map[int64]*File
	nextFileID   int64

	// Links is the symlink list; linksByPath is disk.linkset.
	Links       []*Symlink
	linksByPath map[string]*Symlink

	// BlockArr is the dense allocation table, indexed by ParityPos.
	BlockArr []*blockOwner
	// FirstFreeBlock is the lower-bound allocation hint (invariant I3).
	FirstFreeBlock ParityPos

	// dirty tracks positions on this disk whose has-parity flag is known
	// false; DirtyPositions enumerates them. The parity loop clears bits as
	// it syncs or repairs a position but does not consult the set to choose
	// positions: Run and Fix visit every position in their range.
	dirty *bitset
}

// NewDisk creates an empty disk rooted at root.
func NewDisk(name, root string, arrayID uuid.UUID) *Disk {
	return &Disk{
		Name:         name,
		Root:         root,
		ArrayID:      arrayID,
		filesByInode: make(map[uint64]*File),
		arena:        make(map[int64]*File),
		linksByPath:  make(map[string]*Symlink),
		dirty:        newBitset(),
	}
}

// MarkDirty records that the parity at pos is no longer known consistent
// with this disk's current content.
func (d *Disk) MarkDirty(pos ParityPos) { d.dirty.setDirty(int(pos)) }

// ClearDirty records that the parity at pos has been brought back in sync.
func (d *Disk) ClearDirty(pos ParityPos) { d.dirty.clearDirty(int(pos)) }

// DirtyPositions returns every position on this disk whose has-parity flag
// is known false, ascending.
func (d *Disk) DirtyPositions() []ParityPos {
	raw := d.dirty.dirtyPositions()
	out := make([]ParityPos, len(raw))
	for i, p := range raw {
		out[i] = ParityPos(p)
	}
	return out
}

// FileByInode looks up a tracked file by inode (disk.fileset lookup).
func (d *Disk) FileByInode(inode uint64) (*File, bool) {
	f, ok := d.filesByInode[inode]
	return f, ok
}

// LinkByPath looks up a tracked symlink by sub-path.
func (d *Disk) LinkByPath(subPath string) (*Symlink, bool) {
	l, ok := d.linksByPath[subPath]
	return l, ok
}

// ResetPresence clears the present flag on every file and link, as the scan
// engine does at the start of a pass before walking the directory tree.
func (d *Disk) ResetPresence() {
	for _, f := range d.Files {
		f.present = false
	}
	for _, l := range d.Links {
		l.present = false
	}
}

// MarkFilePresent records that f was seen again during the current scan.
func (d *Disk) MarkFilePresent(f *File) { f.present = true }

// MarkLinkPresent records that l was seen again during the current scan.
func (d *Disk) MarkLinkPresent(l *Symlink) { l.present = true }

// FilePresent reports f's present flag.
func FilePresent(f *File) bool { return f.present }

// LinkPresent reports l's present flag.
func LinkPresent(l *Symlink) bool { return l.present }

// BlockOwner resolves the allocation table cell at pos to the file and
// block index that owns it, or reports the cell empty. Invariant I5: a
// position past this disk's table length is always reported empty, never an
// error.
func (d *Disk) BlockOwner(pos ParityPos) (file *File, blockIdx int, ok bool) {
	if int(pos) >= len(d.BlockArr) {
		return nil, 0, false
	}
	owner := d.BlockArr[pos]
	if owner == nil {
		return nil, 0, false
	}
	f, ok := d.arena[owner.fileID]
	if !ok {
		return nil, 0, false
	}
	return f, owner.blockIdx, true
}

// AllocatedSize is the length of this disk's allocation table.
func (d *Disk) AllocatedSize() int { return len(d.BlockArr) }
