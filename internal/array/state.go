package array

import (
	"time"

	"github.com/google/uuid"

	"github.com/CrawX/snapraid/internal/blockid"
)

// State is the process-wide context threaded through scan and the parity
// loop: every disk in the array plus the block size shared by all of them,
// and a dirty flag recording whether anything has changed since the last
// save (spec design note: "pass a context value by reference; no
// module-level mutable state is required").
type State struct {
	BlockSize int64
	ArrayID   uuid.UUID
	Disks     []*Disk

	// NeedWrite is set by any mutation that changes persisted state: a
	// rename, a block allocation, a target rewrite. The content store uses
	// it to decide whether a save is owed.
	NeedWrite bool
}

// NewState creates an array-wide state with a fresh array identity.
func NewState(blockSize int64) *State {
	return &State{
		BlockSize: blockSize,
		ArrayID:   uuid.New(),
	}
}

// AddDisk appends a new, empty disk to the array.
func (s *State) AddDisk(name, root string) *Disk {
	d := NewDisk(name, root, s.ArrayID)
	s.Disks = append(s.Disks, d)
	return d
}

// NewFile builds a file record sized from size, with blockCount block
// records derived from the array's block size (spec §4.1 "Miss": "allocate
// a file record with ceil(size / block_size) block records").
func (s *State) NewFile(subPath string, size int64, modTime time.Time, inode, nlink uint64) *File {
	count := blockid.Count(size, s.BlockSize)
	return &File{
		SubPath: subPath,
		Size:    size,
		ModTime: modTime,
		Inode:   inode,
		Nlink:   nlink,
		Blocks:  make([]BlockRecord, count),
	}
}
