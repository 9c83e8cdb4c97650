package parity

import (
	"fmt"

	"github.com/CrawX/snapraid/internal/array"
	"github.com/CrawX/snapraid/internal/platform"
)

// slot is one data disk's open-file state: the file it currently refers to,
// the underlying handle (nil when closed), and the joined path the handle
// was opened with.
type slot struct {
	file   *array.File
	handle platform.Handle
	path   string
}

// HandleCache is the fixed-size, one-slot-per-data-disk cache of spec §4.4:
// it opens each file at most once per pass despite block-by-block iteration
// order, via a "close only if different" protocol.
type HandleCache struct {
	opener platform.Opener
	slots  []slot
}

// NewHandleCache returns a cache with one slot per data disk.
func NewHandleCache(opener platform.Opener, diskCount int) *HandleCache {
	return &HandleCache{opener: opener, slots: make([]slot, diskCount)}
}

// CloseIfDifferent is a no-op if slot i already refers to file; otherwise
// it closes whatever is open there.
func (c *HandleCache) CloseIfDifferent(i int, file *array.File) error {
	if c.slots[i].file == file {
		return nil
	}
	return c.closeSlot(i)
}

// closeSlot closes and clears slot i. The error message is built from the
// path captured before the slot is cleared — never by dereferencing the
// slot's file pointer afterward, which the source does and which this
// module deliberately does not replicate (spec §9 open question).
func (c *HandleCache) closeSlot(i int) error {
	s := &c.slots[i]
	if s.handle == nil {
		s.file = nil
		s.path = ""
		return nil
	}
	path := s.path
	err := s.handle.Close()
	s.handle = nil
	s.file = nil
	s.path = ""
	if err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// Open opens file into slot i for disk, unless it is already open there.
// ReadWriteCreate additionally resizes and requests sequential readahead,
// handled inside the Opener implementation.
func (c *HandleCache) Open(i int, disk *array.Disk, file *array.File, mode platform.OpenMode) error {
	s := &c.slots[i]
	if s.file == file && s.handle != nil {
		return nil
	}
	if err := c.closeSlot(i); err != nil {
		return err
	}
	path := platform.Join(disk.Root, file.SubPath)
	h, err := c.opener.Open(path, mode, file.Size)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	s.file = file
	s.handle = h
	s.path = path
	return nil
}

// ReadAt and WriteAt are positional I/O against slot i's currently open
// handle; short I/O is surfaced as whatever error the handle returns.
func (c *HandleCache) ReadAt(i int, buf []byte, offset int64) (int, error) {
	return c.slots[i].handle.ReadAt(buf, offset)
}

func (c *HandleCache) WriteAt(i int, buf []byte, offset int64) (int, error) {
	return c.slots[i].handle.WriteAt(buf, offset)
}

// CloseAll closes every open slot, idempotently, returning one error per
// slot that failed to close.
func (c *HandleCache) CloseAll() []error {
	var errs []error
	for i := range c.slots {
		if err := c.closeSlot(i); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
