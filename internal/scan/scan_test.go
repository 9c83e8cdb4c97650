package scan_test

import (
	"errors"
	"testing"

	"github.com/CrawX/snapraid/internal/array"
	"github.com/CrawX/snapraid/internal/platform/platformtest"
	"github.com/CrawX/snapraid/internal/scan"
)

func newTwoDiskState() (*array.State, *platformtest.FS) {
	s := array.NewState(4)
	s.AddDisk("d0", "d0")
	s.AddDisk("d1", "d1")
	return s, platformtest.NewFS()
}

func TestScanInsertTwoDisks(t *testing.T) {
	s, fs := newTwoDiskState()
	fs.AddFile("d0/a", 5, 1000, 1)

	results, err := scan.Scan(s, fs, nil, scan.Options{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if results[0].Insert != 1 {
		t.Fatalf("disk0 insert = %d, want 1", results[0].Insert)
	}
	if results[1].Insert != 0 {
		t.Fatalf("disk1 insert = %d, want 0", results[1].Insert)
	}

	d0 := s.Disks[0]
	if d0.AllocatedSize() != 2 {
		t.Fatalf("disk0 allocated size = %d, want 2", d0.AllocatedSize())
	}
	if len(s.Disks[1].BlockArr) != 0 {
		t.Fatalf("disk1 allocated size = %d, want 0", len(s.Disks[1].BlockArr))
	}
}

func TestScanTwoFilesOnSameDiskResolveDistinctOwners(t *testing.T) {
	s, fs := newTwoDiskState()
	fs.AddFile("d0/a", 4, 1000, 1)
	fs.AddFile("d0/b", 4, 1000, 2)

	results, err := scan.Scan(s, fs, nil, scan.Options{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if results[0].Insert != 2 {
		t.Fatalf("disk0 insert = %d, want 2", results[0].Insert)
	}

	d0 := s.Disks[0]
	if len(d0.Files) != 2 {
		t.Fatalf("len(d0.Files) = %d, want 2", len(d0.Files))
	}

	for _, f := range d0.Files {
		owner, idx, ok := d0.BlockOwner(f.Blocks[0].ParityPos)
		if !ok {
			t.Fatalf("BlockOwner(%d) not found for %q", f.Blocks[0].ParityPos, f.SubPath)
		}
		if owner != f {
			t.Fatalf("BlockOwner(%d) resolved to %q, want %q", f.Blocks[0].ParityPos, owner.SubPath, f.SubPath)
		}
		if idx != 0 {
			t.Fatalf("BlockOwner(%d) blockIdx = %d, want 0", f.Blocks[0].ParityPos, idx)
		}
	}
}

func TestScanIdempotent(t *testing.T) {
	s, fs := newTwoDiskState()
	fs.AddFile("d0/a", 5, 1000, 1)

	if _, err := scan.Scan(s, fs, nil, scan.Options{}); err != nil {
		t.Fatalf("first Scan() error = %v", err)
	}
	s.NeedWrite = false

	results, err := scan.Scan(s, fs, nil, scan.Options{})
	if err != nil {
		t.Fatalf("second Scan() error = %v", err)
	}

	r := results[0]
	if r.Equal != 1 || r.Moved != 0 || r.Change != 0 || r.Remove != 0 || r.Insert != 0 {
		t.Fatalf("second scan counts = %+v, want equal=1 and everything else 0", r)
	}
	if s.NeedWrite {
		t.Fatalf("idempotent scan should not mark state dirty")
	}
}

func TestScanMove(t *testing.T) {
	s, fs := newTwoDiskState()
	fs.AddFile("d0/a", 5, 1000, 1)
	if _, err := scan.Scan(s, fs, nil, scan.Options{}); err != nil {
		t.Fatalf("first Scan() error = %v", err)
	}
	before := append([]array.BlockRecord{}, s.Disks[0].Files[0].Blocks...)

	delete(fs.Entries, "d0/a")
	fs.AddFile("d0/b", 5, 1000, 1)

	results, err := scan.Scan(s, fs, nil, scan.Options{})
	if err != nil {
		t.Fatalf("second Scan() error = %v", err)
	}

	r := results[0]
	if r.Equal != 0 || r.Moved != 1 {
		t.Fatalf("counts = %+v, want moved=1", r)
	}

	f := s.Disks[0].Files[0]
	if f.SubPath != "b" {
		t.Fatalf("SubPath = %q, want %q", f.SubPath, "b")
	}
	for i, b := range f.Blocks {
		if b.ParityPos != before[i].ParityPos {
			t.Fatalf("block %d position changed on move: got %d, want %d", i, b.ParityPos, before[i].ParityPos)
		}
	}
}

func TestScanChangeSizeGrowsTable(t *testing.T) {
	s, fs := newTwoDiskState()
	fs.AddFile("d0/a", 5, 1000, 1)
	if _, err := scan.Scan(s, fs, nil, scan.Options{}); err != nil {
		t.Fatalf("first Scan() error = %v", err)
	}

	fs.Entries["d0/a"].Size = 9
	fs.Entries["d0/a"].Mtime = 2000

	results, err := scan.Scan(s, fs, nil, scan.Options{})
	if err != nil {
		t.Fatalf("second Scan() error = %v", err)
	}

	if results[0].Change != 1 {
		t.Fatalf("disk0 change = %d, want 1", results[0].Change)
	}

	f := s.Disks[0].Files[0]
	want := []array.ParityPos{0, 1, 2}
	for i, b := range f.Blocks {
		if b.ParityPos != want[i] {
			t.Fatalf("block %d position = %d, want %d", i, b.ParityPos, want[i])
		}
	}
}

func TestScanInodeReuse(t *testing.T) {
	s, fs := newTwoDiskState()
	fs.AddFile("d0/a", 5, 1000, 1)
	if _, err := scan.Scan(s, fs, nil, scan.Options{}); err != nil {
		t.Fatalf("first Scan() error = %v", err)
	}

	delete(fs.Entries, "d0/a")
	fs.AddFile("d0/c", 5, 2000, 1) // same inode, same size, new name and mtime

	results, err := scan.Scan(s, fs, nil, scan.Options{})
	if err != nil {
		t.Fatalf("second Scan() error = %v", err)
	}

	r := results[0]
	if r.Remove != 1 || r.Insert != 1 {
		t.Fatalf("counts = %+v, want remove=1 insert=1", r)
	}

	f := s.Disks[0].Files[0]
	if f.SubPath != "c" {
		t.Fatalf("SubPath = %q, want %q", f.SubPath, "c")
	}
	if f.Blocks[0].ParityPos != 0 || f.Blocks[1].ParityPos != 1 {
		t.Fatalf("positions = %v, %v; want 0, 1", f.Blocks[0].ParityPos, f.Blocks[1].ParityPos)
	}
}

func TestScanZeroSizeWithoutForceIsFatal(t *testing.T) {
	s, fs := newTwoDiskState()
	fs.AddFile("d0/a", 5, 1000, 1)
	if _, err := scan.Scan(s, fs, nil, scan.Options{}); err != nil {
		t.Fatalf("first Scan() error = %v", err)
	}

	fs.Entries["d0/a"].Size = 0
	fs.Entries["d0/a"].Mtime = 2000

	_, err := scan.Scan(s, fs, nil, scan.Options{})
	var fatal *scan.FatalError
	if err == nil {
		t.Fatalf("expected a fatal error without force_zero")
	}
	if !errors.As(err, &fatal) || !errors.Is(fatal.Err, scan.ErrZeroSizeUnsafe) {
		t.Fatalf("error = %v, want *scan.FatalError wrapping ErrZeroSizeUnsafe", err)
	}
}

func TestScanZeroSizeWithForceIsChange(t *testing.T) {
	s, fs := newTwoDiskState()
	fs.AddFile("d0/a", 5, 1000, 1)
	if _, err := scan.Scan(s, fs, nil, scan.Options{}); err != nil {
		t.Fatalf("first Scan() error = %v", err)
	}

	fs.Entries["d0/a"].Size = 0
	fs.Entries["d0/a"].Mtime = 2000

	results, err := scan.Scan(s, fs, nil, scan.Options{ForceZero: true})
	if err != nil {
		t.Fatalf("Scan() with force_zero error = %v", err)
	}
	if results[0].Change != 1 {
		t.Fatalf("disk0 change = %d, want 1", results[0].Change)
	}
}
