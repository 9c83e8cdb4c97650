package array_test

import (
	"testing"
	"time"

	"github.com/CrawX/snapraid/internal/array"
)

func TestInsertFileAssignsCompactPositions(t *testing.T) {
	s := array.NewState(4)
	d := s.AddDisk("d0", "/d0")

	f := s.NewFile("a", 5, time.Now(), 1, 1)
	if got := f.BlockCount(); got != 2 {
		t.Fatalf("BlockCount() = %d, want 2", got)
	}

	d.InsertFile(s, f)

	if f.Blocks[0].ParityPos != 0 || f.Blocks[1].ParityPos != 1 {
		t.Fatalf("positions = %v, %v; want 0, 1", f.Blocks[0].ParityPos, f.Blocks[1].ParityPos)
	}
	if d.AllocatedSize() != 2 {
		t.Fatalf("AllocatedSize() = %d, want 2", d.AllocatedSize())
	}
	if d.FirstFreeBlock != 2 {
		t.Fatalf("FirstFreeBlock = %d, want 2", d.FirstFreeBlock)
	}
}

func TestRemoveThenInsertPreservesPositions(t *testing.T) {
	s := array.NewState(4)
	d := s.AddDisk("d0", "/d0")

	f := s.NewFile("a", 5, time.Now(), 1, 1)
	d.InsertFile(s, f)
	first, second := f.Blocks[0].ParityPos, f.Blocks[1].ParityPos

	d.RemoveFile(s, f)
	if d.FirstFreeBlock != 0 {
		t.Fatalf("FirstFreeBlock after remove = %d, want 0", d.FirstFreeBlock)
	}
	if _, _, ok := d.BlockOwner(first); ok {
		t.Fatalf("position %d still owned after remove", first)
	}

	g := s.NewFile("a", 5, time.Now(), 2, 1)
	d.InsertFile(s, g)

	if g.Blocks[0].ParityPos != first || g.Blocks[1].ParityPos != second {
		t.Fatalf("reinserted positions = %v, %v; want %v, %v",
			g.Blocks[0].ParityPos, g.Blocks[1].ParityPos, first, second)
	}
}

func TestRemoveInvalidatesHasParityAcrossDisks(t *testing.T) {
	s := array.NewState(4)
	d0 := s.AddDisk("d0", "/d0")
	d1 := s.AddDisk("d1", "/d1")

	f0 := s.NewFile("a", 4, time.Now(), 1, 1)
	d0.InsertFile(s, f0)

	f1 := s.NewFile("b", 4, time.Now(), 1, 1)
	d1.InsertFile(s, f1)
	f1.Blocks[0].HasParity = true

	d0.RemoveFile(s, f0)

	if f1.Blocks[0].HasParity {
		t.Fatalf("d1's block at the shared position should have had has-parity cleared")
	}
}

func TestSecondFileOnSameDiskResolvesToItself(t *testing.T) {
	s := array.NewState(4)
	d := s.AddDisk("d0", "/d0")

	first := s.NewFile("a", 4, time.Now(), 1, 1)
	d.InsertFile(s, first)

	second := s.NewFile("b", 4, time.Now(), 2, 1)
	d.InsertFile(s, second)

	owner, idx, ok := d.BlockOwner(second.Blocks[0].ParityPos)
	if !ok {
		t.Fatalf("BlockOwner(%d) not found", second.Blocks[0].ParityPos)
	}
	if owner != second {
		t.Fatalf("BlockOwner(%d) resolved to %q, want the second file %q", second.Blocks[0].ParityPos, owner.SubPath, second.SubPath)
	}
	if idx != 0 {
		t.Fatalf("BlockOwner(%d) blockIdx = %d, want 0", second.Blocks[0].ParityPos, idx)
	}

	firstOwner, _, ok := d.BlockOwner(first.Blocks[0].ParityPos)
	if !ok {
		t.Fatalf("BlockOwner(%d) not found", first.Blocks[0].ParityPos)
	}
	if firstOwner != first {
		t.Fatalf("BlockOwner(%d) resolved to %q, want the first file %q", first.Blocks[0].ParityPos, firstOwner.SubPath, first.SubPath)
	}
}

func TestBlockOwnerPastTableLengthIsEmpty(t *testing.T) {
	s := array.NewState(4)
	d := s.AddDisk("d0", "/d0")

	if _, _, ok := d.BlockOwner(100); ok {
		t.Fatalf("position past an empty table should report not-owned, not an error")
	}
}

func TestGrowthAfterSizeChange(t *testing.T) {
	s := array.NewState(4)
	d := s.AddDisk("d0", "/d0")

	f := s.NewFile("a", 5, time.Now(), 1, 1)
	d.InsertFile(s, f)
	d.RemoveFile(s, f)

	g := s.NewFile("a", 9, time.Now(), 1, 1)
	if g.BlockCount() != 3 {
		t.Fatalf("BlockCount() = %d, want 3", g.BlockCount())
	}
	d.InsertFile(s, g)

	want := []array.ParityPos{0, 1, 2}
	for i, b := range g.Blocks {
		if b.ParityPos != want[i] {
			t.Fatalf("Blocks[%d].ParityPos = %d, want %d", i, b.ParityPos, want[i])
		}
	}
}
