package array

import (
	"testing"
	"time"
)

func TestBitsetSetClear(t *testing.T) {
	b := newBitset()

	b.setDirty(3)
	b.setDirty(9)
	if !b.isDirty(3) || !b.isDirty(9) {
		t.Fatalf("expected 3 and 9 dirty")
	}
	if b.isDirty(4) {
		t.Fatalf("4 should not be dirty")
	}

	got := b.dirtyPositions()
	want := []int{3, 9}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("dirtyPositions() = %v, want %v", got, want)
	}

	b.clearDirty(3)
	if b.isDirty(3) {
		t.Fatalf("3 should no longer be dirty after clear")
	}
}

func TestDiskTracksDirtyPositionsThroughAllocation(t *testing.T) {
	s := NewState(4)
	d0 := s.AddDisk("d0", "d0")
	d1 := s.AddDisk("d1", "d1")

	f0 := s.NewFile("a", 4, time.Now(), 1, 1)
	d0.InsertFile(s, f0)
	if got := d0.DirtyPositions(); len(got) != 1 || got[0] != 0 {
		t.Fatalf("DirtyPositions() = %v, want [0] right after allocation", got)
	}

	f1 := s.NewFile("b", 4, time.Now(), 1, 1)
	d1.InsertFile(s, f1)
	f1.Blocks[0].HasParity = true
	d1.ClearDirty(0)

	d0.RemoveFile(s, f0)
	if got := d1.DirtyPositions(); len(got) != 1 || got[0] != 0 {
		t.Fatalf("d1.DirtyPositions() = %v, want [0] after d0's removal invalidates the shared position", got)
	}
	if f1.Blocks[0].HasParity {
		t.Fatalf("d1's block should have had has-parity cleared")
	}
}
