package array_test

import (
	"bytes"
	"testing"

	"github.com/CrawX/snapraid/array"
	"github.com/CrawX/snapraid/internal/blockid"
	"github.com/CrawX/snapraid/internal/platform/platformtest"
)

func TestOpenScanSyncSaveLoadRoundTrip(t *testing.T) {
	fs := platformtest.NewFS()
	fs.AddFile("d0/a.txt", 4, 1000, 1)
	fs.AddFile("d1/b.txt", 4, 1000, 2)

	opener := platformtest.NewOpener()

	a, err := array.Open(array.Config{
		Disks: []array.DiskConfig{
			{Name: "d0", Root: "d0"},
			{Name: "d1", Root: "d1"},
		},
		BlockSize:  4,
		ParityPath: "parity.bin",
		FS:         fs,
		Opener:     opener,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	results, err := a.Scan()
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	for _, r := range results {
		if r.Insert != 1 {
			t.Fatalf("disk %s: Insert = %d, want 1", r.Disk, r.Insert)
		}
	}

	if !a.NeedWrite() {
		t.Fatalf("expected NeedWrite after scan inserted files")
	}

	// Both files are 4 bytes with a 4-byte block size, so each disk holds
	// exactly one block and the only shared position is 0.
	if _, err := a.Sync(0, blockid.ParityPos(1)); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if got := a.AllocatedSize(); got != 1 {
		t.Fatalf("AllocatedSize() after sync = %d, want 1", got)
	}

	var buf bytes.Buffer
	if err := a.SaveTo(&buf); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	reloaded, err := array.Open(array.Config{
		BlockSize:  4,
		ParityPath: "parity.bin",
		FS:         fs,
		Opener:     opener,
	})
	if err != nil {
		t.Fatalf("Open() (reload) error = %v", err)
	}
	if err := reloaded.LoadFrom(&buf); err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if reloaded.NeedWrite() {
		t.Fatalf("freshly loaded array should not need a write")
	}

	rescanned, err := reloaded.Scan()
	if err != nil {
		t.Fatalf("Scan() (reload) error = %v", err)
	}
	for _, r := range rescanned {
		if r.Equal != 1 || r.Insert != 0 || r.Remove != 0 {
			t.Fatalf("disk %s after reload: %+v, want one Equal file and no changes", r.Disk, r)
		}
	}
}
