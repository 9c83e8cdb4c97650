package content_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/CrawX/snapraid/internal/array"
	"github.com/CrawX/snapraid/internal/content"
)

func buildState() *array.State {
	s := array.NewState(4)
	d := s.AddDisk("d0", "d0")
	f := s.NewFile("a", 5, time.Now(), 1, 1)
	d.InsertFile(s, f)
	d.InsertLink(s, &array.Symlink{SubPath: "link", Target: "a"})
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := buildState()

	var buf bytes.Buffer
	if err := content.Save(&buf, s); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := content.Load(&buf)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.BlockSize != s.BlockSize {
		t.Fatalf("BlockSize = %d, want %d", loaded.BlockSize, s.BlockSize)
	}
	if loaded.ArrayID != s.ArrayID {
		t.Fatalf("ArrayID = %v, want %v", loaded.ArrayID, s.ArrayID)
	}
	if loaded.NeedWrite {
		t.Fatalf("loaded state should not be marked dirty")
	}

	ld := loaded.Disks[0]
	if ld.Name != "d0" || ld.Root != "d0" {
		t.Fatalf("disk = %+v, want name/root d0", ld)
	}
	if len(ld.Files) != 1 || ld.Files[0].SubPath != "a" {
		t.Fatalf("files = %+v, want one file named a", ld.Files)
	}
	if ld.Files[0].Blocks[0].ParityPos != 0 || ld.Files[0].Blocks[1].ParityPos != 1 {
		t.Fatalf("restored positions = %v", ld.Files[0].Blocks)
	}
	if _, _, ok := ld.BlockOwner(0); !ok {
		t.Fatalf("BlockOwner(0) not found after restore")
	}
	if len(ld.Links) != 1 || ld.Links[0].Target != "a" {
		t.Fatalf("links = %+v, want one link to a", ld.Links)
	}
}

func TestExportImportArchiveRoundTrip(t *testing.T) {
	s := buildState()

	var buf bytes.Buffer
	if err := content.ExportArchive(&buf, s); err != nil {
		t.Fatalf("ExportArchive() error = %v", err)
	}

	loaded, err := content.ImportArchive(&buf)
	if err != nil {
		t.Fatalf("ImportArchive() error = %v", err)
	}

	if len(loaded.Disks) != 1 || len(loaded.Disks[0].Files) != 1 {
		t.Fatalf("loaded = %+v, want one disk with one file", loaded.Disks)
	}
}
