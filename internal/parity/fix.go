package parity

import (
	"io"

	"github.com/CrawX/snapraid/internal/array"
	"github.com/CrawX/snapraid/internal/blockid"
	"github.com/CrawX/snapraid/internal/hashutil"
	"github.com/CrawX/snapraid/internal/platform"
)

// FixStats summarizes one Fix pass.
type FixStats struct {
	Repaired []blockid.ParityPos
	Failed   []blockid.ParityPos
}

// Fix reconstructs, for every position in [blockStart, blockMax) with
// exactly one unreadable data disk, that disk's block from parity and the
// surviving columns, then writes it back. A position with more than one
// unreadable disk, or with unreadable parity, cannot be reconstructed and
// is reported in Failed. The repaired block is not read back after the
// write. This is the module's read-reconstruct-write flow
// grounded on the teacher's sync.CopyPartitionRaw/verifyBlockCopy pattern,
// generalized from whole-partition copy to single-block repair.
func (l *Loop) Fix(blockStart, blockMax blockid.ParityPos) FixStats {
	var stats FixStats

	for pos := blockStart; pos < blockMax; pos++ {
		columns := make([][]byte, len(l.State.Disks))
		missingIdx := -1
		var missingFile *array.File
		missingBlockIdx := 0
		failed := false

		for j, disk := range l.State.Disks {
			file, blockIdx, ok := disk.BlockOwner(pos)
			if !ok {
				continue
			}

			readErr := func() error {
				if err := l.Cache.CloseIfDifferent(j, file); err != nil {
					return err
				}
				if err := l.Cache.Open(j, disk, file, platform.ReadOnly); err != nil {
					return err
				}
				size := blockid.Size(blockid.FilePos(blockIdx), file.Size, l.State.BlockSize)
				data := make([]byte, size)
				n, err := l.Cache.ReadAt(j, data, int64(blockIdx)*l.State.BlockSize)
				if err != nil {
					return err
				}
				if int64(n) != size {
					return io.ErrUnexpectedEOF
				}
				columns[j] = data
				return nil
			}()

			if readErr == nil {
				continue
			}

			if missingIdx != -1 {
				// A second unreadable disk at the same position: not
				// reconstructable from single-parity XOR.
				failed = true
				l.Log.Warn("position %d: more than one disk unreadable, cannot reconstruct", pos)
				break
			}
			missingIdx = j
			missingFile = file
			missingBlockIdx = blockIdx
		}

		if failed {
			stats.Failed = append(stats.Failed, pos)
			continue
		}
		if missingIdx == -1 {
			// Nothing missing at this position; no repair needed.
			continue
		}

		stored := make([]byte, l.State.BlockSize)
		if _, err := l.Codec.ReadParity(0, pos, stored); err != nil {
			stats.Failed = append(stats.Failed, pos)
			l.Log.Warn("position %d: cannot read parity to reconstruct: %v", pos, err)
			continue
		}

		computed := XORColumns(columns, l.State.BlockSize)
		reconstructed := make([]byte, l.State.BlockSize)
		for i := range reconstructed {
			reconstructed[i] = computed[i] ^ stored[i]
		}

		size := blockid.Size(blockid.FilePos(missingBlockIdx), missingFile.Size, l.State.BlockSize)
		disk := l.State.Disks[missingIdx]

		if err := l.Cache.CloseIfDifferent(missingIdx, missingFile); err != nil {
			stats.Failed = append(stats.Failed, pos)
			continue
		}
		if err := l.Cache.Open(missingIdx, disk, missingFile, platform.ReadWriteCreate); err != nil {
			stats.Failed = append(stats.Failed, pos)
			l.Log.Warn("position %d: cannot open %s for repair: %v", pos, disk.Name, err)
			continue
		}
		if _, err := l.Cache.WriteAt(missingIdx, reconstructed[:size], int64(missingBlockIdx)*l.State.BlockSize); err != nil {
			stats.Failed = append(stats.Failed, pos)
			l.Log.Warn("position %d: cannot write repaired block to %s: %v", pos, disk.Name, err)
			continue
		}

		missingFile.Blocks[missingBlockIdx].HasParity = true
		missingFile.Blocks[missingBlockIdx].Hashed = true
		missingFile.Blocks[missingBlockIdx].ContentHash = hashutil.Sum(reconstructed[:size])
		disk.ClearDirty(pos)
		l.State.NeedWrite = true
		stats.Repaired = append(stats.Repaired, pos)
	}

	for _, err := range l.Cache.CloseAll() {
		l.Log.Danger("DANGER! close failed during fix cleanup: %v", err)
	}

	return stats
}
