package parity

import (
	"github.com/CrawX/snapraid/internal/array"
	"github.com/CrawX/snapraid/internal/blockid"
	"github.com/CrawX/snapraid/internal/hashutil"
	"github.com/CrawX/snapraid/internal/platform"
	"github.com/CrawX/snapraid/internal/telemetry"
)

// Mode selects what the loop does with a gathered column, after the common
// per-position data read (spec §4.3).
type Mode int

const (
	// ModeDry reads every populated cell and discards it: it exercises the
	// data read path without touching the codec at all.
	ModeDry Mode = iota
	// ModeCheck recomputes parity from the gathered column and compares it
	// against what is stored, without writing anything.
	ModeCheck
	// ModeSync recomputes parity and writes it back, refreshing each
	// contributing block's has-parity, hashed, and content-hash fields.
	ModeSync
)

// Stats summarizes one Run: block and parity error counts, and the exact
// set of positions that saw a data-read error (spec §8 "the set of
// positions whose blocks saw an I/O error is exactly the set of positions
// reported via error: tags").
type Stats struct {
	BlockErrorCount  int
	ParityErrorCount int
	ErrorPositions   []blockid.ParityPos
	Catastrophic     *CatastrophicError
}

// Loop ties a state, a handle cache, a codec, and telemetry sinks together
// to implement dry/check/sync.
type Loop struct {
	State *array.State
	Cache *HandleCache
	Codec Codec

	Progress telemetry.Progress
	Usage    telemetry.Usage
	Log      telemetry.Log
}

// NewLoop builds a loop over state with one handle-cache slot per disk.
func NewLoop(state *array.State, opener platform.Opener, codec Codec, progress telemetry.Progress, usage telemetry.Usage, log telemetry.Log) *Loop {
	return &Loop{
		State:    state,
		Cache:    NewHandleCache(opener, len(state.Disks)),
		Codec:    codec,
		Progress: progress,
		Usage:    usage,
		Log:      log,
	}
}

// Run iterates positions in [blockStart, blockMax) in ascending order,
// gathering each disk's block and driving the codec according to mode.
func (l *Loop) Run(mode Mode, blockStart, blockMax blockid.ParityPos) (Stats, error) {
	var stats Stats

	if blockStart == blockMax {
		return stats, nil
	}
	if int64(blockStart) > l.Codec.AllocatedSize() {
		return stats, ErrBlockStartOutOfRange
	}

	buf := make([]byte, l.State.BlockSize)
	total := int(blockMax - blockStart)
	done := 0

	l.Progress.Begin(blockStart, blockMax, total)

	openMode := platform.ReadOnly
	if mode == ModeSync {
		openMode = platform.ReadWriteCreate
	}

	var totalBytes int64

positions:
	for pos := blockStart; pos < blockMax; pos++ {
		columns := make([][]byte, len(l.State.Disks))
		owners := make([]*array.File, len(l.State.Disks))
		blockIdxs := make([]int, len(l.State.Disks))

		for j, disk := range l.State.Disks {
			file, blockIdx, ok := disk.BlockOwner(pos)
			if !ok {
				continue
			}

			if err := l.Cache.CloseIfDifferent(j, file); err != nil {
				stats.Catastrophic = &CatastrophicError{Pos: pos, Err: err}
				l.Log.Danger("%s", stats.Catastrophic.Error())
				break positions
			}
			if err := l.Cache.Open(j, disk, file, openMode); err != nil {
				stats.Catastrophic = &CatastrophicError{Pos: pos, Err: err}
				l.Log.Danger("%s", stats.Catastrophic.Error())
				break positions
			}

			l.Usage.Mark(telemetry.PhaseCPU, "")

			size := blockid.Size(blockid.FilePos(blockIdx), file.Size, l.State.BlockSize)
			data := make([]byte, size)
			n, err := l.Cache.ReadAt(j, data, int64(blockIdx)*l.State.BlockSize)

			l.Usage.Mark(telemetry.PhaseDisk, disk.Name)

			if err != nil || int64(n) != size {
				stats.BlockErrorCount++
				stats.ErrorPositions = append(stats.ErrorPositions, pos)
				l.Log.Tag("%s", (&BlockError{Pos: pos, Disk: disk.Name, Sub: file.SubPath, Err: err}).Error())
				continue
			}

			columns[j] = data
			owners[j] = file
			blockIdxs[j] = blockIdx
			totalBytes += size
		}

		if mode != ModeDry {
			computed := XORColumns(columns, l.State.BlockSize)
			parityWritten := true

			for level := 0; level < l.Codec.LevelCount(); level++ {
				if mode == ModeCheck {
					stored := make([]byte, l.State.BlockSize)
					n, err := l.Codec.ReadParity(level, pos, stored)
					l.Usage.Mark(telemetry.PhaseParity, l.Codec.LevelName(level))
					if err != nil || !bytesEqual(stored[:n], computed[:n]) {
						stats.ParityErrorCount++
						l.Log.Tag("%s", (&ParityBlockError{Pos: pos, Level: l.Codec.LevelName(level), Err: err}).Error())
					}
					continue
				}

				// ModeSync
				if _, err := l.Codec.WriteParity(level, pos, computed); err != nil {
					stats.ParityErrorCount++
					l.Log.Tag("%s", (&ParityBlockError{Pos: pos, Level: l.Codec.LevelName(level), Err: err}).Error())
					parityWritten = false
					continue
				}
				l.Usage.Mark(telemetry.PhaseParity, l.Codec.LevelName(level))
			}

			if mode == ModeSync && parityWritten {
				for j, file := range owners {
					if file == nil {
						continue
					}
					idx := blockIdxs[j]
					file.Blocks[idx].HasParity = true
					file.Blocks[idx].Hashed = true
					file.Blocks[idx].ContentHash = hashutil.Sum(columns[j])
					l.State.Disks[j].ClearDirty(pos)
					l.State.NeedWrite = true
				}
			}
		}

		done++
		if l.Progress.Step(pos, done, total, totalBytes) {
			break positions
		}
	}

	for _, err := range l.Cache.CloseAll() {
		stats.Catastrophic = &CatastrophicError{Pos: blockMax, Err: err}
		l.Log.Danger("%s", stats.Catastrophic.Error())
	}

	l.Usage.Print()
	l.Progress.End(done, total, totalBytes)

	return stats, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
