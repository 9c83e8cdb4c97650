package array

import (
	"fmt"
	"io"

	intarray "github.com/CrawX/snapraid/internal/array"
	"github.com/CrawX/snapraid/internal/blockid"
	"github.com/CrawX/snapraid/internal/content"
	"github.com/CrawX/snapraid/internal/parity"
	"github.com/CrawX/snapraid/internal/scan"
)

// Array is an open array: state plus the collaborators needed to run the
// command-level surface of spec.md §6.
type Array struct {
	state *intarray.State
	cfg   Config
	codec *parity.XORCodec
}

// Open builds an Array from cfg, creating one disk per cfg.Disks entry and
// a single-level XOR parity codec backed by cfg.ParityPath. It does not
// load persisted state; call LoadFrom to populate the array from a content
// store before scanning or running a parity pass against existing data.
func Open(cfg Config) (*Array, error) {
	cfg = cfg.withDefaults()
	if cfg.BlockSize <= 0 {
		return nil, fmt.Errorf("array: block size must be positive, got %d", cfg.BlockSize)
	}

	state := intarray.NewState(cfg.BlockSize)
	for _, dc := range cfg.Disks {
		state.AddDisk(dc.Name, dc.Root)
	}

	codec := parity.NewXORCodec(cfg.Opener, cfg.ParityPath, cfg.BlockSize)

	return &Array{state: state, cfg: cfg, codec: codec}, nil
}

// LoadFrom replaces a's in-memory state with the content store r holds,
// entirely superseding the disks configured in Open.
func (a *Array) LoadFrom(r io.Reader) error {
	s, err := content.Load(r)
	if err != nil {
		return err
	}
	a.state = s
	return nil
}

// SaveTo persists a's current state to w in the content store format.
func (a *Array) SaveTo(w io.Writer) error {
	return content.Save(w, a.state)
}

// NeedWrite reports whether anything has changed since the state was last
// loaded or saved.
func (a *Array) NeedWrite() bool { return a.state.NeedWrite }

// Scan reconciles the in-memory state with every configured disk's live
// filesystem.
func (a *Array) Scan() ([]scan.Result, error) {
	opts := scan.Options{
		ForceZero:  a.cfg.ForceZero,
		ForceEmpty: a.cfg.ForceEmpty,
		Verbose:    a.cfg.Verbose,
		Log:        a.cfg.Log,
	}
	return scan.Scan(a.state, a.cfg.FS, a.cfg.Filter, opts)
}

func (a *Array) loop() *parity.Loop {
	return parity.NewLoop(a.state, a.cfg.Opener, a.codec, a.cfg.Progress, a.cfg.Usage, a.cfg.Log)
}

// Dry exercises the read path over [blockStart, blockMax) without touching
// the codec or writing anything.
func (a *Array) Dry(blockStart, blockMax blockid.ParityPos) (parity.Stats, error) {
	return a.loop().Run(parity.ModeDry, blockStart, blockMax)
}

// Check recomputes parity over [blockStart, blockMax) and compares it
// against what is stored, without writing anything.
func (a *Array) Check(blockStart, blockMax blockid.ParityPos) (parity.Stats, error) {
	return a.loop().Run(parity.ModeCheck, blockStart, blockMax)
}

// Sync recomputes and writes parity over [blockStart, blockMax), refreshing
// each contributing block's has-parity, hashed, and content-hash fields.
func (a *Array) Sync(blockStart, blockMax blockid.ParityPos) (parity.Stats, error) {
	return a.loop().Run(parity.ModeSync, blockStart, blockMax)
}

// Fix reconstructs any position in [blockStart, blockMax) with exactly one
// unreadable data disk, from parity and the surviving columns.
func (a *Array) Fix(blockStart, blockMax blockid.ParityPos) parity.FixStats {
	return a.loop().Fix(blockStart, blockMax)
}

// AllocatedSize is the parity codec's currently allocated size in
// positions.
func (a *Array) AllocatedSize() blockid.ParityPos {
	return blockid.ParityPos(a.codec.AllocatedSize())
}
