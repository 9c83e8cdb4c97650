package parity

import (
	"errors"
	"fmt"

	"github.com/CrawX/snapraid/internal/blockid"
)

// ErrBlockStartOutOfRange is returned when a caller asks the loop to start
// past the codec's currently allocated size (spec §8 "blockstart >
// parity_allocated_size → fatal").
var ErrBlockStartOutOfRange = errors.New("blockstart is past the allocated parity size")

// BlockError is a per-block recoverable failure reading a data disk during
// a parity pass (spec §7 item 1): counted, tagged, the pass continues.
type BlockError struct {
	Pos  blockid.ParityPos
	Disk string
	Sub  string
	Err  error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("error:%d:%s:%s: %v", e.Pos, e.Disk, e.Sub, e.Err)
}

func (e *BlockError) Unwrap() error { return e.Err }

// ParityBlockError is a per-block recoverable failure reading or comparing
// a parity level.
type ParityBlockError struct {
	Pos   blockid.ParityPos
	Level string
	Err   error
}

func (e *ParityBlockError) Error() string {
	return fmt.Sprintf("parity_error:%d:%s: %v", e.Pos, e.Level, e.Err)
}

func (e *ParityBlockError) Unwrap() error { return e.Err }

// CatastrophicError is a per-pass failure (spec §7 item 2): a close-before-
// reopen failure, or any close failure during final cleanup. It stops the
// per-position loop but cleanup still proceeds.
type CatastrophicError struct {
	Pos blockid.ParityPos
	Err error
}

func (e *CatastrophicError) Error() string {
	return fmt.Sprintf("DANGER! at position %d: %v", e.Pos, e.Err)
}

func (e *CatastrophicError) Unwrap() error { return e.Err }
