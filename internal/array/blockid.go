package array

import "github.com/CrawX/snapraid/internal/blockid"

// ParityPos and FilePos are aliased here so the rest of this package can
// name them without a blockid. qualifier on every block-record field.
type ParityPos = blockid.ParityPos
type FilePos = blockid.FilePos
