// Package telemetry defines the progress, usage, and logging sinks the
// parity loop and scan engine report to (spec.md §6): typed events the core
// emits, opaque to the core itself.
package telemetry

import "github.com/CrawX/snapraid/internal/blockid"

// Progress reports begin/step/end events over a parity position range. Step
// returns true to request cancellation at the next position boundary
// (spec.md §5 "Cancellation").
type Progress interface {
	Begin(start, max blockid.ParityPos, count int)
	Step(pos blockid.ParityPos, done, total int, bytes int64) (cancel bool)
	End(done, total int, bytes int64)
}

// Phase distinguishes which resource a span of work is attributed to.
type Phase int

const (
	PhaseCPU Phase = iota
	PhaseDisk
	PhaseParity
)

// Usage attributes elapsed time in the parity loop to CPU, a named disk, or
// a parity level, per spec.md §4.3 ("Usage telemetry is attributed to CPU
// before I/O, to disk d after").
type Usage interface {
	Mark(phase Phase, name string)
	// Print renders an end-of-pass summary; a no-op implementation is valid.
	Print()
}

// Log is the tagged-line and fatal-message sink of spec.md §7.
type Log interface {
	// Tag emits a machine-parseable line, e.g. "error:12:disk1:foo/bar".
	Tag(format string, args ...interface{})
	// Info emits a human-facing informational line.
	Info(format string, args ...interface{})
	// Warn emits a recoverable-problem line (e.g. a skipped hardlink).
	Warn(format string, args ...interface{})
	// Danger emits a catastrophic-but-continuing message.
	Danger(format string, args ...interface{})
}
