package telemetry

import (
	"fmt"

	"github.com/CrawX/snapraid/internal/blockid"
)

// Recorder is an in-memory Log/Usage/Progress implementation used by tests
// to assert on the exact set of tag lines emitted, per spec.md §8 ("the set
// of positions whose blocks saw an I/O error is exactly the set of
// positions reported via error: tags").
type Recorder struct {
	Tags    []string
	Infos   []string
	Warns   []string
	Dangers []string

	// Cancel, when non-nil, is called on every Step; a true return requests
	// cancellation at the next position boundary.
	Cancel func(pos blockid.ParityPos) bool

	marks []string
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Tag(format string, args ...interface{}) {
	r.Tags = append(r.Tags, fmt.Sprintf(format, args...))
}

func (r *Recorder) Info(format string, args ...interface{}) {
	r.Infos = append(r.Infos, fmt.Sprintf(format, args...))
}

func (r *Recorder) Warn(format string, args ...interface{}) {
	r.Warns = append(r.Warns, fmt.Sprintf(format, args...))
}

func (r *Recorder) Danger(format string, args ...interface{}) {
	r.Dangers = append(r.Dangers, fmt.Sprintf(format, args...))
}

func (r *Recorder) Mark(phase Phase, name string) {
	r.marks = append(r.marks, phaseKey(phase, name))
}

func (r *Recorder) Print() {}

func (r *Recorder) Begin(start, max blockid.ParityPos, count int) {}

func (r *Recorder) Step(pos blockid.ParityPos, done, total int, bytes int64) bool {
	if r.Cancel != nil {
		return r.Cancel(pos)
	}
	return false
}

func (r *Recorder) End(done, total int, bytes int64) {}
