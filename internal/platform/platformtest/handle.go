package platformtest

import (
	"fmt"
	"io"

	"github.com/CrawX/snapraid/internal/platform"
)

// memHandle is an in-memory platform.Handle, the positional-I/O analogue of
// the teacher's testhelper.FileImpl (func-based Reader/Writer stubs) but
// backed directly by a growable byte slice so tests can assert on exact
// written bytes.
type memHandle struct {
	data   *[]byte
	closed bool
}

func (h *memHandle) ReadAt(buf []byte, offset int64) (int, error) {
	if h.closed {
		return 0, fmt.Errorf("platformtest: read on closed handle")
	}
	d := *h.data
	if offset >= int64(len(d)) {
		return 0, io.EOF
	}
	n := copy(buf, d[offset:])
	if n < len(buf) {
		return n, io.ErrUnexpectedEOF
	}
	return n, nil
}

func (h *memHandle) WriteAt(buf []byte, offset int64) (int, error) {
	if h.closed {
		return 0, fmt.Errorf("platformtest: write on closed handle")
	}
	need := offset + int64(len(buf))
	if need > int64(len(*h.data)) {
		grown := make([]byte, need)
		copy(grown, *h.data)
		*h.data = grown
	}
	copy((*h.data)[offset:], buf)
	return len(buf), nil
}

func (h *memHandle) Close() error {
	h.closed = true
	return nil
}

// Opener is an in-memory platform.Opener keyed by path, so ReadWriteCreate
// on the same path across calls observes previously written bytes.
type Opener struct {
	files map[string]*[]byte
	// FailOpen, when set, causes Open to fail for exactly this path once.
	FailOpen map[string]bool
}

func NewOpener() *Opener {
	return &Opener{files: map[string]*[]byte{}, FailOpen: map[string]bool{}}
}

func (o *Opener) SetContent(path string, data []byte) {
	b := append([]byte(nil), data...)
	o.files[path] = &b
}

func (o *Opener) Content(path string) []byte {
	if b, ok := o.files[path]; ok {
		return *b
	}
	return nil
}

func (o *Opener) Open(path string, mode platform.OpenMode, size int64) (platform.Handle, error) {
	if o.FailOpen[path] {
		delete(o.FailOpen, path)
		return nil, fmt.Errorf("platformtest: forced open failure for %q", path)
	}
	b, ok := o.files[path]
	if !ok {
		empty := make([]byte, 0)
		b = &empty
		o.files[path] = b
	}
	if mode == platform.ReadWriteCreate {
		grown := make([]byte, size)
		copy(grown, *b)
		*b = grown
	}
	return &memHandle{data: b}, nil
}
