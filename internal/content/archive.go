package content

import (
	"fmt"
	"io"

	"github.com/ulikunitz/xz"

	"github.com/CrawX/snapraid/internal/array"
)

// ExportArchive writes a portable, xz-compressed bundle of the content
// store's metadata alone, for off-array backup. It mirrors the teacher's
// own pipe-based copy idiom: the gob encoder runs in a goroutine writing
// into an io.Pipe, while this goroutine drains the pipe through the xz
// writer into w.
func ExportArchive(w io.Writer, s *array.State) error {
	xw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("opening xz writer: %w", err)
	}

	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(encodeSnapshot(pw, s))
	}()

	if _, err := io.Copy(xw, pr); err != nil {
		return fmt.Errorf("writing archive: %w", err)
	}
	return xw.Close()
}

// ImportArchive reads a bundle written by ExportArchive.
func ImportArchive(r io.Reader) (*array.State, error) {
	xr, err := xz.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening xz reader: %w", err)
	}
	return decodeSnapshot(xr)
}
