//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris
// +build aix darwin dragonfly freebsd linux netbsd openbsd solaris

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

// osHandle wraps an *os.File behind the Handle interface, using positional
// I/O (pread/pwrite) the same way handle.c's handle_read/handle_write do,
// rather than seek-then-read/write.
type osHandle struct {
	f *os.File
}

func (h *osHandle) ReadAt(buf []byte, offset int64) (int, error) {
	return h.f.ReadAt(buf, offset)
}

func (h *osHandle) WriteAt(buf []byte, offset int64) (int, error) {
	return h.f.WriteAt(buf, offset)
}

func (h *osHandle) Close() error {
	return h.f.Close()
}

// OSOpener is the real Opener, backed by os.OpenFile plus fallocate/fadvise
// hints on platforms that support them (handle.c's handle_create).
type OSOpener struct{}

func NewOSOpener() *OSOpener {
	return &OSOpener{}
}

func (OSOpener) Open(path string, mode OpenMode, size int64) (Handle, error) {
	if mode == ReadOnly {
		f, err := os.OpenFile(path, os.O_RDONLY, 0)
		if err != nil {
			return nil, err
		}
		adviseSequential(f)
		return &osHandle{f: f}, nil
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	switch {
	case st.Size() < size:
		if err := unix.Fallocate(int(f.Fd()), 0, 0, size); err != nil {
			// fall back to a sparse truncate if the filesystem refuses
			// real preallocation (e.g. ENOSYS, ENOTSUP)
			if err := f.Truncate(size); err != nil {
				_ = f.Close()
				return nil, err
			}
		}
	case st.Size() > size:
		if err := f.Truncate(size); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	adviseSequential(f)
	return &osHandle{f: f}, nil
}

func adviseSequential(f *os.File) {
	// best-effort: a failure to advise never blocks opening the file
	_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
}
