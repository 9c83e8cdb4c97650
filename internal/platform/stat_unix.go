//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris
// +build aix darwin dragonfly freebsd linux netbsd openbsd solaris

package platform

import (
	"os"
	"syscall"

	times "gopkg.in/djherbis/times.v1"
)

// fillStatDetails fills in the inode, link count and extended timestamps
// that os.FileInfo does not expose portably, mirroring the extra fields the
// original tool reads straight off struct stat.
func fillStatDetails(info *Info, fi os.FileInfo, p string) {
	if st, ok := fi.Sys().(*syscall.Stat_t); ok {
		info.Inode = uint64(st.Ino)
		info.Nlink = uint64(st.Nlink)
	}

	ts, err := times.Lstat(p)
	if err != nil {
		return
	}
	if ts.HasBirthTime() {
		info.BirthTime = ts.BirthTime()
	}
	if ts.HasChangeTime() {
		info.ChangeTime = ts.ChangeTime()
	}
}
