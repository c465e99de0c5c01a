//go:build linux

package path

import (
	"os"
	"syscall"
)

// fileInfoFromSys pulls the full stat field set out of the kernel's
// Stat_t when the filesystem is the real one. In-memory filesystems
// report a nil Sys and fall back to the portable conversion.
func fileInfoFromSys(fi os.FileInfo) (FileInfo, bool) {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok || st == nil {
		return FileInfo{}, false
	}
	return FileInfo{
		Mode:  st.Mode,
		Ino:   st.Ino,
		Dev:   st.Dev,
		Nlink: uint64(st.Nlink),
		UID:   uint64(st.Uid),
		GID:   uint64(st.Gid),
		Size:  st.Size,
		Atime: st.Atim.Sec,
		Mtime: st.Mtim.Sec,
		Ctime: st.Ctim.Sec,
	}, true
}
