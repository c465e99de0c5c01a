package path

import (
	"os"
	"strconv"
	"strings"

	hperrors "github.com/hostpath/hostpath/pkg/errors"
)

// Unix file type bits, as found in st_mode.
const (
	modeTypeMask = 0o170000
	modeSocket   = 0o140000
	modeSymlink  = 0o120000
	modeRegular  = 0o100000
	modeDir      = 0o040000
	modeSetuid   = 0o004000
	modeSetgid   = 0o002000
	modeSticky   = 0o001000
)

// FileInfo is the metadata a stat call produces, in raw unix form so local
// and remote results are directly comparable.
type FileInfo struct {
	// Mode is the raw st_mode word: type bits plus permission bits.
	Mode  uint32
	Ino   uint64
	Dev   uint64
	Nlink uint64
	UID   uint64
	GID   uint64
	Size  int64

	// Access, modification and change times, seconds since the epoch.
	Atime int64
	Mtime int64
	Ctime int64
}

func (fi FileInfo) IsDir() bool     { return fi.Mode&modeTypeMask == modeDir }
func (fi FileInfo) IsRegular() bool { return fi.Mode&modeTypeMask == modeRegular }
func (fi FileInfo) IsSymlink() bool { return fi.Mode&modeTypeMask == modeSymlink }
func (fi FileInfo) IsSocket() bool  { return fi.Mode&modeTypeMask == modeSocket }

// Perm returns the permission bits as an os.FileMode.
func (fi FileInfo) Perm() os.FileMode {
	return os.FileMode(fi.Mode & 0o777)
}

// parseStatOutput decodes the space-separated field list emitted by the
// remote stat command: hex mode followed by nine decimal integers.
func parseStatOutput(out string) (FileInfo, error) {
	fields := strings.Fields(out)
	if len(fields) != 10 {
		return FileInfo{}, hperrors.Errorf("malformed stat output %q: want 10 fields, got %d", out, len(fields))
	}

	mode, err := strconv.ParseUint(fields[0], 16, 32)
	if err != nil {
		return FileInfo{}, hperrors.Wrapf(err, "malformed stat mode %q", fields[0])
	}

	ints := make([]int64, 9)
	for i, field := range fields[1:] {
		v, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return FileInfo{}, hperrors.Wrapf(err, "malformed stat field %q", field)
		}
		ints[i] = v
	}

	return FileInfo{
		Mode:  uint32(mode),
		Ino:   uint64(ints[0]),
		Dev:   uint64(ints[1]),
		Nlink: uint64(ints[2]),
		UID:   uint64(ints[3]),
		GID:   uint64(ints[4]),
		Size:  ints[5],
		Atime: ints[6],
		Mtime: ints[7],
		Ctime: ints[8],
	}, nil
}

// fileInfoFromOS converts an os.FileInfo to the raw form, pulling the full
// field set from the underlying stat structure when the platform exposes it.
func fileInfoFromOS(fi os.FileInfo) FileInfo {
	if info, ok := fileInfoFromSys(fi); ok {
		return info
	}

	mtime := fi.ModTime().Unix()
	return FileInfo{
		Mode:  unixMode(fi.Mode()),
		Nlink: 1,
		Size:  fi.Size(),
		Atime: mtime,
		Mtime: mtime,
		Ctime: mtime,
	}
}

// chmodMode renders an os.FileMode as the octal word chmod takes: permission
// bits plus setuid, setgid and sticky, without the type bits.
func chmodMode(m os.FileMode) uint32 {
	mode := uint32(m.Perm())
	if m&os.ModeSetuid != 0 {
		mode |= modeSetuid
	}
	if m&os.ModeSetgid != 0 {
		mode |= modeSetgid
	}
	if m&os.ModeSticky != 0 {
		mode |= modeSticky
	}
	return mode
}

// unixMode rebuilds st_mode type and permission bits from an os.FileMode.
func unixMode(m os.FileMode) uint32 {
	mode := uint32(m.Perm())
	switch {
	case m.IsDir():
		mode |= modeDir
	case m&os.ModeSymlink != 0:
		mode |= modeSymlink
	case m&os.ModeSocket != 0:
		mode |= modeSocket
	default:
		mode |= modeRegular
	}
	if m&os.ModeSetuid != 0 {
		mode |= modeSetuid
	}
	if m&os.ModeSetgid != 0 {
		mode |= modeSetgid
	}
	if m&os.ModeSticky != 0 {
		mode |= modeSticky
	}
	return mode
}
