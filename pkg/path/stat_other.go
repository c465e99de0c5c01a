//go:build !linux

package path

import "os"

func fileInfoFromSys(os.FileInfo) (FileInfo, bool) {
	return FileInfo{}, false
}
