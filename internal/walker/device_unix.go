//go:build !windows

package walker

import (
	"io/fs"
	"syscall"
)

// deviceID extracts the filesystem device number from a FileInfo, used
// to implement ScanOptions.OneFileSystem. Mirrors the teacher's
// inode-dedup use of syscall.Stat_t in internal/scanner/walker.go.
func deviceID(info fs.FileInfo) uint64 {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0
	}
	return uint64(stat.Dev)
}
