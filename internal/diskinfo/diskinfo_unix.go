//go:build !windows

// Package diskinfo implements list_roots (spec §3: RootEntry,
// "mount point / volume" enumeration), the backend for the
// list_roots host command. On POSIX it does not read the mount table:
// it reports "/" plus every entry directly under /mnt, /media and
// /Volumes, and sizes each with golang.org/x/sys/unix Statfs, mirroring commands.rs's use of the sysinfo crate's Disks
// enumerator but scoped to what the stdlib plus x/sys can do without
// a third dependency for disk enumeration itself.
package diskinfo

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"disksight/internal/model"
)

// candidateParents are the well-known mount parents whose entries are
// listed in addition to "/" itself.
var candidateParents = []string{"/mnt", "/media", "/Volumes"}

// List enumerates scan roots: "/" plus every entry under the
// platform's conventional mount parents that Statfs accepts. Entries
// are not checked for being mount points, so a plain subdirectory is
// reported with the size of the filesystem that holds it.
func List() ([]model.RootEntry, error) {
	var roots []model.RootEntry

	if entry, err := statRoot("/", "/"); err == nil {
		roots = append(roots, entry)
	}

	for _, parent := range candidateParents {
		children, err := os.ReadDir(parent)
		if err != nil {
			continue
		}
		for _, child := range children {
			full := filepath.Join(parent, child.Name())
			entry, err := statRoot(child.Name(), full)
			if err != nil {
				continue
			}
			roots = append(roots, entry)
		}
	}

	return roots, nil
}

func statRoot(name, path string) (model.RootEntry, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return model.RootEntry{}, err
	}
	blockSize := uint64(stat.Bsize)
	return model.RootEntry{
		Name:           name,
		Path:           path,
		TotalBytes:     stat.Blocks * blockSize,
		AvailableBytes: stat.Bavail * blockSize,
	}, nil
}
