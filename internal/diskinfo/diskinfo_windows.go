//go:build windows

package diskinfo

import (
	"fmt"

	"golang.org/x/sys/windows"

	"disksight/internal/model"
)

// List enumerates Windows drive letters with GetDiskFreeSpaceEx,
// mirroring commands.rs's cross-platform list_roots at a coarser
// grain (a whole drive per root rather than every mount point).
func List() ([]model.RootEntry, error) {
	mask, err := windows.GetLogicalDrives()
	if err != nil {
		return nil, err
	}

	var roots []model.RootEntry
	for i := 0; i < 26; i++ {
		if mask&(1<<uint(i)) == 0 {
			continue
		}
		letter := string(rune('A' + i))
		path := letter + `:\`

		var free, total, totalFree uint64
		pathPtr, err := windows.UTF16PtrFromString(path)
		if err != nil {
			continue
		}
		if err := windows.GetDiskFreeSpaceEx(pathPtr, &free, &total, &totalFree); err != nil {
			continue
		}

		roots = append(roots, model.RootEntry{
			Name:           fmt.Sprintf("%s:", letter),
			Path:           path,
			TotalBytes:     total,
			AvailableBytes: free,
		})
	}
	return roots, nil
}
