// Package openshell implements open_in_explorer (spec §3 host
// command surface), grounded on original_source's scan/commands.rs
// open_in_explorer: one exec.Command per OS, none of which pass path
// through a shell (os/exec runs the binary directly), so there is no
// shell-injection surface to guard against even though path is
// caller-supplied.
package openshell

import (
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
)

// Open reveals path in the host OS's file manager.
func Open(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", "-R", path)
	case "windows":
		cmd = exec.Command("explorer", "/select,", path)
	case "linux":
		cmd = exec.Command("xdg-open", filepath.Dir(path))
	default:
		return errors.Errorf("openshell: unsupported platform %q", runtime.GOOS)
	}

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "openshell: open %q", path)
	}
	return nil
}
