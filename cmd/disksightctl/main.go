// Command disksightctl is a CLI demonstration harness for the
// disksight backend core: a thin cobra front-end over internal/hostapi,
// grounded in the teacher pack's dupedog cmd/dupedog layout (a root
// cobra.Command with Version wired from build-time vars, one
// sub-command per file).
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := &cobra.Command{
		Use:     "disksightctl",
		Short:   "Scan and clean up disk usage",
		Version: version + " (" + commit + ")",
	}

	root.AddCommand(newScanCmd())
	root.AddCommand(newRootsCmd())
	root.AddCommand(newDeleteCmd())
	root.AddCommand(newTrashCmd())

	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}
