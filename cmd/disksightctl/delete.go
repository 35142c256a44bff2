package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"disksight/internal/events"
	"disksight/internal/hostapi"
)

// deleteSink prints delete://deleted and delete://failed events as
// they stream in, rather than waiting on the aggregate DeleteResult;
// bulk deletes can take a while and the CLI's whole point is to show
// the command surface end to end.
type deleteSink struct {
	events.NoopSink
}

func (deleteSink) Deleted(p events.DeletedPayload) {
	fmt.Printf("deleted  %-60s %10s\n", p.Path, humanize.Bytes(p.BytesFreed))
}

func (deleteSink) Failed(p events.FailedPayload) {
	fmt.Printf("failed   %-60s %s\n", p.Path, p.Reason)
}

func newDeleteCmd() *cobra.Command {
	var (
		force         bool
		unconditional bool
		toTrash       bool
	)

	cmd := &cobra.Command{
		Use:   "delete <path>...",
		Short: "Classify and smart-delete one or more paths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api := hostapi.New(deleteSink{})

			if unconditional {
				for _, p := range args {
					if err := api.DeletePath(p, toTrash); err != nil {
						fmt.Printf("failed   %-60s %v\n", p, err)
					} else {
						fmt.Printf("deleted  %s\n", p)
					}
				}
				return nil
			}

			result := api.BulkSmartDelete(args, force || hostapi.DefaultForce())

			fmt.Printf("\n%d file(s), %d folder(s) removed, %s freed\n",
				result.FilesDeleted, result.FoldersDeleted, humanize.Bytes(result.BytesFreed))
			if !result.Success {
				for _, e := range result.Errors {
					fmt.Println("  " + e)
				}
				return fmt.Errorf("delete: %d error(s)", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "allow deleting confirm-required paths (never overrides protected)")
	cmd.Flags().BoolVar(&unconditional, "unconditional", false, "bypass the safety classifier entirely (delete_path)")
	cmd.Flags().BoolVar(&toTrash, "trash", true, "prefer the OS trash over a permanent removal (--unconditional only)")

	return cmd
}
