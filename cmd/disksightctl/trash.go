package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"disksight/internal/events"
	"disksight/internal/hostapi"
)

func newTrashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trash",
		Short: "Show whether this host has a trash/recycle bin and where it lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			api := hostapi.New(events.NoopSink{})
			info := api.TrashInfo()

			if !info.Supported {
				fmt.Println("trash not supported on this platform")
				return nil
			}
			if info.Error != "" {
				fmt.Printf("trash supported, location unknown: %s\n", info.Error)
				return nil
			}
			fmt.Printf("trash supported, location: %s\n", info.Location)
			return nil
		},
	}
}
