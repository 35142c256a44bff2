package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"disksight/internal/events"
	"disksight/internal/hostapi"
)

func newRootsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roots",
		Short: "List scannable mount points / volumes",
		RunE: func(cmd *cobra.Command, args []string) error {
			api := hostapi.New(events.NoopSink{})
			roots, err := api.ListRoots()
			if err != nil {
				return err
			}
			for _, r := range roots {
				fmt.Printf("%-8s %-20s %10s free of %s\n",
					r.Name, r.Path, humanize.Bytes(r.AvailableBytes), humanize.Bytes(r.TotalBytes))
			}
			return nil
		},
	}
}
