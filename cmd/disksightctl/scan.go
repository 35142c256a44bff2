package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"disksight/internal/events"
	"disksight/internal/hostapi"
	"disksight/internal/model"
)

// scanSink feeds a CLI spinner off the events.Sink interface, and
// otherwise discards payloads the CLI doesn't render live.
type scanSink struct {
	events.NoopSink
	bar  *spinner
	done chan model.ScanSummary
}

func (s *scanSink) Progress(p events.ProgressPayload) {
	s.bar.describe(fmt.Sprintf("%s  %s scanned", p.Phase, humanize.Bytes(p.VisitedBytesApprox)))
}

func (s *scanSink) Finished(p events.FinishedPayload) {
	s.done <- p.Summary
}

func (s *scanSink) Canceled(events.CanceledPayload) {
	close(s.done)
}

func newScanCmd() *cobra.Command {
	var (
		followSymlinks bool
		oneFileSystem  bool
		maxDepth       uint32
		excludes       []string
		quiet          bool
		topN           int
	)

	cmd := &cobra.Command{
		Use:   "scan <path>",
		Short: "Scan a directory and report the largest extensions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := model.ScanOptions{
				FollowSymlinks:  followSymlinks,
				OneFileSystem:   oneFileSystem,
				ExcludePatterns: excludes,
			}
			if maxDepth > 0 {
				opts.MaxDepth = &maxDepth
			}

			bar := newSpinner(!quiet)
			sink := &scanSink{bar: bar, done: make(chan model.ScanSummary, 1)}

			api := hostapi.New(sink)
			handle := api.StartScan(args[0], opts)

			var summary model.ScanSummary
			var canceled bool
			select {
			case s, ok := <-sink.done:
				if !ok {
					canceled = true
				}
				summary = s
			case <-time.After(30 * time.Minute):
				return fmt.Errorf("scan %s timed out", handle.ScanID)
			}
			bar.finish("scan complete")

			if canceled {
				fmt.Println("scan canceled")
				return nil
			}

			fmt.Printf("%s total across %d files, %d directories\n",
				humanize.Bytes(summary.TotalBytes), summary.TotalFiles, summary.TotalDirs)

			top := lo.Slice(summary.ExtensionStats, 0, topN)
			for _, stat := range top {
				fmt.Printf("  %-12s %10s  (%d files)\n", stat.Ext, humanize.Bytes(stat.Bytes), stat.Count)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&followSymlinks, "follow-symlinks", false, "follow symbolic links")
	cmd.Flags().BoolVar(&oneFileSystem, "one-file-system", false, "don't cross filesystem boundaries")
	cmd.Flags().Uint32Var(&maxDepth, "max-depth", 0, "limit traversal depth (0 = unbounded)")
	cmd.Flags().StringSliceVar(&excludes, "exclude", nil, "glob patterns to exclude")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress the progress spinner")
	cmd.Flags().IntVar(&topN, "top", 15, "number of extensions to report")

	return cmd
}
