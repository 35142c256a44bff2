package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/schollz/progressbar/v3"
)

const updateInterval = 50 * time.Millisecond

// spinner wraps progressbar's indeterminate spinner mode, adapted from
// the teacher pack's internal/progress.Bar (ivoronin-dupedog): a
// disksight scan has no known total ahead of time, so this always
// runs in spinner mode rather than determinate-progress mode.
type spinner struct {
	bar *progressbar.ProgressBar
}

func newSpinner(enabled bool) *spinner {
	if !enabled {
		return &spinner{}
	}
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(colorable.NewColorableStderr()),
		progressbar.OptionThrottle(updateInterval),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionClearOnFinish(),
	)
	return &spinner{bar: bar}
}

func (s *spinner) describe(msg string) {
	if s.bar != nil {
		s.bar.Describe(msg)
		_ = s.bar.Add(1)
	}
}

func (s *spinner) finish(msg string) {
	if s.bar == nil {
		return
	}
	_ = s.bar.Finish()
	fmt.Fprintln(os.Stderr, "done: "+msg)
}
