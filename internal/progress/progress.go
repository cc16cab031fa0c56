// Package progress renders stderr progress for long analysis phases. Bars
// are suppressed entirely when output is machine readable, so formatted
// results on stdout stay clean.
package progress

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Tracker wraps a progress bar for a single analysis phase.
type Tracker struct {
	bar   *progressbar.ProgressBar
	label string
}

// NewSpinner creates a spinner for phases with unknown totals, such as
// project discovery walking an unscanned tree.
func NewSpinner(label string) *Tracker {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	return &Tracker{bar: bar, label: label}
}

// NewTracker creates a progress bar over a known file count.
func NewTracker(label string, total int) *Tracker {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(label),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Tracker{bar: bar, label: label}
}

// NewQuiet creates a tracker that renders nothing. Used when writing json
// or toon output, or when stderr is not a terminal.
func NewQuiet(label string) *Tracker {
	return &Tracker{label: label}
}

// Tick increments the progress by 1. Safe for concurrent use.
func (t *Tracker) Tick() {
	if t.bar != nil {
		t.bar.Add(1)
	}
}

// FinishSuccess clears the bar completely (no output).
func (t *Tracker) FinishSuccess() {
	if t.bar == nil {
		return
	}
	t.bar.Finish()
	t.bar.Clear()
}

// FinishSkipped clears the bar and prints a skip message to stderr.
func (t *Tracker) FinishSkipped(reason string) {
	if t.bar != nil {
		t.bar.Finish()
		t.bar.Clear()
	}
	fmt.Fprintf(os.Stderr, "  %s skipped (%s)\n", t.label, reason)
}

// FinishError clears the bar and prints an error message to stderr.
func (t *Tracker) FinishError(err error) {
	if t.bar != nil {
		t.bar.Finish()
		t.bar.Clear()
	}
	fmt.Fprintf(os.Stderr, "  %s error: %v\n", t.label, err)
}
