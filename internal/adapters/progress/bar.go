// Package progress reports batch scoring progress on a terminal.
package progress

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/baditaflorin/go_sign_similarity/internal/ports"
)

// BarReporter renders a progress bar to a writer.
type BarReporter struct {
	writer io.Writer
}

// NewBarReporter creates a reporter writing to w.
func NewBarReporter(w io.Writer) *BarReporter {
	return &BarReporter{writer: w}
}

// NewTerminalReporter renders to stderr when it is a terminal and reports
// nothing otherwise.
func NewTerminalReporter() ports.ProgressReporter {
	fd := os.Stderr.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return NewBarReporter(os.Stderr)
	}
	return Nop{}
}

// Start begins tracking a batch of total items.
func (r *BarReporter) Start(total int, description string) ports.Progress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.writer),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionClearOnFinish(),
	)
	return &barProgress{bar: bar}
}

type barProgress struct {
	bar *progressbar.ProgressBar
}

func (p *barProgress) Add(n int) {
	_ = p.bar.Add(n)
}

func (p *barProgress) Finish() {
	_ = p.bar.Finish()
}

// Nop discards all progress.
type Nop struct{}

// Start returns a tracker that does nothing.
func (Nop) Start(int, string) ports.Progress {
	return nopProgress{}
}

type nopProgress struct{}

func (nopProgress) Add(int) {}
func (nopProgress) Finish() {}
