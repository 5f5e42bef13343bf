package cli

import (
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/schollz/progressbar/v3"
)

// WorkerProgress renders a progress bar advanced once per finished worker.
// Step may be called from many goroutines.
type WorkerProgress struct {
	bar     *progressbar.ProgressBar
	writer  io.Writer
	total   int
	done    atomic.Int64
	failed  atomic.Int64
	visible bool
}

// NewWorkerProgress creates a progress bar for total workers. When visible is
// false nothing is drawn but counts are still kept.
func NewWorkerProgress(writer io.Writer, total int, visible bool) *WorkerProgress {
	p := &WorkerProgress{writer: writer, total: total, visible: visible}
	if !visible {
		return p
	}

	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Generating demo data...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
	return p
}

// Step records one finished worker.
func (p *WorkerProgress) Step(ok bool) {
	p.done.Add(1)
	if !ok {
		p.failed.Add(1)
	}
	if p.bar == nil {
		return
	}
	if !ok {
		p.bar.Describe(fmt.Sprintf("[yellow][bold]Generating demo data (%d stopped early)...[reset]", p.failed.Load()))
	}
	if err := p.bar.Add(1); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

// Done is the number of workers recorded so far.
func (p *WorkerProgress) Done() int { return int(p.done.Load()) }

// Unsuccessful is the number of workers that stopped early.
func (p *WorkerProgress) Unsuccessful() int { return int(p.failed.Load()) }

// Finish completes the bar even if some workers never reported.
func (p *WorkerProgress) Finish() {
	if p.bar == nil {
		return
	}
	if err := p.bar.Finish(); err != nil {
		slog.Warn("Failed to finish progress bar", "error", err)
	}
}
