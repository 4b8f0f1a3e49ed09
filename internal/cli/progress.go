package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
)

// FetchProgress shows a progress bar while member pages are downloaded. The
// bar is created on the first page, once the total is known.
type FetchProgress struct {
	bar         *progressbar.ProgressBar
	writer      io.Writer
	description string
	fetched     int
	total       int
}

// NewFetchProgress creates a progress bar writing to w.
func NewFetchProgress(w io.Writer, description string) *FetchProgress {
	return &FetchProgress{writer: w, description: description}
}

func (p *FetchProgress) newBar(total int) *progressbar.ProgressBar {
	w := p.writer
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]"+p.description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

// OnPage records a fetched page. It matches service.PageFunc.
func (p *FetchProgress) OnPage(fetched, total int) {
	if total > 0 && total != p.total {
		p.total = total
		if p.bar == nil {
			p.bar = p.newBar(total)
		} else {
			p.bar.ChangeMax(total)
		}
	}
	p.fetched = fetched
	if p.bar == nil {
		return
	}
	if err := p.bar.Set(min(fetched, p.total)); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

// Fetched returns the latest reported count.
func (p *FetchProgress) Fetched() int {
	return p.fetched
}

// Total returns the expected member count, or 0 before the first page.
func (p *FetchProgress) Total() int {
	return p.total
}

// Finish completes the bar. It is a no-op when no page was reported.
func (p *FetchProgress) Finish() {
	if p.bar == nil {
		return
	}
	if err := p.bar.Finish(); err != nil {
		slog.Warn("Failed to finish progress bar", "error", err)
	}
}
