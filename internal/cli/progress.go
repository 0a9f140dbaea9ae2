package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
)

// ImportProgress shows a per-file progress bar during OFX import.
type ImportProgress struct {
	bar *progressbar.ProgressBar
}

// NewImportProgress creates a progress bar for the given number of files.
func NewImportProgress(writer io.Writer, files int) *ImportProgress {
	bar := progressbar.NewOptions(files,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription("[cyan][bold]Importing files...[reset]"),
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
	return &ImportProgress{bar: bar}
}

// Step marks one file as done.
func (p *ImportProgress) Step(file string) {
	p.bar.Describe(fmt.Sprintf("[cyan][bold]%s[reset]", file))
	if err := p.bar.Add(1); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

// Finish completes the bar even if some files were skipped.
func (p *ImportProgress) Finish() {
	if err := p.bar.Finish(); err != nil {
		slog.Warn("Failed to finish progress bar", "error", err)
	}
}
