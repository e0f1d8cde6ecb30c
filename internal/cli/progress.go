package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// SyncProgress draws one progress bar per sheet being synced. Bars are
// created lazily on the first row so the total is known.
type SyncProgress struct {
	writer io.Writer
	bars   map[string]*progressbar.ProgressBar
	labels map[string]string
	mu     sync.Mutex
}

// NewSyncProgress creates a progress renderer writing to writer.
func NewSyncProgress(writer io.Writer) *SyncProgress {
	if writer == nil {
		writer = os.Stderr
	}
	return &SyncProgress{
		writer: writer,
		bars:   make(map[string]*progressbar.ProgressBar),
		labels: make(map[string]string),
	}
}

// Label sets the description shown for a workshop's bar.
func (p *SyncProgress) Label(workshopID, label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.labels[workshopID] = label
}

// Row records one processed row of a workshop.
func (p *SyncProgress) Row(workshopID string, done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	bar, ok := p.bars[workshopID]
	if !ok {
		bar = p.newBar(workshopID, total)
		p.bars[workshopID] = bar
	}
	if err := bar.Set(done); err != nil {
		slog.Debug("failed to update progress bar", "error", err)
	}
}

func (p *SyncProgress) newBar(workshopID string, total int) *progressbar.ProgressBar {
	label := p.labels[workshopID]
	if label == "" {
		label = workshopID
	}

	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan][bold]Syncing %s...[reset]", label)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(p.writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
