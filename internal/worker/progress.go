package worker

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

const barWidth = 24

// Progress renders a one-line progress bar for a generation run.
type Progress struct {
	startTime time.Time
	output    io.Writer
	total     int
	completed int
	failed    int
	last      string
	mu        sync.Mutex
	enabled   bool
}

// NewProgress creates a progress tracker writing to stderr.
func NewProgress(total int, enabled bool) *Progress {
	return &Progress{
		total:     total,
		startTime: time.Now(),
		output:    os.Stderr,
		enabled:   enabled,
	}
}

// Callback returns a ProgressFunc suitable for use with Pool.Config.
func (p *Progress) Callback() ProgressFunc {
	return p.Update
}

// Track records the material that finished last; it is shown next to the bar.
func (p *Progress) Track(r Result) {
	p.mu.Lock()
	p.last = r.Task.Material
	p.mu.Unlock()
}

// Update records the completion of a task.
func (p *Progress) Update(completed, total, failed int) {
	p.mu.Lock()
	p.completed = completed
	p.total = total
	p.failed = failed
	p.mu.Unlock()

	if p.enabled {
		p.Print()
	}
}

// Print writes the current progress line.
func (p *Progress) Print() {
	p.mu.Lock()
	completed, total, failed, last := p.completed, p.total, p.failed, p.last
	elapsed := time.Since(p.startTime)
	p.mu.Unlock()

	filled := 0
	if total > 0 {
		filled = min(completed*barWidth/total, barWidth)
	}
	bar := strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled)

	line := fmt.Sprintf("\r[%s] %d/%d materials", bar, completed, total)
	if failed > 0 {
		line += fmt.Sprintf(" (%d failed)", failed)
	}
	if completed == total {
		line += " - done in " + formatDuration(elapsed)
	} else if last != "" {
		line += " - " + last
	}

	// Pad to clear previous line content
	fmt.Fprint(p.output, line+"          ")
}

// Done prints the final progress and a newline.
func (p *Progress) Done() {
	if p.enabled {
		p.Print()
		fmt.Fprintln(p.output)
	}
}

// Summary returns a summary string of the completed work.
func (p *Progress) Summary() string {
	p.mu.Lock()
	completed, total, failed := p.completed, p.total, p.failed
	elapsed := time.Since(p.startTime)
	p.mu.Unlock()

	return fmt.Sprintf("Generated %d/%d materials (%d failed) in %s",
		completed-failed, total, failed, formatDuration(elapsed))
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
}
