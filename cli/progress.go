package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/grovetools/kakapo/pkg/sounds"
	"github.com/grovetools/kakapo/pkg/view"
)

// ProgressReporter redraws the download list in place while sounds download.
type ProgressReporter struct {
	mu    sync.Mutex
	out   io.Writer
	width int
	start time.Time
	// Redraw clears the screen before each frame. Off for non-terminals.
	Redraw bool
}

// NewProgressReporter creates a reporter rendering width columns wide.
func NewProgressReporter(out io.Writer, width int) *ProgressReporter {
	return &ProgressReporter{
		out:   out,
		width: width,
		start: time.Now(),
	}
}

// Update renders the downloads of snap. It reports whether any sound is
// still downloading.
func (p *ProgressReporter) Update(snap sounds.Snapshot) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Redraw {
		fmt.Fprint(p.out, "\033[H\033[2J")
	}
	elapsed := time.Since(p.start).Round(time.Second)
	fmt.Fprintf(p.out, "Downloads [%s]\n\n", elapsed)

	list := view.DownloadList(snap)
	fmt.Fprintln(p.out, view.Render(list, p.width))
	return len(list.Children) > 0
}

// Done prints the total time spent.
func (p *ProgressReporter) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.start).Round(time.Millisecond)
	fmt.Fprintf(p.out, "\nAll downloads finished in %s\n", elapsed)
}
