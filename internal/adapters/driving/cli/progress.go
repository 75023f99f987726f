package cli

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/custodia-labs/docfiler/internal/adapters/driving/cli/styles"
	"github.com/custodia-labs/docfiler/internal/core/domain"
)

// progressPrinter writes batch events as they happen. Per-item start lines
// are only shown on a terminal; outcome lines are always written.
type progressPrinter struct {
	mu          sync.Mutex
	out         io.Writer
	styles      *styles.Styles
	interactive bool
	enabled     bool
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{
		out:         out,
		styles:      styles.NewStyles(out, nil),
		interactive: isTerminal(out),
		enabled:     true,
	}
}

// disable stops output; the service keeps its observers for its lifetime.
func (p *progressPrinter) disable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = false
}

// OnEvent implements driving.ProgressObserver.
func (p *progressPrinter) OnEvent(ev domain.BatchEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return
	}

	s := p.styles
	switch ev.Kind {
	case domain.EventBatchStarted:
		fmt.Fprintln(p.out, s.Title.Render(fmt.Sprintf("Processing %d file(s)", ev.Total)))
	case domain.EventItemStarted:
		if p.interactive {
			fmt.Fprintln(p.out, s.Muted.Render(fmt.Sprintf("[%d/%d] %s", ev.Index, ev.Total, ev.FileName)))
		}
	case domain.EventItemSucceeded:
		line := fmt.Sprintf("✓ %s: %s", ev.FileName, ev.Message)
		if ev.Record != nil {
			line += s.Muted.Render(" → " + ev.Record.PersonFolder)
		}
		fmt.Fprintln(p.out, s.Success.Render(line))
	case domain.EventItemDuplicate:
		line := fmt.Sprintf("⚠ %s: %s", ev.FileName, ev.Message)
		if ev.Record != nil {
			line += fmt.Sprintf(" (%s, %s)", ev.Record.FileName, ev.Record.PersonFolder)
		}
		fmt.Fprintln(p.out, s.Warning.Render(line))
	case domain.EventItemFailed:
		fmt.Fprintln(p.out, s.Error.Render(fmt.Sprintf("✗ %s: %s", ev.FileName, ev.Message)))
	case domain.EventBatchFinished:
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
