package ui

import (
	"io"
	"math"

	"github.com/pterm/pterm"
)

// Progress shows the scheduler's progress as a bar. A disabled Progress
// does nothing, so callers need not check whether output is a terminal.
type Progress struct {
	bar     *pterm.ProgressbarPrinter
	current int
}

// StartProgress starts a bar titled title on w. When enabled is false the
// returned Progress is inert.
func StartProgress(w io.Writer, title string, enabled bool) *Progress {
	if !enabled {
		return &Progress{}
	}
	bar, err := pterm.DefaultProgressbar.
		WithTotal(100).
		WithTitle(title).
		WithWriter(w).
		WithRemoveWhenDone(true).
		Start()
	if err != nil {
		return &Progress{}
	}
	return &Progress{bar: bar}
}

// Update moves the bar to fraction (0 to 1). The bar never moves back.
func (p *Progress) Update(fraction float64) {
	if p.bar == nil {
		return
	}
	target := int(math.Round(math.Max(0, math.Min(1, fraction)) * 100))
	if target > p.current {
		p.bar.Add(target - p.current)
		p.current = target
	}
}

// Stop removes the bar.
func (p *Progress) Stop() {
	if p.bar == nil {
		return
	}
	_, _ = p.bar.Stop()
	p.bar = nil
}
