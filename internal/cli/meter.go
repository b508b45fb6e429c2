package cli

import (
	"fmt"
	"io"
	"strings"
)

const meterWidth = 30

// meter draws a single-line progress bar on w, redrawing in place.
// Total may be an estimate; seen values beyond it clamp to full.
type meter struct {
	w     io.Writer
	total int
	drawn bool
}

func newMeter(w io.Writer, total int) *meter {
	return &meter{w: w, total: total}
}

// update redraws the bar for the given number of dependents seen.
func (m *meter) update(seen int) {
	if m.w == nil || m.total <= 0 {
		return
	}
	if seen > m.total {
		seen = m.total
	}
	filled := seen * meterWidth / m.total
	bar := strings.Repeat("█", filled) + strings.Repeat("░", meterWidth-filled)
	fmt.Fprintf(m.w, "\r[%s] %d/%d", bar, seen, m.total)
	m.drawn = true
}

// finish terminates the bar line so later output starts clean.
func (m *meter) finish() {
	if m.drawn {
		fmt.Fprintln(m.w)
	}
}
