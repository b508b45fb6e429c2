package scrape

import (
	"fmt"
	"math"
	"slices"
	"strconv"
)

// SortAndCap returns the entries sorted descending by star count, truncated
// to at most rows. The sort is stable: ties keep their encounter order. A
// rows of 0 yields an empty result; a rows exceeding the set size yields the
// whole set. The input slice is not modified.
func SortAndCap(entries []Entry, rows int) []Entry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		return b.Stars - a.Stars
	})
	if rows < 0 {
		rows = 0
	}
	return sorted[:min(rows, len(sorted))]
}

// Humanize renders a star count for display: values under 1,000 unchanged,
// 1,000–9,999 as one-decimal "K", 10,000–999,999 as whole-number "K", and
// 1,000,000 and above as the plain integer.
//
// The banding is applied to the raw value before rounding, so 9999 renders
// as "10.0K" rather than "10K". That artifact is long-standing observed
// output; keep it.
//
// Display only: humanized values must never feed back into sorting,
// filtering, or deduplication.
func Humanize(n int) string {
	switch {
	case n < 1_000:
		return strconv.Itoa(n)
	case n < 10_000:
		return fmt.Sprintf("%.1fK", math.Round(float64(n)/100)/10)
	case n < 1_000_000:
		return fmt.Sprintf("%.0fK", math.Round(float64(n)/1_000))
	default:
		return strconv.Itoa(n)
	}
}
