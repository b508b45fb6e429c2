package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ghtopdep/ghtopdep/pkg/scrape"
)

// destinationWord names what was scraped, for the summary lines.
func destinationWord(packages bool) string {
	if packages {
		return "packages"
	}
	return "repositories"
}

// writeJSON dumps the entries as a JSON array.
func writeJSON(w io.Writer, entries []scrape.Entry) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(entries)
}

// writeTable renders the ranked entries as a markdown-style table.
func writeTable(w io.Writer, entries []scrape.Entry, packages, withDesc bool) {
	if len(entries) > 0 {
		headers := []string{"URL", "Stars"}
		if withDesc {
			headers = append(headers, "Description")
		}

		t := table.New().
			Border(lipgloss.MarkdownBorder()).
			BorderTop(false).
			BorderBottom(false).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return styleTableHeader.Padding(0, 1)
				}
				return lipgloss.NewStyle().Padding(0, 1)
			}).
			Headers(headers...)

		for _, e := range entries {
			row := []string{e.URL, scrape.Humanize(e.Stars)}
			if withDesc {
				row = append(row, e.Description)
			}
			t.Row(row...)
		}
		fmt.Fprintln(w, t.Render())
	} else {
		fmt.Fprintf(w, "Doesn't find any %s that match search request\n", destinationWord(packages))
	}
}

// writeSummary prints the scrape counters below the table.
func writeSummary(w io.Writer, res *scrape.Result, packages bool) {
	dest := destinationWord(packages)
	fmt.Fprintf(w, "found %d %s, others are private\n", res.TotalSeen, dest)
	fmt.Fprintf(w, "found %d %s with more than zero star\n", res.NonzeroSeen, dest)
}
