package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Table writes rows as left-aligned columns padded to their display width,
// so titles with emoji or CJK text still line up.
func Table(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if sw := runewidth.StringWidth(row[i]); sw > widths[i] {
				widths[i] = sw
			}
		}
	}

	writeRow(w, headers, widths)
	rule := make([]string, len(headers))
	for i, n := range widths {
		rule[i] = strings.Repeat("─", n)
	}
	writeRow(w, rule, widths)
	for _, row := range rows {
		writeRow(w, row, widths)
	}
}

func writeRow(w io.Writer, cells []string, widths []int) {
	var b strings.Builder
	for i := range widths {
		c := ""
		if i < len(cells) {
			c = cells[i]
		}
		if i == len(widths)-1 {
			b.WriteString(c)
			break
		}
		b.WriteString(padRight(c, widths[i]))
		b.WriteString("  ")
	}
	fmt.Fprintln(w, strings.TrimRight(b.String(), " ")) //nolint:errcheck
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

// Truncate shortens s to at most width display columns, ending in "…" when cut.
func Truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
