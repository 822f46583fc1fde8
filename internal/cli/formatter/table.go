package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

// RenderTable renders an aligned table with a header separator line.
// Headers use the Header style. Column widths come from the widest cell,
// measured by visible width so styled cells don't skew the layout.
// Columns whose cells are all dollar or percentage figures are
// right-aligned, which keeps fee tables readable.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	cols := len(headers)

	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	rightAlign := make([]bool, cols)
	for i := 0; i < cols; i++ {
		rightAlign[i] = numericColumn(rows, i)
	}

	var b strings.Builder

	for i, h := range headers {
		writeCell(&b, StyleHeader.Render(h), lipgloss.Width(h), widths[i], rightAlign[i], i == cols-1)
	}
	b.WriteString("\n")

	for i, w := range widths {
		writeCell(&b, StyleDim.Render(strings.Repeat("─", w)), w, w, false, i == cols-1)
	}
	b.WriteString("\n")

	for _, row := range rows {
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			writeCell(&b, cell, lipgloss.Width(cell), widths[i], rightAlign[i], i == cols-1)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeCell(b *strings.Builder, cell string, visible, width int, right, last bool) {
	pad := width - visible
	if pad < 0 {
		pad = 0
	}
	if right {
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(cell)
		if !last {
			b.WriteString(strings.Repeat(" ", colGap))
		}
		return
	}
	b.WriteString(cell)
	if !last {
		b.WriteString(strings.Repeat(" ", pad+colGap))
	}
}

// numericColumn reports whether every non-empty cell in the column reads
// as a number, dollar amount or percentage once styling is ignored.
func numericColumn(rows [][]string, col int) bool {
	seen := false
	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		cell := stripANSI(row[col])
		if cell == "" {
			continue
		}
		seen = true
		for _, r := range cell {
			switch {
			case r >= '0' && r <= '9':
			case r == '$' || r == '%' || r == ',' || r == '.' || r == '-':
			default:
				return false
			}
		}
	}
	return seen
}

func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
