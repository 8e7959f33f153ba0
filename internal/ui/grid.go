package ui

import (
	"fmt"
	"strings"
)

// DefaultMaxColWidth bounds one column of terminal grid output.
const DefaultMaxColWidth = 24

// RenderGrid lays out rows under a header as a fixed-width text table with a
// dashed rule below the header. Cells longer than maxColWidth are truncated
// with an ellipsis; zero or negative maxColWidth means DefaultMaxColWidth.
// Short rows are padded, so callers may pass ragged input.
func RenderGrid(header []string, rows [][]string, maxColWidth int) string {
	if maxColWidth <= 0 {
		maxColWidth = DefaultMaxColWidth
	}
	if len(header) == 0 {
		return ""
	}

	widths := make([]int, len(header))
	for j, name := range header {
		widths[j] = len(truncateCell(name, maxColWidth))
	}
	for _, row := range rows {
		for j, cell := range row {
			if j >= len(widths) {
				break
			}
			if w := len(truncateCell(cell, maxColWidth)); w > widths[j] {
				widths[j] = w
			}
		}
	}

	var sb strings.Builder
	writeGridRow(&sb, header, widths, maxColWidth)

	ruleWidth := len(widths) - 1 // one space between columns
	for _, w := range widths {
		ruleWidth += w
	}
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteByte('\n')

	for _, row := range rows {
		writeGridRow(&sb, row, widths, maxColWidth)
	}
	return sb.String()
}

func writeGridRow(sb *strings.Builder, cells []string, widths []int, maxColWidth int) {
	for j, w := range widths {
		cell := ""
		if j < len(cells) {
			cell = truncateCell(cells[j], maxColWidth)
		}
		if j == len(widths)-1 {
			// Last column keeps the line trim
			sb.WriteString(cell)
			continue
		}
		fmt.Fprintf(sb, "%-*s ", w, cell)
	}
	sb.WriteByte('\n')
}

func truncateCell(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
