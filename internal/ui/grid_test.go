package ui

import (
	"strings"
	"testing"
)

func TestRenderGridAlignsColumns(t *testing.T) {
	out := RenderGrid(
		[]string{"Sheet Row", "Account", "Amount"},
		[][]string{
			{"2", "A-100", "1200"},
			{"3", "A-1", "80"},
		},
		0,
	)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("Grid has %d lines, expected header + rule + 2 rows:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "Sheet Row Account") {
		t.Errorf("Header line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "---") {
		t.Errorf("Rule line = %q", lines[1])
	}

	// Every row's second column starts at the same offset
	offset := strings.Index(lines[0], "Account")
	if strings.Index(lines[2], "A-100") != offset || strings.Index(lines[3], "A-1") != offset {
		t.Errorf("Columns are not aligned:\n%s", out)
	}
}

func TestRenderGridTruncatesLongCells(t *testing.T) {
	long := strings.Repeat("x", 100)
	out := RenderGrid([]string{"Narration"}, [][]string{{long}}, 10)

	if strings.Contains(out, long) {
		t.Error("Expected long cell to be truncated")
	}
	if !strings.Contains(out, "xxxxxxx...") {
		t.Errorf("Expected ellipsis truncation, got:\n%s", out)
	}
}

func TestRenderGridPadsRaggedRows(t *testing.T) {
	out := RenderGrid(
		[]string{"A", "B", "C"},
		[][]string{
			{"1"},
			{"1", "2", "3", "ignored extra"},
		},
		0,
	)
	if strings.Contains(out, "ignored extra") {
		t.Errorf("Cells past the header width must be dropped:\n%s", out)
	}
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			t.Errorf("Grid emitted a blank line:\n%s", out)
		}
	}
}

func TestRenderGridEmptyHeader(t *testing.T) {
	if out := RenderGrid(nil, [][]string{{"orphan"}}, 0); out != "" {
		t.Errorf("RenderGrid(nil header) = %q, expected empty", out)
	}
}
