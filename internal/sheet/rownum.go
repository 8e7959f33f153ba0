package sheet

// DefaultHeaderRows is the header convention used throughout: one header row,
// so table index 0 lives at sheet row 2.
const DefaultHeaderRows = 1

// SheetRow converts a zero-based table index to the 1-based row number in
// the source file's native numbering. Pure arithmetic, total over integers;
// range checking happens in RemoveRows, not here.
func SheetRow(tableIndex, headerRows int) int {
	return tableIndex + 1 + headerRows
}

// TableIndex is the exact inverse of SheetRow.
func TableIndex(sheetRow, headerRows int) int {
	return sheetRow - 1 - headerRows
}

// SheetRows maps every table index through SheetRow, preserving order.
func SheetRows(indices []int, headerRows int) []int {
	out := make([]int, len(indices))
	for i, idx := range indices {
		out[i] = SheetRow(idx, headerRows)
	}
	return out
}
