package sheet

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
)

// RemoveRows deletes the given 1-based row numbers from the first sheet of
// the workbook and returns the bytes of a complete new file. The original
// slice is never modified and nothing is written on failure.
//
// Deletion runs bottom-up: row numbers are sorted descending first, because
// each removal shifts every row below it up by one, and only the descending
// order keeps the not-yet-processed numbers pointing at the right physical
// rows. Cell formatting on retained rows moves with them untouched; a
// deleted row takes its formatting along.
//
// Every requested number must sit below the header block and within the
// file. Any violation aborts the whole operation with a RowRangeError
// listing the offending numbers.
func RemoveRows(ctx context.Context, original []byte, sheetRows []int, headerRows int) ([]byte, error) {
	if headerRows <= 0 {
		headerRows = DefaultHeaderRows
	}

	f, err := excelize.OpenReader(bytes.NewReader(original))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	lastRow := len(rows)

	targets := make(map[int]struct{}, len(sheetRows))
	for _, n := range sheetRows {
		targets[n] = struct{}{}
	}
	if bad := outOfRange(targets, headerRows, lastRow); len(bad) > 0 {
		return nil, &RowRangeError{Rows: bad, Min: headerRows + 1, Max: lastRow}
	}

	for _, r := range descending(targets) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if err := f.RemoveRow(sheet, r); err != nil {
			return nil, fmt.Errorf("remove row %d: %w", r, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// outOfRange returns, ascending, every requested row that is not a deletable
// data row: header rows and anything past the end of the file are refused.
func outOfRange(targets map[int]struct{}, headerRows, lastRow int) []int {
	var bad []int
	for n := range targets {
		if n <= headerRows || n > lastRow {
			bad = append(bad, n)
		}
	}
	sort.Ints(bad)
	return bad
}

func descending(targets map[int]struct{}) []int {
	out := make([]int, 0, len(targets))
	for n := range targets {
		out = append(out, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
