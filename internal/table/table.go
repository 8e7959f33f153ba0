package table

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoColumns is returned when a table is constructed without a header row.
var ErrNoColumns = errors.New("table has no columns")

// Table is an immutable snapshot of one spreadsheet's data region: the header
// row as column names plus every data row in file order. Row indices are
// zero-based positions into this snapshot and stay valid for the whole
// session, because deletion is deferred until export and never touches the
// loaded table.
type Table struct {
	columns []string
	rows    [][]any
}

// New builds a Table from a header and data rows. Every row must carry
// exactly one cell per column; sparse spreadsheet rows are expected to be
// padded by the decoder before they reach here.
func New(columns []string, rows [][]any) (*Table, error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}

	t := &Table{
		columns: append([]string(nil), columns...),
		rows:    make([][]any, len(rows)),
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(columns))
		}
		t.rows[i] = append([]any(nil), row...)
	}
	return t, nil
}

// Columns returns the column names in file order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.rows)
}

// Row returns the cells of the row at the given table index. The returned
// slice is shared with the table; callers must not modify it.
func (t *Table) Row(i int) ([]any, bool) {
	if i < 0 || i >= len(t.rows) {
		return nil, false
	}
	return t.rows[i], true
}

// RowContent returns every cell of the row coerced to display text and
// joined with single spaces. Out-of-range indices yield "".
func (t *Table) RowContent(i int) string {
	row, ok := t.Row(i)
	if !ok {
		return ""
	}
	parts := make([]string, len(row))
	for j, v := range row {
		parts[j] = Display(v)
	}
	return strings.Join(parts, " ")
}

// Records returns up to limit rows as column-keyed maps, for preview
// payloads. A negative limit returns all rows.
func (t *Table) Records(limit int) []map[string]any {
	n := len(t.rows)
	if limit >= 0 && limit < n {
		n = limit
	}
	records := make([]map[string]any, n)
	for i := 0; i < n; i++ {
		rec := make(map[string]any, len(t.columns))
		for j, name := range t.columns {
			v := t.rows[i][j]
			if v == nil {
				// Empty cells surface as "" so consumers never see nulls
				v = ""
			}
			rec[name] = v
		}
		records[i] = rec
	}
	return records
}

// HasColumn reports whether the table carries the named column, compared
// after normalization on both sides.
func (t *Table) HasColumn(name string) bool {
	want := NormalizeColumn(name)
	for _, col := range t.columns {
		if NormalizeColumn(col) == want {
			return true
		}
	}
	return false
}

// Display coerces a cell value to its display text: numbers render as
// decimal text, empty cells as "".
func Display(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// ParseValue interprets a raw cell string as a typed value: int64 first,
// then float64, otherwise the string itself. Empty input stays nil.
func ParseValue(s string) any {
	if s == "" {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// NormalizeColumn canonicalizes a column name for comparisons: trimmed,
// lowercased, with spaces and hyphens collapsed to underscores.
func NormalizeColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")
	return name
}
