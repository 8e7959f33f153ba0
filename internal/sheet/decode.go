// Package sheet holds the file-facing half of the system: decoding uploads
// into tables, translating table indices to native row numbers, and the
// format-preserving row removal that produces the cleaned file.
package sheet

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"sheetsweep/internal/table"
)

// DecodeOptions tune how an upload becomes a Table.
type DecodeOptions struct {
	// HeaderRows is the size of the header block; zero means
	// DefaultHeaderRows. Column names come from the first row.
	HeaderRows int

	// RequiredColumns must all be present (compared after normalization)
	// or decoding fails. Empty disables the check.
	RequiredColumns []string
}

// Decode parses uploaded file content into a Table, dispatching on the
// filename's extension. Workbook formats go through the style-aware codec;
// CSV gets its own reader with legacy-encoding fallback. No partial table is
// ever returned: any validation failure surfaces as an error with nil table.
func Decode(filename string, data []byte, opts DecodeOptions) (*table.Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return decodeWorkbook(data, opts)
	case ".csv":
		return decodeCSV(data, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExtension, filepath.Ext(filename))
	}
}

func decodeWorkbook(data []byte, opts DecodeOptions) (*table.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}

	// Raw values, not rendered number formats: a cell holding 1500 must
	// match the term "1500" regardless of its display format
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return buildTable(rows, opts)
}

// buildTable turns raw string records into a Table: the first record is the
// header, the remaining header block is skipped, and every data record is
// padded to the widest row so each row carries one cell per column.
func buildTable(records [][]string, opts DecodeOptions) (*table.Table, error) {
	headerRows := opts.HeaderRows
	if headerRows <= 0 {
		headerRows = DefaultHeaderRows
	}

	if len(records) == 0 {
		return nil, ErrEmptyWorkbook
	}
	if len(records) < headerRows {
		return nil, ErrMissingHeader
	}

	header := records[0]
	data := records[headerRows:]

	width := len(header)
	for _, rec := range data {
		if len(rec) > width {
			width = len(rec)
		}
	}

	columns := make([]string, width)
	named := false
	for i := 0; i < width; i++ {
		name := ""
		if i < len(header) {
			name = strings.TrimSpace(header[i])
		}
		if name == "" {
			name = fmt.Sprintf("Column %d", i+1)
		} else {
			named = true
		}
		columns[i] = name
	}
	if !named {
		return nil, ErrMissingHeader
	}

	rows := make([][]any, len(data))
	for i, rec := range data {
		row := make([]any, width)
		for j := range rec {
			row[j] = table.ParseValue(rec[j])
		}
		rows[i] = row
	}

	tbl, err := table.New(columns, rows)
	if err != nil {
		return nil, err
	}
	if missing := missingColumns(tbl, opts.RequiredColumns); len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}
	return tbl, nil
}

func missingColumns(tbl *table.Table, required []string) []string {
	var missing []string
	for _, name := range required {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if !tbl.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}
