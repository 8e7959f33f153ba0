package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"sheetsweep/internal/table"
)

// decodeCSV parses a CSV upload into a Table with the same header and
// padding rules as the workbook path.
func decodeCSV(data []byte, opts DecodeOptions) (*table.Table, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return buildTable(records, opts)
}

// decodeText converts raw upload bytes to a string. Valid UTF-8 passes
// through; anything else gets one EUC-KR decode attempt, since legacy
// exports from localized accounting systems still arrive in that encoding.
func decodeText(data []byte) (string, error) {
	if utf8.Valid(data) {
		// Excel prepends a BOM to CSV exports
		return strings.TrimPrefix(string(data), "\uFEFF"), nil
	}

	decoder := korean.EUCKR.NewDecoder()
	decoded, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", fmt.Errorf("decode text encoding: %w", err)
	}
	return string(decoded), nil
}

// RemoveCSVRows is the CSV counterpart of RemoveRows. CSV carries no cell
// formatting, so removal is a re-encode without the requested lines; the
// validation contract is identical to the workbook path.
func RemoveCSVRows(original []byte, sheetRows []int, headerRows int) ([]byte, error) {
	if headerRows <= 0 {
		headerRows = DefaultHeaderRows
	}

	text, err := decodeText(original)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	lastRow := len(records)
	drop := make(map[int]struct{}, len(sheetRows))
	for _, n := range sheetRows {
		drop[n] = struct{}{}
	}
	if bad := outOfRange(drop, headerRows, lastRow); len(bad) > 0 {
		return nil, &RowRangeError{Rows: bad, Min: headerRows + 1, Max: lastRow}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for i, rec := range records {
		if _, skip := drop[i+1]; skip {
			continue
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("encode csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("encode csv: %w", err)
	}
	return buf.Bytes(), nil
}
