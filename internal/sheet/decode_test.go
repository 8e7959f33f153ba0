package sheet

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"sheetsweep/internal/table"
)

func buildWorkbookBytes(t *testing.T, records [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, rec := range records {
		for j, v := range rec {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("Failed to build cell name: %v", err)
			}
			if err := f.SetCellValue("Sheet1", cell, v); err != nil {
				t.Fatalf("Failed to set cell %s: %v", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("Failed to serialize workbook: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeWorkbook(t *testing.T) {
	data := buildWorkbookBytes(t, [][]any{
		{"Account", "Narration", "Amount"},
		{"A-100", "INV-2023 office rent", 1200},
		{"A-101", nil, 12.5},
	})

	tbl, err := Decode("ledger.xlsx", data, DecodeOptions{})
	if err != nil {
		t.Fatalf("Failed to decode workbook: %v", err)
	}

	expectedCols := []string{"Account", "Narration", "Amount"}
	if !reflect.DeepEqual(tbl.Columns(), expectedCols) {
		t.Errorf("Columns() = %v, expected %v", tbl.Columns(), expectedCols)
	}
	if tbl.RowCount() != 2 {
		t.Fatalf("RowCount() = %d, expected 2", tbl.RowCount())
	}

	row, _ := tbl.Row(0)
	if row[2] != int64(1200) {
		t.Errorf("Row(0)[2] = %v (%T), expected int64 1200", row[2], row[2])
	}

	row, _ = tbl.Row(1)
	if row[1] != nil {
		t.Errorf("Row(1)[1] = %v, expected nil for an empty cell", row[1])
	}
	if table.Display(row[1]) != "" {
		t.Errorf("Display of empty cell = %q, expected \"\"", table.Display(row[1]))
	}
	if row[2] != float64(12.5) {
		t.Errorf("Row(1)[2] = %v (%T), expected float64 12.5", row[2], row[2])
	}
}

func TestDecodeUnsupportedExtension(t *testing.T) {
	_, err := Decode("report.pdf", []byte("%PDF-1.4"), DecodeOptions{})
	if !errors.Is(err, ErrUnsupportedExtension) {
		t.Errorf("Decode(.pdf) error = %v, expected ErrUnsupportedExtension", err)
	}
}

func TestDecodeCorruptWorkbook(t *testing.T) {
	_, err := Decode("broken.xlsx", []byte("this is not a workbook"), DecodeOptions{})
	if err == nil {
		t.Fatal("Expected error for corrupt workbook content but got nil")
	}
}

func TestDecodeRequiredColumns(t *testing.T) {
	data := []byte("Account,Narration\nA-100,rent\n")

	_, err := Decode("ledger.csv", data, DecodeOptions{
		RequiredColumns: []string{"account", "narration", "description"},
	})

	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("Decode error = %v, expected MissingColumnsError", err)
	}
	expected := []string{"description"}
	if !reflect.DeepEqual(missing.Columns, expected) {
		t.Errorf("Missing columns = %v, expected %v", missing.Columns, expected)
	}
}

func TestDecodeRequiredColumnsNormalized(t *testing.T) {
	data := []byte("  Account ,Opening Balance\nA-100,20\n")

	_, err := Decode("ledger.csv", data, DecodeOptions{
		RequiredColumns: []string{"account", "opening_balance"},
	})
	if err != nil {
		t.Errorf("Decode with normalized required columns failed: %v", err)
	}
}

func TestDecodeCSV(t *testing.T) {
	data := []byte("Account,Amount\nA-100,1500\nA-101,notes\n")

	tbl, err := Decode("ledger.csv", data, DecodeOptions{})
	if err != nil {
		t.Fatalf("Failed to decode csv: %v", err)
	}
	if tbl.RowCount() != 2 {
		t.Fatalf("RowCount() = %d, expected 2", tbl.RowCount())
	}

	row, _ := tbl.Row(0)
	if row[1] != int64(1500) {
		t.Errorf("Row(0)[1] = %v (%T), expected int64 1500", row[1], row[1])
	}
}

func TestDecodeCSVStripsBOM(t *testing.T) {
	data := []byte("\uFEFFAccount,Amount\nA-100,10\n")

	tbl, err := Decode("ledger.csv", data, DecodeOptions{})
	if err != nil {
		t.Fatalf("Failed to decode csv with BOM: %v", err)
	}
	if tbl.Columns()[0] != "Account" {
		t.Errorf("First column = %q, expected Account without BOM", tbl.Columns()[0])
	}
}

func TestDecodeCSVEUCKRFallback(t *testing.T) {
	// Encode a Korean header the way a legacy export would
	encoder := korean.EUCKR.NewEncoder()
	raw, _, err := transform.Bytes(encoder, []byte("계정,금액\nA-100,10\n"))
	if err != nil {
		t.Fatalf("Failed to build EUC-KR fixture: %v", err)
	}

	tbl, err := Decode("legacy.csv", raw, DecodeOptions{})
	if err != nil {
		t.Fatalf("Failed to decode EUC-KR csv: %v", err)
	}
	if tbl.Columns()[0] != "계정" {
		t.Errorf("First column = %q, expected 계정", tbl.Columns()[0])
	}
}

func TestDecodeRaggedCSVPadded(t *testing.T) {
	data := []byte("Account,Amount\nA-100\nA-101,2,extra\n")

	tbl, err := Decode("ledger.csv", data, DecodeOptions{})
	if err != nil {
		t.Fatalf("Failed to decode ragged csv: %v", err)
	}

	expectedCols := []string{"Account", "Amount", "Column 3"}
	if !reflect.DeepEqual(tbl.Columns(), expectedCols) {
		t.Errorf("Columns() = %v, expected %v", tbl.Columns(), expectedCols)
	}

	if got := tbl.RowContent(0); got != "A-100  " {
		t.Errorf("RowContent(0) = %q, expected padded cells", got)
	}
	if got := tbl.RowContent(1); got != "A-101 2 extra" {
		t.Errorf("RowContent(1) = %q, expected %q", got, "A-101 2 extra")
	}
}

func TestDecodeEmptyContent(t *testing.T) {
	_, err := Decode("empty.csv", nil, DecodeOptions{})
	if !errors.Is(err, ErrEmptyWorkbook) {
		t.Errorf("Decode(empty csv) error = %v, expected ErrEmptyWorkbook", err)
	}
}

func TestDecodeHeaderOnlyYieldsEmptyTable(t *testing.T) {
	data := []byte("Account,Amount\n")

	tbl, err := Decode("ledger.csv", data, DecodeOptions{})
	if err != nil {
		t.Fatalf("Failed to decode header-only csv: %v", err)
	}
	if tbl.RowCount() != 0 {
		t.Errorf("RowCount() = %d, expected 0", tbl.RowCount())
	}
}

func TestDecodeBlankHeaderRejected(t *testing.T) {
	data := []byte(",,\nA,B,C\n")

	_, err := Decode("ledger.csv", data, DecodeOptions{})
	if !errors.Is(err, ErrMissingHeader) {
		t.Errorf("Decode(blank header) error = %v, expected ErrMissingHeader", err)
	}
}

func TestDecodeHonorsHeaderRows(t *testing.T) {
	var data []byte
	data = append(data, []byte("Account,Amount\n")...)
	data = append(data, []byte("units,USD\n")...) // second header row, skipped
	data = append(data, []byte(fmt.Sprintf("A-%d,%d\n", 100, 10))...)

	tbl, err := Decode("ledger.csv", data, DecodeOptions{HeaderRows: 2})
	if err != nil {
		t.Fatalf("Failed to decode with two header rows: %v", err)
	}
	if tbl.RowCount() != 1 {
		t.Fatalf("RowCount() = %d, expected 1", tbl.RowCount())
	}
	if got := tbl.RowContent(0); got != "A-100 10" {
		t.Errorf("RowContent(0) = %q, expected %q", got, "A-100 10")
	}
}
