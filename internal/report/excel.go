package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"sheetsweep/internal/config"
)

// ExcelWriter handles the Excel audit generation
type ExcelWriter struct {
	// Stateless
}

// NewExcelWriter creates a new ExcelWriter
func NewExcelWriter() *ExcelWriter {
	return &ExcelWriter{}
}

// Write generates the Excel audit workbook
func (e *ExcelWriter) Write(audit *Audit, cfg *config.Config) error {
	outputFile := cfg.OutputPath(auditFileName(audit.SourceFile, ".xlsx"))
	f := excelize.NewFile()
	styler, err := NewStyler(f)
	if err != nil {
		return err
	}

	// 1. Create Overview Sheet
	if err := e.writeOverview(f, styler, audit); err != nil {
		return err
	}

	// 2. Create Removed Rows Sheet
	if err := e.writeRemoved(f, styler, audit); err != nil {
		return err
	}

	// Remove default "Sheet1"
	if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx != -1 {
		f.DeleteSheet("Sheet1")
	}

	// Save
	if err := f.SaveAs(outputFile); err != nil {
		return err
	}

	return nil
}

// --- Overview Sheet Logic ---

func (e *ExcelWriter) writeOverview(f *excelize.File, s *Styler, audit *Audit) error {
	sheet := "Overview"
	f.NewSheet(sheet)

	headers := []string{"Metric", "Value"}

	row := 1
	e.writeRow(f, sheet, row, headers, s.HeaderStyle)
	row++

	metrics := []struct {
		Key string
		Val any
	}{
		{"Source File", audit.SourceFile},
		{"Cleanup Date", audit.CleanupDate},
		{"Search Terms", strings.Join(audit.SearchTerms, ", ")},
		{"Rows Before", audit.RowsBefore},
		{"Rows After", audit.RowsAfter},
		{"Rows Removed", len(audit.Removed)},
	}

	for _, m := range metrics {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m.Key)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), m.Val)
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), s.LabelStyle)
		f.SetCellStyle(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("B%d", row), s.DefaultStyle)
		row++
	}

	// Adjust column widths
	f.SetColWidth(sheet, "A", "A", 20)
	f.SetColWidth(sheet, "B", "B", 50)

	return nil
}

// --- Removed Rows Sheet Logic ---

func (e *ExcelWriter) writeRemoved(f *excelize.File, s *Styler, audit *Audit) error {
	sheet := "Removed Rows"
	f.NewSheet(sheet)

	headers := append([]string{"No", "Sheet Row", "Reason"}, audit.Columns...)
	e.writeRow(f, sheet, 1, headers, s.HeaderStyle)

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	row := 2
	for i, removed := range audit.Removed {
		style := s.MatchStyle
		if removed.Reason == ReasonTotal {
			style = s.TotalStyle
		}

		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), removed.SheetRow)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), removed.Reason)

		for j, cell := range removed.Cells {
			name, err := excelize.CoordinatesToCellName(j+4, row)
			if err != nil {
				return err
			}
			f.SetCellValue(sheet, name, cell)
		}

		last, err := excelize.ColumnNumberToName(3 + len(audit.Columns))
		if err != nil {
			return err
		}
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", last, row), style)
		row++
	}

	// Auto width
	if len(audit.Columns) > 0 {
		first, err := excelize.ColumnNumberToName(4)
		if err != nil {
			return err
		}
		last, err := excelize.ColumnNumberToName(3 + len(audit.Columns))
		if err != nil {
			return err
		}
		f.SetColWidth(sheet, first, last, 25)
	}
	f.SetColWidth(sheet, "B", "C", 12)

	return nil
}

func (e *ExcelWriter) writeRow(f *excelize.File, sheet string, row int, values []string, style int) {
	for i, val := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, val)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}
