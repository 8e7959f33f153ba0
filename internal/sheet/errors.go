package sheet

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedExtension indicates the upload's file extension has no codec.
var ErrUnsupportedExtension = errors.New("unsupported file extension")

// ErrEmptyWorkbook indicates the file decoded but carries no content at all.
var ErrEmptyWorkbook = errors.New("workbook has no content")

// ErrMissingHeader indicates the file has no usable header row.
var ErrMissingHeader = errors.New("missing header row")

// RowRangeError reports row numbers that fall outside the file's deletable
// range. The whole removal is refused; Rows lists every offending number.
type RowRangeError struct {
	Rows []int // offending 1-based row numbers, ascending
	Min  int   // first deletable row (the row just below the header block)
	Max  int   // last row present in the file
}

func (e *RowRangeError) Error() string {
	return fmt.Sprintf("row numbers outside deletable range %d-%d: %v", e.Min, e.Max, e.Rows)
}

// MissingColumnsError reports configured required columns absent from an
// uploaded file's header.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}
