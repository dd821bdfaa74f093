package canonical

import (
	"errors"
	"fmt"
)

// Read errors: the byte stream could not become a grid at all.
var (
	ErrUnreadableFile = errors.New("file cannot be parsed as the declared format")
	ErrEmptyFile      = errors.New("file contains no rows")
)

// ExtractionError is a fatal, row/column-addressable failure raised while
// driving an adapter over a grid. Code is one of the Err* constants below.
type ExtractionError struct {
	Code   string
	Column string
	Row    int // 1-based spreadsheet row, 0 when not applicable
	Col    int // 1-based spreadsheet column, 0 when not applicable
}

const (
	ErrCodeMissingColumn   = "MISSING_COLUMN"
	ErrCodeUnparseableCell = "UNPARSEABLE_CELL"
	ErrCodeNoLineItems     = "NO_LINE_ITEMS"
)

func (e *ExtractionError) Error() string {
	switch e.Code {
	case ErrCodeMissingColumn:
		return fmt.Sprintf("required column %q not found", e.Column)
	case ErrCodeUnparseableCell:
		return fmt.Sprintf("cell at row %d, column %d could not be parsed as %s", e.Row, e.Col, e.Column)
	case ErrCodeNoLineItems:
		return "no line items found in file"
	}
	return e.Code
}

func MissingColumn(name string) *ExtractionError {
	return &ExtractionError{Code: ErrCodeMissingColumn, Column: name}
}

// UnparseableCell reports a typed-cell coercion failure. wantType names the
// declared expected type ("numeric", "date", "string").
func UnparseableCell(row, col int, wantType string) *ExtractionError {
	return &ExtractionError{Code: ErrCodeUnparseableCell, Row: row, Col: col, Column: wantType}
}

func NoLineItems() *ExtractionError {
	return &ExtractionError{Code: ErrCodeNoLineItems}
}

// ValidationError is raised when a canonical PO violates a structural
// invariant, either out of an adapter or on a user-edited commit payload.
type ValidationError struct {
	Field   string
	Line    int // 0 for header-level problems
	Message string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s %s", e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}
