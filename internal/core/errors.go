package core

import (
	"errors"
	"fmt"

	"github.com/cmcgovern/handy-scripts/internal/column"
)

// ErrInvalidHeader indicates a header cell that cannot name a field.
var ErrInvalidHeader = errors.New("invalid header")

// ErrUnknownColumn indicates a data cell in a column with no header.
var ErrUnknownColumn = errors.New("unknown column")

// ErrDuplicateCell indicates a data row holding two cells for one column.
var ErrDuplicateCell = errors.New("duplicate cell")

// ErrInvalidTable indicates a worksheet whose name cannot name a table.
var ErrInvalidTable = errors.New("invalid worksheet name")

// ErrDuplicateTable indicates two worksheets whose names map to one table.
var ErrDuplicateTable = errors.New("duplicate table name")

// ErrFileTooLarge is returned when an uploaded workbook exceeds the size limit.
var ErrFileTooLarge = errors.New("file too large")

// ErrNoFile is returned when an upload request carries no workbook.
var ErrNoFile = errors.New("no file provided")

// ErrEmptyWorkbook is returned for workbooks without worksheets.
var ErrEmptyWorkbook = errors.New("empty workbook")

// ErrInvalidWorkbook is returned when a file cannot be read as xlsx.
var ErrInvalidWorkbook = errors.New("invalid workbook")

// HeaderError describes a header cell that could not be registered.
type HeaderError struct {
	Column column.Label
	Value  string
	Err    error
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("header cell %s%d (%q): %v", e.Column, HeaderRow, e.Value, e.Err)
}

func (e *HeaderError) Unwrap() error {
	return e.Err
}

// ProjectionError describes a data cell that could not be projected.
type ProjectionError struct {
	Row    int
	Column column.Label
	Err    error
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("cell %s%d: %v", e.Column, e.Row, e.Err)
}

func (e *ProjectionError) Unwrap() error {
	return e.Err
}

// SheetError wraps a failure that stopped a whole worksheet.
type SheetError struct {
	Sheet string
	Err   error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("worksheet %q: %v", e.Sheet, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}
