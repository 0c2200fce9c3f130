package core

import (
	"time"

	"github.com/cmcgovern/handy-scripts/internal/column"
)

// HeaderRow is the worksheet row whose cells declare the field names.
const HeaderRow = 1

// Cell is one non-blank cell read from a worksheet.
type Cell struct {
	Row    int          // 1-based row number
	Column column.Label // Column label, e.g. "AB"
	Value  string       // Raw cell text
}

// Field is one (name, value) pair of a projected record.
type Field struct {
	Name  string
	Value string
}

// Record is the projection of one data row, ready for insertion.
type Record []Field

// Names returns the field names in record order.
func (r Record) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

// Values returns the field values in record order,
// as the argument list for a parameterized insert.
func (r Record) Values() []any {
	values := make([]any, len(r))
	for i, f := range r {
		values[i] = f.Value
	}
	return values
}

// Sheet is a worksheet as delivered by the worksheet source.
type Sheet struct {
	Name   string
	Header []Cell   // Cells of HeaderRow
	Rows   [][]Cell // Data rows in any order; cells within a row in any order
}

// RowErrorPolicy decides what happens to a worksheet when a data row
// cannot be projected or inserted.
type RowErrorPolicy string

const (
	// RowErrorAbort fails the whole worksheet on the first bad row.
	RowErrorAbort RowErrorPolicy = "abort"
	// RowErrorSkip records the bad row and keeps going.
	RowErrorSkip RowErrorPolicy = "skip"
)

// ImportPhase indicates the current stage of a worksheet import.
type ImportPhase string

const (
	PhaseStarting  ImportPhase = "starting"
	PhaseHeader    ImportPhase = "header"
	PhaseInserting ImportPhase = "inserting"
	PhaseComplete  ImportPhase = "complete"
	PhaseFailed    ImportPhase = "failed"
)

// FailedRow contains information about a row that was skipped.
type FailedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// SheetResult contains the outcome of importing one worksheet.
type SheetResult struct {
	Sheet      string        `json:"sheet"`
	Table      string        `json:"table"`
	Fields     []string      `json:"fields"`
	Phase      ImportPhase   `json:"phase"`
	TotalRows  int           `json:"totalRows"`
	Inserted   int           `json:"inserted"`
	Skipped    int           `json:"skipped"`
	FailedRows []FailedRow   `json:"failedRows,omitempty"`
	Duration   time.Duration `json:"duration"`
	Error      string        `json:"error,omitempty"` // Non-empty if Phase is PhaseFailed
	Code       string        `json:"code,omitempty"`  // MapError code of Err
	Err        error         `json:"-"`
}

// ImportResult contains the outcome of importing a workbook.
type ImportResult struct {
	RunID    string        `json:"runId"`
	FileName string        `json:"fileName,omitempty"`
	Sheets   []SheetResult `json:"sheets"`
	Duration time.Duration `json:"duration"`
}

// Failed reports whether any worksheet failed.
func (r *ImportResult) Failed() bool {
	for _, s := range r.Sheets {
		if s.Phase == PhaseFailed {
			return true
		}
	}
	return false
}

// Inserted returns the number of rows inserted across all worksheets.
func (r *ImportResult) Inserted() int {
	n := 0
	for _, s := range r.Sheets {
		n += s.Inserted
	}
	return n
}

// UndoResult contains the outcome of dropping one worksheet's table.
type UndoResult struct {
	Sheet string `json:"sheet"`
	Table string `json:"table"`
	Error string `json:"error,omitempty"`
}
