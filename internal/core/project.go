package core

import (
	"sort"

	"github.com/cmcgovern/handy-scripts/internal/column"
)

// Project turns the cells of one data row into a record. Cells may
// arrive in any order and any declared column may be missing. Each
// value is paired with the field registered for its column index, never
// with the field at the same position in the row. The record is ordered
// by column index.
//
// A cell in a column without a header fails with ErrUnknownColumn
// rather than being dropped. Two cells for the same column fail with
// ErrDuplicateCell.
func Project(cells []Cell, headers *HeaderTable) (Record, error) {
	type indexed struct {
		idx  column.Index
		cell Cell
		name string
	}

	resolved := make([]indexed, 0, len(cells))
	for _, c := range cells {
		idx, err := column.Decode(string(c.Column))
		if err != nil {
			return nil, &ProjectionError{Row: c.Row, Column: c.Column, Err: err}
		}

		name, ok := headers.Field(idx)
		if !ok {
			return nil, &ProjectionError{Row: c.Row, Column: c.Column, Err: ErrUnknownColumn}
		}

		resolved = append(resolved, indexed{idx: idx, cell: c, name: name})
	}

	sort.Slice(resolved, func(i, j int) bool { return resolved[i].idx < resolved[j].idx })

	rec := make(Record, len(resolved))
	for i, r := range resolved {
		if i > 0 && resolved[i-1].idx == r.idx {
			return nil, &ProjectionError{Row: r.cell.Row, Column: r.cell.Column, Err: ErrDuplicateCell}
		}
		rec[i] = Field{Name: r.name, Value: r.cell.Value}
	}
	return rec, nil
}
