package core

import (
	"fmt"

	"github.com/cmcgovern/handy-scripts/internal/column"
)

// HeaderTable maps column indices to field names for one worksheet.
// It is built once from the header row and never modified afterwards,
// so a single table may be shared by concurrent projections.
type HeaderTable struct {
	fields  map[column.Index]string
	indices []column.Index // ascending
}

// Duplicate is a field name declared by more than one header column.
type Duplicate struct {
	Name    string
	Columns []column.Label // in column order
}

// BuildHeaderTable builds the table from the cells of the header row.
// Cells may arrive in any order. A header whose text is blank after
// sanitizing, or two header cells claiming the same column, fail with
// ErrInvalidHeader; an unparseable column label fails with
// column.ErrInvalidLabel.
func BuildHeaderTable(cells []Cell) (*HeaderTable, error) {
	h := &HeaderTable{
		fields:  make(map[column.Index]string, len(cells)),
		indices: make([]column.Index, 0, len(cells)),
	}

	for _, c := range cells {
		idx, err := column.Decode(string(c.Column))
		if err != nil {
			return nil, &HeaderError{Column: c.Column, Value: c.Value, Err: err}
		}

		name := SanitizeName(c.Value)
		if name == "" {
			return nil, &HeaderError{
				Column: c.Column,
				Value:  c.Value,
				Err:    fmt.Errorf("%w: blank field name", ErrInvalidHeader),
			}
		}

		if prev, dup := h.fields[idx]; dup {
			return nil, &HeaderError{
				Column: c.Column,
				Value:  c.Value,
				Err:    fmt.Errorf("%w: column already declared as %q", ErrInvalidHeader, prev),
			}
		}

		h.fields[idx] = name
		h.indices = append(h.indices, idx)
	}

	column.SortIndices(h.indices)
	return h, nil
}

// Field returns the field name registered for a column index.
func (h *HeaderTable) Field(idx column.Index) (string, bool) {
	name, ok := h.fields[idx]
	return name, ok
}

// Len returns the number of declared columns.
func (h *HeaderTable) Len() int {
	return len(h.indices)
}

// Indices returns the declared column indices in ascending order.
func (h *HeaderTable) Indices() []column.Index {
	out := make([]column.Index, len(h.indices))
	copy(out, h.indices)
	return out
}

// Fields returns the field names in column order.
// This is the declaration order for the storage table.
func (h *HeaderTable) Fields() []string {
	out := make([]string, len(h.indices))
	for i, idx := range h.indices {
		out[i] = h.fields[idx]
	}
	return out
}

// Duplicates returns the field names declared by more than one column,
// in order of first appearance. Such names collide at the storage layer.
func (h *HeaderTable) Duplicates() []Duplicate {
	byName := make(map[string][]column.Label)
	var order []string
	for _, idx := range h.indices {
		name := h.fields[idx]
		if _, seen := byName[name]; !seen {
			order = append(order, name)
		}
		byName[name] = append(byName[name], idx.Label())
	}

	var dups []Duplicate
	for _, name := range order {
		if cols := byName[name]; len(cols) > 1 {
			dups = append(dups, Duplicate{Name: name, Columns: cols})
		}
	}
	return dups
}
