// Package workbook reads xlsx workbooks into worksheets of cells.
package workbook

import (
	"fmt"
	"io"

	"github.com/cmcgovern/handy-scripts/internal/column"
	"github.com/cmcgovern/handy-scripts/internal/core"
	"github.com/xuri/excelize/v2"
)

// Workbook is an open xlsx file.
type Workbook struct {
	f *excelize.File
}

// Open opens the workbook at path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", core.ErrInvalidWorkbook, path, err)
	}
	return &Workbook{f: f}, nil
}

// OpenReader reads a workbook from r.
func OpenReader(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidWorkbook, err)
	}
	return &Workbook{f: f}, nil
}

// Close releases the workbook's temporary files.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// SheetNames returns the worksheet names in workbook order without
// reading any cells.
func (w *Workbook) SheetNames() []string {
	return w.f.GetSheetList()
}

// Sheets reads every worksheet in workbook order.
func (w *Workbook) Sheets() ([]core.Sheet, error) {
	names := w.SheetNames()
	if len(names) == 0 {
		return nil, core.ErrEmptyWorkbook
	}

	sheets := make([]core.Sheet, 0, len(names))
	for _, name := range names {
		s, err := w.Sheet(name)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, s)
	}
	return sheets, nil
}

// Sheet reads one worksheet. Row core.HeaderRow becomes the header and
// every later row with at least one non-blank cell becomes a data row.
// Blank cells are not emitted.
func (w *Workbook) Sheet(name string) (core.Sheet, error) {
	rows, err := w.f.Rows(name)
	if err != nil {
		return core.Sheet{}, fmt.Errorf("read worksheet %q: %w", name, err)
	}
	defer rows.Close()

	sheet := core.Sheet{Name: name}
	rowNum := 0
	for rows.Next() {
		rowNum++

		values, err := rows.Columns()
		if err != nil {
			return core.Sheet{}, fmt.Errorf("read worksheet %q row %d: %w", name, rowNum, err)
		}

		cells := rowCells(rowNum, values)
		if rowNum == core.HeaderRow {
			sheet.Header = cells
			continue
		}
		if len(cells) > 0 {
			sheet.Rows = append(sheet.Rows, cells)
		}
	}
	if err := rows.Error(); err != nil {
		return core.Sheet{}, fmt.Errorf("read worksheet %q: %w", name, err)
	}

	return sheet, nil
}

// rowCells turns the positional values of one row into labelled cells,
// dropping blanks.
func rowCells(rowNum int, values []string) []core.Cell {
	var cells []core.Cell
	for i, v := range values {
		v = NormalizeText(v)
		if v == "" {
			continue
		}
		cells = append(cells, core.Cell{
			Row:    rowNum,
			Column: column.MustEncode(column.Index(i)),
			Value:  v,
		})
	}
	return cells
}
