package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmcgovern/handy-scripts/internal/logging"
)

// importSheet builds the header table, projects every data row and
// writes the worksheet in one transaction. A non-nil conflict fails the
// worksheet before anything is written.
func (s *Service) importSheet(ctx context.Context, sheet Sheet, conflict error) (SheetResult, error) {
	start := time.Now()
	table := TableName(sheet.Name)
	logger := logging.WithFields(ctx, "sheet", sheet.Name, "table", table)

	result := SheetResult{
		Sheet:     sheet.Name,
		Table:     table,
		Phase:     PhaseStarting,
		TotalRows: len(sheet.Rows),
	}

	fail := func(err error) (SheetResult, error) {
		err = &SheetError{Sheet: sheet.Name, Err: err}
		result.Phase = PhaseFailed
		result.Error = err.Error()
		result.Err = err
		result.Code = MapError(err).Code
		result.Inserted = 0
		result.Duration = time.Since(start)
		logger.Error("worksheet import failed", "error", err, "code", result.Code)
		return result, err
	}

	if table == "" {
		return fail(fmt.Errorf("%w: %q", ErrInvalidTable, sheet.Name))
	}
	if conflict != nil {
		return fail(conflict)
	}

	result.Phase = PhaseHeader
	if len(sheet.Header) == 0 {
		return fail(fmt.Errorf("%w: row %d is empty", ErrInvalidHeader, HeaderRow))
	}
	headers, err := BuildHeaderTable(sheet.Header)
	if err != nil {
		return fail(err)
	}
	result.Fields = headers.Fields()

	for _, d := range headers.Duplicates() {
		logger.Warn("duplicate field name", "field", d.Name, "columns", joinLabels(d))
	}

	result.Phase = PhaseInserting
	var failed []FailedRow
	inserted := 0

	err = s.store.InTx(ctx, func(tx SheetTx) error {
		if err := tx.CreateTable(ctx, table, result.Fields); err != nil {
			return fmt.Errorf("create table: %w", err)
		}

		for i, cells := range sheet.Rows {
			if i%ContextCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			if len(cells) == 0 {
				continue
			}
			row := cells[0].Row

			rec, err := Project(cells, headers)
			if err == nil {
				if err = tx.InsertRecord(ctx, table, rec); err != nil {
					err = fmt.Errorf("insert row %d: %w", row, err)
				}
			}
			if err != nil {
				if s.onRowError == RowErrorAbort {
					return err
				}
				failed = append(failed, FailedRow{Row: row, Reason: err.Error()})
				logger.Warn("row skipped", "row", row, "error", err, "code", MapError(err).Code)
				continue
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return fail(err)
	}

	result.Phase = PhaseComplete
	result.Inserted = inserted
	result.Skipped = len(failed)
	result.FailedRows = failed
	result.Duration = time.Since(start)

	logger.Info("worksheet imported",
		"fields", len(result.Fields),
		"inserted", result.Inserted,
		"skipped", result.Skipped,
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}

func joinLabels(d Duplicate) string {
	parts := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}
