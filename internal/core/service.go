package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmcgovern/handy-scripts/internal/config"
	"github.com/cmcgovern/handy-scripts/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Store is the storage collaborator: it owns the database connection,
// transactions and DDL. Implemented by storage.Store.
type Store interface {
	// InTx runs fn inside a single transaction, committing if fn returns
	// nil and rolling back otherwise.
	InTx(ctx context.Context, fn func(tx SheetTx) error) error

	// DropTable removes a table if it exists.
	DropTable(ctx context.Context, table string) error
}

// SheetTx is the transactional view used while importing one worksheet.
type SheetTx interface {
	// CreateTable declares the table with one text column per field,
	// in the order given, if it does not exist yet.
	CreateTable(ctx context.Context, table string, fields []string) error

	// InsertRecord inserts one record. A failed insert must leave the
	// transaction usable for later records.
	InsertRecord(ctx context.Context, table string, rec Record) error
}

// ContextCheckInterval is how many rows are processed between checks
// for context cancellation.
var ContextCheckInterval = 100

// Service imports worksheets into relational tables.
type Service struct {
	store   Store
	limiter *ImportLimiter

	onRowError   RowErrorPolicy
	sheetWorkers int
	timeout      time.Duration
}

// NewService creates a Service that writes through store.
func NewService(store Store, cfg config.ImportConfig) (*Service, error) {
	policy := RowErrorPolicy(strings.ToLower(cfg.OnRowError))
	switch policy {
	case "":
		policy = RowErrorAbort
	case RowErrorAbort, RowErrorSkip:
	default:
		return nil, fmt.Errorf("unknown row error policy %q", cfg.OnRowError)
	}

	workers := cfg.SheetWorkers
	if workers <= 0 {
		workers = 1
	}

	return &Service{
		store:        store,
		limiter:      NewImportLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
		onRowError:   policy,
		sheetWorkers: workers,
		timeout:      cfg.Timeout,
	}, nil
}

// TableName returns the table identifier for a worksheet name.
func TableName(sheet string) string {
	return SanitizeName(sheet)
}

// Import imports every worksheet, each in its own transaction, with up
// to the configured number of worksheets in flight. A failing worksheet
// does not stop the others; the returned error joins every worksheet
// error and the result always reports all of them.
func (s *Service) Import(ctx context.Context, fileName string, sheets []Sheet) (*ImportResult, error) {
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	runID := uuid.New().String()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithFields(ctx, "file", fileName)
	logger.Info("import started", "sheets", len(sheets), "on_row_error", s.onRowError)

	result := &ImportResult{
		RunID:    runID,
		FileName: fileName,
		Sheets:   make([]SheetResult, len(sheets)),
	}
	errs := make([]error, len(sheets))
	conflicts := tableConflicts(sheets)

	var g errgroup.Group
	g.SetLimit(s.sheetWorkers)
	for i := range sheets {
		g.Go(func() error {
			result.Sheets[i], errs[i] = s.importSheet(ctx, sheets[i], conflicts[i])
			return nil
		})
	}
	_ = g.Wait()

	result.Duration = time.Since(start)
	logger.Info("import finished",
		"inserted", result.Inserted(),
		"failed", result.Failed(),
		"duration_ms", result.Duration.Milliseconds(),
	)

	return result, errors.Join(errs...)
}

// tableConflicts returns, per worksheet, an ErrDuplicateTable error when
// an earlier worksheet already maps to the same table.
func tableConflicts(sheets []Sheet) []error {
	conflicts := make([]error, len(sheets))
	owner := make(map[string]string, len(sheets))
	for i, sheet := range sheets {
		table := TableName(sheet.Name)
		if table == "" {
			continue
		}
		if prev, ok := owner[table]; ok {
			conflicts[i] = fmt.Errorf("%w: %q and %q both map to %q", ErrDuplicateTable, prev, sheet.Name, table)
			continue
		}
		owner[table] = sheet.Name
	}
	return conflicts
}

// Undo drops the table of every named worksheet. Missing tables are
// not an error.
func (s *Service) Undo(ctx context.Context, sheetNames []string) ([]UndoResult, error) {
	if len(sheetNames) == 0 {
		return nil, ErrEmptyWorkbook
	}

	ctx = logging.WithRunID(ctx, uuid.New().String())

	results := make([]UndoResult, len(sheetNames))
	var errs []error
	for i, name := range sheetNames {
		table := TableName(name)
		results[i] = UndoResult{Sheet: name, Table: table}
		logger := logging.WithFields(ctx, "sheet", name, "table", table)

		var err error
		if table == "" {
			err = fmt.Errorf("%w: %q", ErrInvalidTable, name)
		} else {
			err = s.store.DropTable(ctx, table)
		}
		if err != nil {
			err = &SheetError{Sheet: name, Err: err}
			results[i].Error = err.Error()
			errs = append(errs, err)
			logger.Error("drop table failed", "error", err)
			continue
		}
		logger.Info("table dropped")
	}

	return results, errors.Join(errs...)
}

// LimiterStatus returns a snapshot of import concurrency.
func (s *Service) LimiterStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until running imports finish or ctx ends.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
