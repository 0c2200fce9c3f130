package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/cmcgovern/handy-scripts/internal/column"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"invalid label", fmt.Errorf("decode: %w", column.ErrInvalidLabel), "COL001"},
		{"invalid index", column.ErrInvalidIndex, "COL002"},
		{"invalid header", &HeaderError{Column: "B", Err: fmt.Errorf("%w: blank", ErrInvalidHeader)}, "HDR001"},
		{"invalid table", &SheetError{Sheet: " ", Err: ErrInvalidTable}, "HDR002"},
		{"unknown column", &SheetError{Sheet: "S", Err: &ProjectionError{Row: 2, Column: "C", Err: ErrUnknownColumn}}, "ROW001"},
		{"duplicate cell", &ProjectionError{Err: ErrDuplicateCell}, "ROW002"},
		{"file too large", ErrFileTooLarge, "FILE001"},
		{"invalid workbook", fmt.Errorf("%w: zip: not a valid zip file", ErrInvalidWorkbook), "FILE002"},
		{"no file", ErrNoFile, "FILE004"},
		{"empty workbook", ErrEmptyWorkbook, "FILE005"},
		{"busy", ErrTooManyImports, "IMP002"},
		{"cancelled", fmt.Errorf("insert: %w", context.Canceled), "IMP004"},
		{"deadline", context.DeadlineExceeded, "IMP005"},
		{"pg duplicate column", &pgconn.PgError{Code: "42701", Message: `column "Total" specified more than once`}, "DB001"},
		{"pg too long", fmt.Errorf("insert row 9: %w", &pgconn.PgError{Code: "22001"}), "DB002"},
		{"pg syntax", &pgconn.PgError{Code: "42601"}, "DB003"},
		{"duplicate column text", errors.New(`ERROR: column "a" specified more than once`), "DB001"},
		{"connection refused", errors.New("dial tcp 127.0.0.1:5432: connect: Connection Refused"), "DB004"},
		{"connection reset", errors.New("read: connection reset by peer"), "DB005"},
		{"timeout", errors.New("i/o timeout"), "DB006"},
		{"unknown", errors.New("something odd"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapError(tt.err); got.Code != tt.code {
				t.Errorf("MapError(%v).Code = %q, want %q", tt.err, got.Code, tt.code)
			}
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	if got := MapError(nil); got != (UserMessage{}) {
		t.Errorf("MapError(nil) = %+v, want zero value", got)
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(ErrUnknownColumn)
	if !strings.Contains(got, "(Code: ROW001)") {
		t.Errorf("FormatUserError() = %q, want code ROW001", got)
	}
	if FormatUserError(nil) != "" {
		t.Error("FormatUserError(nil) should be empty")
	}
}

func TestIsUserFacing(t *testing.T) {
	if IsUserFacing(nil) {
		t.Error("IsUserFacing(nil) = true")
	}
	if !IsUserFacing(ErrInvalidHeader) {
		t.Error("IsUserFacing(ErrInvalidHeader) = false")
	}
	if IsUserFacing(errors.New("mystery")) {
		t.Error("IsUserFacing(mystery) = true")
	}
}

func TestErrorTypes_Messages(t *testing.T) {
	he := &HeaderError{Column: "AB", Value: " ", Err: ErrInvalidHeader}
	if got := he.Error(); !strings.Contains(got, "AB1") {
		t.Errorf("HeaderError.Error() = %q, want cell reference AB1", got)
	}

	pe := &ProjectionError{Row: 12, Column: "C", Err: ErrUnknownColumn}
	if got := pe.Error(); got != "cell C12: unknown column" {
		t.Errorf("ProjectionError.Error() = %q", got)
	}

	se := &SheetError{Sheet: "Q1", Err: pe}
	if got := se.Error(); got != `worksheet "Q1": cell C12: unknown column` {
		t.Errorf("SheetError.Error() = %q", got)
	}
}
