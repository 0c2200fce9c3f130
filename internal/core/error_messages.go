// Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// # Column Errors (COL001-COL099)
//
//	COL001 - Invalid label: A cell reference has an unreadable column label
//	         Action: Re-save the workbook; the file may be damaged
//	         Matches: column.ErrInvalidLabel
//
//	COL002 - Invalid index: A negative column number was requested
//	         Action: Report this to support (internal error)
//	         Matches: column.ErrInvalidIndex
//
// # Header Errors (HDR001-HDR099)
//
//	HDR001 - Invalid header: A header cell is blank or repeated
//	         Action: Give every used column a non-blank name in row 1
//	         Matches: ErrInvalidHeader
//
//	HDR002 - Invalid worksheet name: The worksheet name cannot name a table
//	         Action: Rename the worksheet
//	         Matches: ErrInvalidTable
//
//	HDR003 - Duplicate table: Two worksheet names map to the same table
//	         Action: Rename one of the worksheets
//	         Matches: ErrDuplicateTable
//
// # Row Errors (ROW001-ROW099)
//
//	ROW001 - Unknown column: A value sits in a column with no header
//	         Action: Add a header for the column or clear the stray value
//	         Matches: ErrUnknownColumn
//
//	ROW002 - Duplicate cell: A row holds two values for one column
//	         Action: Re-save the workbook; the file may be damaged
//	         Matches: ErrDuplicateCell
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate column: Two headers sanitize to the same field name
//	        Action: Rename one of the columns
//	        Matches: SQLSTATE 42701, "specified more than once"
//
//	DB002 - Value too long: A cell exceeds the column width
//	        Action: Shorten the value (max 256 characters)
//	        Matches: SQLSTATE 22001, "value too long"
//
//	DB003 - Invalid name: A header or worksheet name is not a usable identifier
//	        Action: Rename the column or worksheet
//	        Matches: SQLSTATE 42601/42602
//
//	DB004 - Connection refused: Unable to connect to database
//	        Action: Please try again in a few moments
//	        Patterns: "connection refused"
//
//	DB005 - Connection reset: Database connection was interrupted
//	        Action: Please try again
//	        Patterns: "connection reset"
//
//	DB006 - Timeout: Operation timed out
//	        Action: Try importing a smaller workbook or try again later
//	        Patterns: "timeout"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum size limit
//	FILE002 - Invalid workbook: File is not a valid xlsx workbook
//	FILE004 - No file: No file was selected
//	FILE005 - Empty workbook: The workbook has no worksheets
//
// # Import Errors (IMP001-IMP099)
//
//	IMP002 - System busy: Too many imports in progress
//	IMP004 - Request cancelled: Request was cancelled
//	IMP005 - Request timeout: Request timed out
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check application logs for the original
// technical error.
//
// # Matching
//
// Sentinel errors are matched with errors.Is, then PostgreSQL errors by
// SQLSTATE, then the remaining patterns case-insensitively with
// strings.Contains. The first match wins.

package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmcgovern/handy-scripts/internal/column"
	"github.com/jackc/pgx/v5/pgconn"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type sentinelMessage struct {
	err error
	msg UserMessage
}

// sentinelMessages are checked with errors.Is before any pattern.
var sentinelMessages = []sentinelMessage{
	{column.ErrInvalidLabel, UserMessage{
		Message: "A cell reference has an unreadable column label",
		Action:  "Re-save the workbook; the file may be damaged",
		Code:    "COL001",
	}},
	{column.ErrInvalidIndex, UserMessage{
		Message: "A negative column number was requested",
		Action:  "Report this to support",
		Code:    "COL002",
	}},
	{ErrInvalidHeader, UserMessage{
		Message: "A header cell is blank or repeated",
		Action:  "Give every used column a non-blank name in row 1",
		Code:    "HDR001",
	}},
	{ErrInvalidTable, UserMessage{
		Message: "The worksheet name cannot be used as a table name",
		Action:  "Rename the worksheet",
		Code:    "HDR002",
	}},
	{ErrDuplicateTable, UserMessage{
		Message: "Two worksheets map to the same table name",
		Action:  "Rename one of the worksheets",
		Code:    "HDR003",
	}},
	{ErrUnknownColumn, UserMessage{
		Message: "A value sits in a column with no header",
		Action:  "Add a header for the column or clear the stray value",
		Code:    "ROW001",
	}},
	{ErrDuplicateCell, UserMessage{
		Message: "A row holds two values for the same column",
		Action:  "Re-save the workbook; the file may be damaged",
		Code:    "ROW002",
	}},
	{ErrFileTooLarge, UserMessage{
		Message: "File exceeds maximum size limit",
		Action:  "Split the workbook into smaller files",
		Code:    "FILE001",
	}},
	{ErrInvalidWorkbook, UserMessage{
		Message: "File is not a valid xlsx workbook",
		Action:  "Save the file in Excel Workbook (.xlsx) format",
		Code:    "FILE002",
	}},
	{ErrNoFile, UserMessage{
		Message: "No file was selected",
		Action:  "Please select an xlsx file to upload",
		Code:    "FILE004",
	}},
	{ErrEmptyWorkbook, UserMessage{
		Message: "The workbook has no worksheets",
		Action:  "Please upload a workbook with at least one worksheet",
		Code:    "FILE005",
	}},
	{ErrTooManyImports, UserMessage{
		Message: "System is busy processing other imports",
		Action:  "Please wait a moment and try again",
		Code:    "IMP002",
	}},
	{context.Canceled, UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "IMP004",
	}},
	{context.DeadlineExceeded, UserMessage{
		Message: "Request timed out",
		Action:  "Try importing a smaller workbook or check your connection",
		Code:    "IMP005",
	}},
}

// sqlStateMessages maps PostgreSQL SQLSTATE codes to user messages.
var sqlStateMessages = map[string]UserMessage{
	"42701": {
		Message: "Two columns share the same field name",
		Action:  "Rename one of the columns",
		Code:    "DB001",
	},
	"22001": {
		Message: "A value is longer than the column allows",
		Action:  "Shorten the value to at most 256 characters",
		Code:    "DB002",
	},
	"42601": {
		Message: "A header or worksheet name is not a usable identifier",
		Action:  "Rename the column or worksheet",
		Code:    "DB003",
	},
	"42602": {
		Message: "A header or worksheet name is not a usable identifier",
		Action:  "Rename the column or worksheet",
		Code:    "DB003",
	},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user messages.
// More specific patterns must come before general ones.
var errorPatterns = []errorPattern{
	{
		pattern: "specified more than once",
		msg:     sqlStateMessages["42701"],
	},
	{
		pattern: "value too long",
		msg:     sqlStateMessages["22001"],
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try importing a smaller workbook or try again later",
			Code:    "DB006",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	_, err := core.Project(cells, headers)
//	msg := core.MapError(err)
//	// msg.Code == "ROW001" for a value in a column without a header
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if msg, ok := sqlStateMessages[pgErr.Code]; ok {
			return msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
