// Package core provides the business logic for importing spreadsheet
// worksheets into relational tables.
//
// The package is independent of the spreadsheet file format and of the
// database driver: worksheets arrive as [Sheet] values and rows leave
// through the [Store] interface, so the CLI and the HTTP server share it
// unchanged.
//
// # Header-driven projection
//
// Cells of a worksheet row may arrive in any column order and blank
// cells are absent. Values are therefore matched to fields by column
// identity:
//
//  1. [BuildHeaderTable] decodes the column label of every header cell
//     (row [HeaderRow]) and registers the sanitized field name under the
//     column index.
//  2. [Project] decodes the column label of every data cell and looks up
//     the field registered for that index. Columns missing from a row are
//     left out of the [Record]; a cell in an undeclared column fails with
//     [ErrUnknownColumn].
//
// Table columns are declared in ascending column-index order, never in
// label string order ("AA" sorts before "B" as text).
//
// # Import
//
// [Service.Import] imports each worksheet in its own transaction with a
// bounded number of worksheets in flight. The [RowErrorPolicy] decides
// whether a bad row aborts its worksheet or is skipped and reported in
// [SheetResult.FailedRows]. [Service.Undo] drops the tables again.
//
// # Error Handling
//
// Header and row failures are reported as [*HeaderError],
// [*ProjectionError] and [*SheetError], all of which unwrap to the
// sentinel errors of this package or of the column package. [MapError]
// turns any of them into a user-facing message with a support code.
package core
