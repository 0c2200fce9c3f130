package storage

import (
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ColumnType is the column type of every worksheet field.
const ColumnType = "VARCHAR(256)"

// quote returns name as a quoted SQL identifier.
func quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// CreateTableSQL returns the DDL declaring table with fields in order.
func CreateTableSQL(table string, fields []string) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(quote(table))
	b.WriteString(" (")
	for i, f := range fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quote(f))
		b.WriteByte(' ')
		b.WriteString(ColumnType)
	}
	b.WriteString(")")
	return b.String()
}

// InsertSQL returns a parameterized insert for the named fields.
// With no fields every column takes its default (NULL).
func InsertSQL(table string, fields []string) string {
	if len(fields) == 0 {
		return "INSERT INTO " + quote(table) + " DEFAULT VALUES"
	}

	cols := make([]string, len(fields))
	params := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = quote(f)
		params[i] = "$" + strconv.Itoa(i+1)
	}
	return "INSERT INTO " + quote(table) +
		" (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(params, ", ") + ")"
}

// DropTableSQL returns the statement removing table.
func DropTableSQL(table string) string {
	return "DROP TABLE IF EXISTS " + quote(table)
}
