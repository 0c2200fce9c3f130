package workbook

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText prepares cell text for a PostgreSQL text column:
// invalid UTF-8 becomes U+FFFD, NUL bytes are removed, and the result
// is in Unicode normalization form C.
func NormalizeText(s string) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	s = strings.ReplaceAll(s, "\x00", "")
	return norm.NFC.String(s)
}
