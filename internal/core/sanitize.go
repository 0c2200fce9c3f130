package core

import "strings"

// SanitizeName turns free-form header or worksheet text into a storage
// identifier: surrounding whitespace is trimmed and every internal run of
// whitespace becomes a single underscore. It returns "" for blank input.
func SanitizeName(s string) string {
	return strings.Join(strings.Fields(s), "_")
}
