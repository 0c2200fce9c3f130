// Package column converts between spreadsheet column labels ("A", "B",
// ..., "Z", "AA", ...) and zero-based column indices.
//
// Labels are numerals in bijective base-26: the digits 1..26 are written
// A..Z and there is no zero digit. Index 0 is "A", 25 is "Z", 26 is "AA"
// and 702 is "AAA".
package column

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

const (
	firstLetter = 'A'
	lastLetter  = 'Z'

	// radix is the number of letters in the label alphabet.
	radix = lastLetter - firstLetter + 1
)

// ErrInvalidIndex is returned by Encode for negative indices.
var ErrInvalidIndex = errors.New("invalid column index")

// ErrInvalidLabel is returned by Decode for empty labels or labels
// containing anything other than the letters A-Z.
var ErrInvalidLabel = errors.New("invalid column label")

// Index is the zero-based numeric identity of a column.
type Index int

// Label is the upper-case letter identity of a column.
type Label string

// Encode converts a zero-based index to its column label.
func Encode(i Index) (Label, error) {
	if i < 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidIndex, i)
	}

	// Longest label for a 64-bit index is 14 letters.
	var buf [16]byte
	pos := len(buf)

	// Equivalent to starting from n = i+1 and decrementing before each
	// digit, without overflowing at math.MaxInt.
	for n := int(i); n >= 0; n = n/radix - 1 {
		pos--
		buf[pos] = byte(firstLetter + n%radix)
	}

	return Label(buf[pos:]), nil
}

// MustEncode is like Encode but panics on a negative index.
// Use it only with indices known to be valid, such as loop counters.
func MustEncode(i Index) Label {
	l, err := Encode(i)
	if err != nil {
		panic(err)
	}
	return l
}

// Decode converts a column label to its zero-based index.
// Lower-case ASCII letters are accepted; any other byte is invalid.
func Decode(s string) (Index, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidLabel)
	}

	value := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c &^= 0x20 // ASCII-only case fold
		}
		if c < firstLetter || c > lastLetter {
			return 0, fmt.Errorf("%w: %q", ErrInvalidLabel, s)
		}
		digit := int(c-firstLetter) + 1
		if value > (math.MaxInt-digit)/radix {
			return 0, fmt.Errorf("%w: %q out of range", ErrInvalidLabel, s)
		}
		value = value*radix + digit
	}

	// One subtraction for the whole numeral, not one per digit.
	return Index(value - 1), nil
}

// ParseLabel validates s and returns it in canonical upper-case form.
// A valid label is pure ASCII, so ToUpper only folds a-z.
func ParseLabel(s string) (Label, error) {
	if _, err := Decode(s); err != nil {
		return "", err
	}
	return Label(strings.ToUpper(s)), nil
}

// Label returns the column label for i. It panics if i is negative.
func (i Index) Label() Label {
	return MustEncode(i)
}

// Index decodes the label.
func (l Label) Index() (Index, error) {
	return Decode(string(l))
}

func (l Label) String() string {
	return string(l)
}

// SortIndices sorts indices in ascending numeric order, which is the
// left-to-right order of the columns in a worksheet.
func SortIndices(idx []Index) {
	sort.Slice(idx, func(i, j int) bool { return idx[i] < idx[j] })
}
