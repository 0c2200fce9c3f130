package column

import (
	"errors"
	"math"
	"sort"
	"testing"
)

func TestEncode_KnownValues(t *testing.T) {
	tests := []struct {
		index Index
		want  Label
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
		{16383, "XFD"}, // last column of an xlsx worksheet
	}

	for _, tt := range tests {
		got, err := Encode(tt.index)
		if err != nil {
			t.Errorf("Encode(%d) error = %v", tt.index, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Encode(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestEncode_Negative(t *testing.T) {
	for _, i := range []Index{-1, -26, math.MinInt} {
		_, err := Encode(i)
		if !errors.Is(err, ErrInvalidIndex) {
			t.Errorf("Encode(%d) error = %v, want ErrInvalidIndex", i, err)
		}
	}
}

func TestEncode_MaxInt(t *testing.T) {
	l, err := Encode(math.MaxInt)
	if err != nil {
		t.Fatalf("Encode(MaxInt) error = %v", err)
	}
	if l == "" {
		t.Fatal("Encode(MaxInt) returned empty label")
	}
}

func TestDecode_KnownValues(t *testing.T) {
	tests := []struct {
		label string
		want  Index
	}{
		{"A", 0},
		{"Z", 25},
		{"AA", 26},
		{"AB", 27},
		{"AZ", 51},
		{"BA", 52},
		{"ZZ", 701},
		{"AAA", 702},
		{"XFD", 16383},
		{"a", 0},
		{"ab", 27},
		{"xFd", 16383},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := Decode(tt.label)
			if err != nil {
				t.Fatalf("Decode(%q) error = %v", tt.label, err)
			}
			if got != tt.want {
				t.Errorf("Decode(%q) = %d, want %d", tt.label, got, tt.want)
			}
		})
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []string{
		"",
		"1",
		"A1",
		"A B",
		" A",
		"-",
		"Ä",
		"ÀB",
		"\u0131",  // dotless i, upper-cases to I
		"\u017f",  // long s, upper-cases to S
		"a\u017f", // "aſ"
		"\u212a",  // Kelvin sign, lower-cases to k
		"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", // overflows int
	}

	for _, label := range tests {
		_, err := Decode(label)
		if !errors.Is(err, ErrInvalidLabel) {
			t.Errorf("Decode(%q) error = %v, want ErrInvalidLabel", label, err)
		}
	}
}

func TestRoundTrip_IndexToLabel(t *testing.T) {
	for i := Index(0); i <= 20000; i++ {
		l, err := Encode(i)
		if err != nil {
			t.Fatalf("Encode(%d) error = %v", i, err)
		}
		got, err := Decode(string(l))
		if err != nil {
			t.Fatalf("Decode(%q) error = %v", l, err)
		}
		if got != i {
			t.Fatalf("Decode(Encode(%d)) = %d", i, got)
		}
	}
}

func TestRoundTrip_LabelToIndex(t *testing.T) {
	// Every label of up to three letters, built without the codec.
	var labels []string
	for a := 'A'; a <= 'Z'; a++ {
		labels = append(labels, string(a))
		for b := 'A'; b <= 'Z'; b++ {
			labels = append(labels, string([]rune{a, b}))
			for c := 'A'; c <= 'Z'; c++ {
				labels = append(labels, string([]rune{a, b, c}))
			}
		}
	}

	seen := make(map[Index]string, len(labels))
	for _, l := range labels {
		i, err := Decode(l)
		if err != nil {
			t.Fatalf("Decode(%q) error = %v", l, err)
		}
		if i < 0 {
			t.Fatalf("Decode(%q) = %d, want non-negative", l, i)
		}
		if prev, dup := seen[i]; dup {
			t.Fatalf("Decode(%q) and Decode(%q) both = %d", prev, l, i)
		}
		seen[i] = l

		back, err := Encode(i)
		if err != nil {
			t.Fatalf("Encode(%d) error = %v", i, err)
		}
		if string(back) != l {
			t.Fatalf("Encode(Decode(%q)) = %q", l, back)
		}
	}

	// 26 + 26^2 + 26^3 labels cover indices 0..18277 with no gaps.
	if len(seen) != 18278 {
		t.Errorf("distinct indices = %d, want 18278", len(seen))
	}
	for i := Index(0); i < 18278; i++ {
		if _, ok := seen[i]; !ok {
			t.Fatalf("index %d not produced by any label", i)
		}
	}
}

func TestAlphabet(t *testing.T) {
	if radix != 26 {
		t.Fatalf("radix = %d, want 26", radix)
	}
	letters := make(map[Label]bool)
	for i := Index(0); i < radix; i++ {
		l := MustEncode(i)
		if len(l) != 1 {
			t.Fatalf("Encode(%d) = %q, want single letter", i, l)
		}
		letters[l] = true
	}
	for r := 'A'; r <= 'Z'; r++ {
		if !letters[Label(string(r))] {
			t.Errorf("letter %c missing from alphabet", r)
		}
	}
}

func TestParseLabel(t *testing.T) {
	l, err := ParseLabel("ab")
	if err != nil {
		t.Fatalf("ParseLabel error = %v", err)
	}
	if l != "AB" {
		t.Errorf("ParseLabel(%q) = %q, want %q", "ab", l, "AB")
	}

	for _, bad := range []string{"A1", "a\u017f"} {
		if l, err := ParseLabel(bad); !errors.Is(err, ErrInvalidLabel) {
			t.Errorf("ParseLabel(%q) = %q, %v; want ErrInvalidLabel", bad, l, err)
		}
	}
}

func TestMustEncode_PanicsOnNegative(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustEncode(-1) did not panic")
		}
	}()
	MustEncode(-1)
}

func TestIndexLabelMethods(t *testing.T) {
	if got := Index(27).Label(); got != "AB" {
		t.Errorf("Index(27).Label() = %q, want %q", got, "AB")
	}
	i, err := Label("BA").Index()
	if err != nil || i != 52 {
		t.Errorf("Label(BA).Index() = %d, %v, want 52, nil", i, err)
	}
}

// Lexicographic label order disagrees with column order once labels have
// more than one letter. Column ordering must come from the decoded index.
func TestLabelOrder_NotLexicographic(t *testing.T) {
	b, _ := Label("B").Index()
	aa, _ := Label("AA").Index()
	if b >= aa {
		t.Errorf("index(B) = %d, index(AA) = %d; want B left of AA", b, aa)
	}
	if "B" < "AA" {
		t.Fatal("string comparison unexpectedly agrees with column order")
	}

	labels := []Label{"AA", "B", "Z", "A", "AB", "K", "BA"}
	idx := make([]Index, len(labels))
	for i, l := range labels {
		v, err := l.Index()
		if err != nil {
			t.Fatalf("Index(%q) error = %v", l, err)
		}
		idx[i] = v
	}
	SortIndices(idx)

	got := make([]Label, len(idx))
	for i, v := range idx {
		got[i] = v.Label()
	}
	want := []Label{"A", "B", "K", "Z", "AA", "AB", "BA"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("numeric order = %v, want %v", got, want)
		}
	}

	lex := make([]string, len(labels))
	for i, l := range labels {
		lex[i] = string(l)
	}
	sort.Strings(lex)
	same := true
	for i := range want {
		if lex[i] != string(want[i]) {
			same = false
		}
	}
	if same {
		t.Error("lexicographic order matched numeric order; fixture does not exercise the difference")
	}
}
