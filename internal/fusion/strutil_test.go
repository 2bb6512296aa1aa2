package fusion

import (
	"math"
	"testing"
)

func closeTo(a, b float64) bool {
	return math.Abs(a-b) < 1e-3
}

func TestJaroWinkler(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"martha", "marhta", 0.961},
		{"dwayne", "duane", 0.840},
		{"same", "same", 1.0},
		{"", "", 1.0},
		{"abc", "", 0.0},
		{"maria", "mariah", 0.966},
	}

	for _, test := range tests {
		got := jaroWinkler(test.a, test.b)
		if !closeTo(got, test.want) {
			t.Errorf("jaroWinkler(%q, %q) = %.3f, want %.3f", test.a, test.b, got, test.want)
		}
		// Symmetry.
		if rev := jaroWinkler(test.b, test.a); rev != got {
			t.Errorf("jaroWinkler(%q, %q) = %v but reversed = %v", test.a, test.b, got, rev)
		}
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"kitten", "sitting", 3},
		{"same", "same", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"flaw", "lawn", 2},
	}

	for _, test := range tests {
		if got := levenshteinDistance(test.a, test.b); got != test.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
	}
}

func TestLevenshteinSimilarity(t *testing.T) {
	if got := levenshteinSimilarity("kitten", "sitting"); !closeTo(got, 1.0-3.0/7.0) {
		t.Errorf("levenshteinSimilarity(kitten, sitting) = %.3f", got)
	}
	if got := levenshteinSimilarity("", ""); got != 1.0 {
		t.Errorf("two empty strings should be identical, got %v", got)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+63 917 555 0142", "9175550142"},
		{"09175550142", "9175550142"},
		{"(0917) 555-0142", "9175550142"},
		{"555-0142", "5550142"},
		{"no digits", ""},
	}

	for _, test := range tests {
		if got := normalizePhone(test.in); got != test.want {
			t.Errorf("normalizePhone(%q) = %q, want %q", test.in, got, test.want)
		}
	}
}
