package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"lowercases", "Main Street", "main street"},
		{"punctuation becomes space", "O'Brien-Smith", "o brien smith"},
		{"collapses whitespace", "  123   Main  St. ", "123 main st"},
		{"empty", "", ""},
		{"only punctuation", "---", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.in))
		})
	}
}

func TestExtractDigits(t *testing.T) {
	assert.Equal(t, "1234567890", ExtractDigits("(123) 456-7890"))
	assert.Equal(t, "", ExtractDigits("no digits"))
}

func TestNGrams(t *testing.T) {
	grams := NGrams("ab cd", 2)
	for _, g := range []string{"ab", "b_", "_c", "cd"} {
		assert.Contains(t, grams, g)
	}
	assert.Len(t, grams, 4)

	// Shorter than n falls back to the whole string
	assert.Equal(t, map[string]struct{}{"a": {}}, NGrams("a", 2))
	assert.Empty(t, NGrams("", 2))
}

func TestJaccard(t *testing.T) {
	a := map[string]struct{}{"x": {}, "y": {}}
	b := map[string]struct{}{"y": {}, "z": {}}

	assert.InDelta(t, 1.0/3.0, Jaccard(a, b), 1e-9)
	assert.Equal(t, 1.0, Jaccard(a, a))
	assert.Equal(t, 1.0, Jaccard(nil, nil), "two empty sets are identical")
	assert.Equal(t, 0.0, Jaccard(a, nil))
}

func TestTokenOverlap(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"identical after cleaning", "John A. Smith", "john a smith", 1.0},
		{"word order ignored", "smith john", "john smith", 1.0},
		{"half overlap", "john smith", "john doe", 1.0 / 3.0},
		{"no overlap", "john smith", "mary jones", 0.0},
		{"one empty", "john", "", 0.0},
		{"both empty", "", "", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, TokenOverlap(tt.a, tt.b), 1e-9)
		})
	}
}
