// Package similarity provides the pure string-comparison primitives used
// by the pairwise scorer: text cleaning, character n-grams, Jaccard set
// similarity and token-set overlap. All functions are deterministic and
// allocation-light; scores are in [0.0, 1.0].
package similarity

import (
	"strings"
	"unicode"
)

// CleanText lower-cases a value, replaces punctuation with spaces and
// collapses whitespace, producing the canonical comparison form
func CleanText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ExtractDigits keeps only the digit characters of a value
func ExtractDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NGrams generates the set of character n-grams of the cleaned text,
// with spaces replaced by underscores so word boundaries participate
func NGrams(s string, n int) map[string]struct{} {
	cleaned := CleanText(s)
	if cleaned == "" {
		return map[string]struct{}{}
	}
	joined := strings.ReplaceAll(cleaned, " ", "_")
	runes := []rune(joined)
	grams := make(map[string]struct{})
	if len(runes) < n {
		grams[joined] = struct{}{}
		return grams
	}
	for i := 0; i+n <= len(runes); i++ {
		grams[string(runes[i:i+n])] = struct{}{}
	}
	return grams
}

// Jaccard computes |a∩b| / |a∪b| for two gram sets. Two empty sets are
// identical by convention.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	inter := 0
	for g := range a {
		if _, ok := b[g]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// TokenOverlap computes the Jaccard index of the word sets of two values
// after cleaning
func TokenOverlap(a, b string) float64 {
	ca, cb := CleanText(a), CleanText(b)
	if ca == "" && cb == "" {
		return 1.0
	}
	if ca == "" || cb == "" {
		return 0.0
	}
	setA := make(map[string]struct{})
	for _, t := range strings.Fields(ca) {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{})
	for _, t := range strings.Fields(cb) {
		setB[t] = struct{}{}
	}
	return Jaccard(setA, setB)
}
