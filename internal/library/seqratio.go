package library

import "github.com/pmezard/go-difflib/difflib"

// sequenceRatio scores the similarity of two sequences as
// 2*M/(len(a)+len(b)), M being the total size of difflib's matching
// blocks. The result lies in [0, 1]; two empty sequences are identical.
func sequenceRatio(a, b []string) float64 {
	return difflib.NewMatcher(a, b).Ratio()
}

// splitChars explodes a string into one-rune elements for
// character-level ratios.
func splitChars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
