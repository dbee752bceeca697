// Package cryptanalysis recovers affine keys from ciphertext by letter
// frequency analysis.
package cryptanalysis

import (
	"sort"

	"itsec/affine"
)

// SheetCiphertext is the intercepted message from the exercise sheet.
const SheetCiphertext = "FALSZZTYSYJZYJKYWJRZTYJZTYYNARYJKYSWARZTYEGYYJ"

// LetterCount is one row of a frequency table.
type LetterCount struct {
	Letter rune
	Count  int
}

// FrequencyAnalysis counts the ASCII letters of text, case-folded to
// uppercase. Rows are ordered by count, highest first; equal counts keep the
// order in which the letters first appear.
func FrequencyAnalysis(text string) []LetterCount {
	var counts [affine.AlphabetSize]int
	order := make([]int, 0, affine.AlphabetSize)

	for _, r := range text {
		n, ok := affine.Index(r)
		if !ok {
			continue
		}
		if counts[n] == 0 {
			order = append(order, n)
		}
		counts[n]++
	}

	table := make([]LetterCount, len(order))
	for i, n := range order {
		table[i] = LetterCount{Letter: affine.Letter(n), Count: counts[n]}
	}

	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Count > table[j].Count
	})
	return table
}
