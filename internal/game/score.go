package game

import "unicode/utf8"

// Score returns the points for an accepted word, by letter count:
//
//	3 → 100, 4 → 400, 5 → 800, 6 → 1400, n ≥ 7 → 1800 + 400·(n−7)
//
// Shorter words score 0.
func Score(word string) int {
	return ScoreLength(utf8.RuneCountInString(word))
}

// ScoreLength is Score keyed by length.
func ScoreLength(n int) int {
	switch {
	case n < MinWordLength:
		return 0
	case n == 3:
		return 100
	case n == 4:
		return 400
	case n == 5:
		return 800
	case n == 6:
		return 1400
	default:
		return 1800 + 400*(n-7)
	}
}
