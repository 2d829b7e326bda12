package game

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// PrefixLexicon is a Lexicon that can also prune by prefix.
type PrefixLexicon interface {
	Lexicon
	HasPrefix(prefix string) bool
}

// FindAll returns every word of at least MinWordLength letters that a legal
// path on g spells, lowercased, longest first then alphabetical.
func FindAll(g Grid, dict PrefixLexicon) []string {
	found := make(map[string]struct{})
	var used [Size * Size]bool

	var walk func(c Cell, prefix string)
	walk = func(c Cell, prefix string) {
		used[c.index()] = true
		defer func() { used[c.index()] = false }()

		word := prefix + strings.ToLower(g.At(c))
		if utf8.RuneCountInString(word) >= MinWordLength && dict.Contains(word) {
			found[word] = struct{}{}
		}
		if !dict.HasPrefix(word) {
			return
		}
		for _, d := range offsets {
			n := Cell{Row: c.Row + d[0], Col: c.Col + d[1]}
			if n.InBounds() && !used[n.index()] {
				walk(n, word)
			}
		}
	}

	for r := range Size {
		for c := range Size {
			walk(Cell{Row: r, Col: c}, "")
		}
	}

	out := make([]string, 0, len(found))
	for w := range found {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(out[i]), utf8.RuneCountInString(out[j])
		if li != lj {
			return li > lj
		}
		return out[i] < out[j]
	})
	return out
}

// MaxScore is the total a player would earn by finding every word in words.
func MaxScore(words []string) int {
	total := 0
	for _, w := range words {
		total += Score(w)
	}
	return total
}
