package game

import (
	"strings"
	"unicode/utf8"
)

// MinWordLength is the shortest word that can score.
const MinWordLength = 3

// Lexicon is the membership lookup the validator needs.
type Lexicon interface {
	Contains(word string) bool
}

// Result is the validator's decision for one word.
type Result struct {
	Verdict Verdict `json:"verdict"`
	Reason  Reason  `json:"reason,omitempty"`
}

// Accepted reports whether the word may be scored.
func (r Result) Accepted() bool { return r.Verdict == VerdictAccepted }

// Validate decides whether word may be scored.
//
// Rules, in order: fewer than 3 letters, already in accepted (lowercase),
// or missing from dict are rejections. Validate never mutates accepted; the
// caller inserts strings.ToLower(word) after an accepted result.
func Validate(word string, dict Lexicon, accepted map[string]struct{}) Result {
	if utf8.RuneCountInString(word) < MinWordLength {
		return Result{Verdict: VerdictRejected, Reason: ReasonTooShort}
	}
	w := strings.ToLower(word)
	if _, dup := accepted[w]; dup {
		return Result{Verdict: VerdictRejected, Reason: ReasonDuplicate}
	}
	if dict == nil || !dict.Contains(w) {
		return Result{Verdict: VerdictRejected, Reason: ReasonNotInDictionary}
	}
	return Result{Verdict: VerdictAccepted}
}
