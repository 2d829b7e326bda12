// internal/game/engine.go
//
// Core game engine for a single Word Hunt session.
// Responsibilities:
//   - Start a session from an in-memory grid and dictionary (no I/O).
//   - Feed cell selections into the path tracker with live feedback.
//   - Finalize words: validate, score, record in the accepted-word set.
//   - Report running totals and the end-of-session summary.
//
// Notes:
//   - A Session is owned by one player and is not safe for concurrent use;
//     callers that share it (the HTTP store) serialize access themselves.
//   - The dictionary is shared read-only between sessions.

package game

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/austinraben/wordhunt/internal/words"
)

// ErrNoDictionary is returned when a session is started without a dictionary.
var ErrNoDictionary = errors.New("no dictionary")

// Move is the feedback for one Select call.
type Move struct {
	Accepted bool    `json:"accepted"`
	Verdict  Verdict `json:"verdict"` // forming | valid | invalid
	Word     string  `json:"word"`    // in-progress word after the move
}

// Outcome is the result of finalizing a word.
type Outcome struct {
	Word    string  `json:"word"`
	Verdict Verdict `json:"verdict"` // accepted | rejected
	Reason  Reason  `json:"reason,omitempty"`
	Points  int     `json:"points"`
}

// Summary is handed to persistence when a session ends.
type Summary struct {
	Score       int      `json:"score"`
	LongestWord string   `json:"longestWord"`
	TotalWords  int      `json:"totalWords"`
	Words       []string `json:"words"`
}

// Session holds the per-player state of one game on one grid.
type Session struct {
	ID       string
	Language words.Language

	grid     Grid
	dict     *words.Dictionary
	tracker  *Tracker
	accepted map[string]struct{}
	found    []string // accepted words in the order they were found
	score    int
	longest  string
}

// NewSession starts a session on grid using dict.
// It fails only on a malformed grid or a missing dictionary.
func NewSession(grid Grid, dict *words.Dictionary) (*Session, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if dict == nil {
		return nil, ErrNoDictionary
	}
	return &Session{
		ID:       uuid.NewString(),
		Language: dict.Language(),
		grid:     grid,
		dict:     dict,
		tracker:  NewTracker(grid),
		accepted: make(map[string]struct{}),
	}, nil
}

// NewSessionFromRows is NewSession for grids arriving as nested slices.
func NewSessionFromRows(rows [][]string, dict *words.Dictionary) (*Session, error) {
	g, err := ParseGrid(rows)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return NewSession(g, dict)
}

// Grid returns the board the session is played on.
func (s *Session) Grid() Grid { return s.grid }

// Select extends the current path with c.
//
// A refused selection returns VerdictInvalid and leaves the path as it was.
// An accepted one returns VerdictValid when the word so far would score if
// finalized now, VerdictForming otherwise.
func (s *Session) Select(c Cell) Move {
	if !s.tracker.Select(c) {
		return Move{Verdict: VerdictInvalid, Word: s.tracker.Word()}
	}
	w := s.tracker.Word()
	v := VerdictForming
	if Validate(w, s.dict, s.accepted).Accepted() {
		v = VerdictValid
	}
	return Move{Accepted: true, Verdict: v, Word: w}
}

// Finalize submits the current word and clears the path whatever the result.
// Finalizing an empty path is a rejection (too short) and never scores.
func (s *Session) Finalize() Outcome {
	word := s.tracker.Take()
	res := Validate(word, s.dict, s.accepted)
	out := Outcome{Word: word, Verdict: res.Verdict, Reason: res.Reason}
	if !res.Accepted() {
		return out
	}

	w := strings.ToLower(word)
	s.accepted[w] = struct{}{}
	s.found = append(s.found, w)
	out.Points = Score(w)
	s.score += out.Points
	if utf8.RuneCountInString(w) > utf8.RuneCountInString(s.longest) {
		s.longest = w
	}
	return out
}

// Last returns the most recently selected cell of the current path.
func (s *Session) Last() (Cell, bool) { return s.tracker.Last() }

// Word returns the in-progress word.
func (s *Session) Word() string { return s.tracker.Word() }

// Path returns the in-progress path.
func (s *Session) Path() []Cell { return s.tracker.Path() }

// Score returns the running total.
func (s *Session) Score() int { return s.score }

// WordCount returns how many words have been accepted.
func (s *Session) WordCount() int { return len(s.found) }

// Found reports whether word (any case) was already accepted this session.
func (s *Session) Found(word string) bool {
	_, ok := s.accepted[strings.ToLower(word)]
	return ok
}

// Summary returns the totals handed to persistence at session end.
func (s *Session) Summary() Summary {
	return Summary{
		Score:       s.score,
		LongestWord: s.longest,
		TotalWords:  len(s.found),
		Words:       append([]string{}, s.found...),
	}
}
