// internal/game/types.go
//
// Core type definitions for the grid game engine.
// Defines:
//   - Cell:    a (row, col) position on the 4x4 board.
//   - Grid:    the immutable 4x4 letter matrix.
//   - Verdict: feedback for a single interaction (forming/valid/invalid/accepted/rejected).
//   - Reason:  why a finalized word was rejected.

package game

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Size is the side length of every grid.
const Size = 4

// ErrMalformedGrid is returned when grid input is not a 4x4 matrix of single letters.
var ErrMalformedGrid = errors.New("malformed grid")

// Cell is a 0-indexed board position.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InBounds reports whether c lies on the board.
func (c Cell) InBounds() bool {
	return c.Row >= 0 && c.Row < Size && c.Col >= 0 && c.Col < Size
}

// IsNeighbor reports 8-directional adjacency. A cell is not its own neighbor.
func (c Cell) IsNeighbor(o Cell) bool {
	if c == o {
		return false
	}
	return abs(c.Row-o.Row) <= 1 && abs(c.Col-o.Col) <= 1
}

// index maps an in-bounds cell to 0..15 in row-major order.
func (c Cell) index() int { return c.Row*Size + c.Col }

func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.Row, c.Col) }

// offsets lists the 8 neighbor directions: vertical, horizontal, then diagonals.
var offsets = [8][2]int{
	{-1, 0}, {1, 0},
	{0, -1}, {0, 1},
	{-1, -1}, {-1, 1},
	{1, -1}, {1, 1},
}

// Grid is a 4x4 matrix of uppercase letters, indexed [row][col].
type Grid [Size][Size]string

// At returns the letter at c, or "" when c is off the board.
func (g Grid) At(c Cell) string {
	if !c.InBounds() {
		return ""
	}
	return g[c.Row][c.Col]
}

// Rows returns the grid as nested slices (the persistence/wire shape).
func (g Grid) Rows() [][]string {
	out := make([][]string, Size)
	for r := range Size {
		out[r] = append([]string(nil), g[r][:]...)
	}
	return out
}

// String renders the grid one row per line, letters separated by spaces.
func (g Grid) String() string {
	var sb strings.Builder
	for r := range Size {
		sb.WriteString(strings.Join(g[r][:], " "))
		if r < Size-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Validate checks that every cell holds exactly one letter.
func (g Grid) Validate() error {
	for r := range Size {
		for c := range Size {
			s := g[r][c]
			if utf8.RuneCountInString(s) != 1 {
				return fmt.Errorf("%w: cell (%d,%d) must hold one letter, got %q", ErrMalformedGrid, r, c, s)
			}
			if ch, _ := utf8.DecodeRuneInString(s); !unicode.IsLetter(ch) {
				return fmt.Errorf("%w: cell (%d,%d) is not a letter: %q", ErrMalformedGrid, r, c, s)
			}
		}
	}
	return nil
}

// ParseGrid converts nested rows (as stored or received over the wire) into a Grid.
// Letters are uppercased. Anything other than 4 rows of 4 single letters is
// rejected with ErrMalformedGrid.
func ParseGrid(rows [][]string) (Grid, error) {
	var g Grid
	if len(rows) != Size {
		return g, fmt.Errorf("%w: want %d rows, got %d", ErrMalformedGrid, Size, len(rows))
	}
	for r, row := range rows {
		if len(row) != Size {
			return g, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedGrid, r, len(row), Size)
		}
		for c, s := range row {
			g[r][c] = strings.ToUpper(strings.TrimSpace(s))
		}
	}
	if err := g.Validate(); err != nil {
		return Grid{}, err
	}
	return g, nil
}

// Verdict is the feedback for one interaction, consumed by the presentation layer.
type Verdict string

const (
	VerdictForming  Verdict = "forming"  // path in progress; current word would not score
	VerdictValid    Verdict = "valid"    // path in progress; current word would score
	VerdictInvalid  Verdict = "invalid"  // selection refused, path unchanged
	VerdictAccepted Verdict = "accepted" // word finalized and scored
	VerdictRejected Verdict = "rejected" // word finalized without score
)

// Reason explains a rejected word.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonTooShort        Reason = "too_short"
	ReasonDuplicate       Reason = "duplicate"
	ReasonNotInDictionary Reason = "not_in_dictionary"
)

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
