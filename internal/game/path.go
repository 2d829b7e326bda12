package game

// Tracker accumulates the cells selected for one candidate word.
//
// It is Empty until the first cell is selected and Forming afterwards.
// Every cell after the first neighbors its predecessor and no cell repeats;
// Select refuses anything else without touching the path.
type Tracker struct {
	grid Grid
	path []Cell
	used [Size * Size]bool
	word string
}

// NewTracker returns an empty tracker over grid.
func NewTracker(grid Grid) *Tracker {
	return &Tracker{grid: grid, path: make([]Cell, 0, Size*Size)}
}

// Select tries to extend the path with c and reports whether it was accepted.
func (t *Tracker) Select(c Cell) bool {
	if !c.InBounds() {
		return false
	}
	if last, ok := t.Last(); ok {
		if t.used[c.index()] || !last.IsNeighbor(c) {
			return false
		}
	}
	t.path = append(t.path, c)
	t.used[c.index()] = true
	t.word += t.grid.At(c)
	return true
}

// Forming reports whether at least one cell is selected.
func (t *Tracker) Forming() bool { return len(t.path) > 0 }

// Last returns the most recently selected cell.
func (t *Tracker) Last() (Cell, bool) {
	if len(t.path) == 0 {
		return Cell{}, false
	}
	return t.path[len(t.path)-1], true
}

// Contains reports whether c is already on the path.
func (t *Tracker) Contains(c Cell) bool {
	return c.InBounds() && t.used[c.index()]
}

// Path returns a copy of the selected cells in order.
func (t *Tracker) Path() []Cell {
	return append([]Cell(nil), t.path...)
}

// Word returns the letters selected so far, as they appear on the grid.
func (t *Tracker) Word() string { return t.word }

// Take returns the accumulated word and resets the tracker to Empty.
func (t *Tracker) Take() string {
	w := t.word
	t.Reset()
	return w
}

// Reset clears the path without returning it.
func (t *Tracker) Reset() {
	t.path = t.path[:0]
	t.used = [Size * Size]bool{}
	t.word = ""
}
