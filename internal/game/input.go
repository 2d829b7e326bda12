package game

// Board is what the input adapters drive. *Session implements it.
type Board interface {
	Select(c Cell) Move
	Finalize() Outcome
	Last() (Cell, bool)
}

// Event is the result of one raw input event. Move is set when the event
// selected (or tried to select) a cell, Outcome when it finalized a word.
type Event struct {
	Move    *Move    `json:"move,omitempty"`
	Outcome *Outcome `json:"outcome,omitempty"`
}

// ClickAdapter maps discrete clicks onto a Board: clicking the last selected
// cell again finalizes the word, any other click is a selection.
type ClickAdapter struct {
	b Board
}

func NewClickAdapter(b Board) *ClickAdapter { return &ClickAdapter{b: b} }

// Click handles one click on c.
func (a *ClickAdapter) Click(c Cell) Event {
	if last, ok := a.b.Last(); ok && last == c {
		out := a.b.Finalize()
		return Event{Outcome: &out}
	}
	m := a.b.Select(c)
	return Event{Move: &m}
}

// DragAdapter maps pointer press/enter/release onto a Board. Entering cells
// only extends the path while the pointer is down; release finalizes.
type DragAdapter struct {
	b    Board
	down bool
}

func NewDragAdapter(b Board) *DragAdapter { return &DragAdapter{b: b} }

// Press starts a new path at c. A path left over from an earlier gesture is
// finalized first and its outcome returned alongside the move.
func (a *DragAdapter) Press(c Cell) Event {
	var ev Event
	if _, ok := a.b.Last(); ok {
		out := a.b.Finalize()
		ev.Outcome = &out
	}
	a.down = true
	m := a.b.Select(c)
	ev.Move = &m
	return ev
}

// Enter extends the path with c while the pointer is down.
func (a *DragAdapter) Enter(c Cell) Event {
	if !a.down {
		return Event{}
	}
	m := a.b.Select(c)
	return Event{Move: &m}
}

// Release ends the gesture and finalizes the word.
func (a *DragAdapter) Release() Event {
	if !a.down {
		return Event{}
	}
	a.down = false
	out := a.b.Finalize()
	return Event{Outcome: &out}
}

// Down reports whether a drag gesture is in progress.
func (a *DragAdapter) Down() bool { return a.down }
