package history

// History holds the undo and redo stacks.
type History struct {
	undo  []Command
	redo  []Command
	limit int
}

// New returns an empty history keeping at most limit undo steps. A limit
// of zero or less keeps every step.
func New(limit int) *History {
	return &History{limit: limit}
}

func release(commands []Command) {
	for _, c := range commands {
		if r, ok := c.(releaser); ok {
			r.Release()
		}
	}
}

// Push records a new undo step and discards anything that could be redone.
func (h *History) Push(c Command) {
	release(h.redo)
	h.redo = nil

	h.undo = append(h.undo, c)
	if h.limit > 0 && len(h.undo) > h.limit {
		// Evict oldest
		n := len(h.undo) - h.limit
		release(h.undo[:n])
		h.undo = append(h.undo[:0], h.undo[n:]...)
	}
}

// Undo reverts the most recent step. It returns false if there was nothing
// to undo.
func (h *History) Undo() bool {
	if len(h.undo) == 0 {
		return false
	}
	c := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, c.Execute())
	return true
}

// Redo reapplies the most recently undone step. It returns false if there
// was nothing to redo.
func (h *History) Redo() bool {
	if len(h.redo) == 0 {
		return false
	}
	c := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, c.Execute())
	return true
}

// CanUndo reports whether Undo would do anything.
func (h *History) CanUndo() bool {
	return len(h.undo) > 0
}

// CanRedo reports whether Redo would do anything.
func (h *History) CanRedo() bool {
	return len(h.redo) > 0
}

// Len returns the number of undo and redo steps held.
func (h *History) Len() (undo, redo int) {
	return len(h.undo), len(h.redo)
}

// Reset empties both stacks.
func (h *History) Reset() {
	release(h.undo)
	release(h.redo)
	h.undo, h.redo = nil, nil
}
