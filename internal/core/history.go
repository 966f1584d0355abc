package core

import "errors"

// HistoryLimit bounds both stacks; the oldest entry is dropped silently
// when a push overflows.
const HistoryLimit = 50

var (
	// ErrNothingToUndo is informational, not a fault: the undo stack is empty.
	ErrNothingToUndo = errors.New("nothing to undo")
	// ErrNothingToRedo is the redo-side counterpart.
	ErrNothingToRedo = errors.New("nothing to redo")
)

// History provides linear undo/redo over full-state snapshots.
type History struct {
	undo []Snapshot
	redo []Snapshot
}

func push(stack []Snapshot, snap Snapshot) []Snapshot {
	stack = append(stack, snap)
	if len(stack) > HistoryLimit {
		copy(stack, stack[1:])
		stack = stack[:HistoryLimit]
	}
	return stack
}

// Record pushes a pre-mutation snapshot onto the undo stack. Any new
// mutation invalidates the redo history, so the redo stack is cleared
// unconditionally.
func (h *History) Record(snap Snapshot) {
	h.undo = push(h.undo, snap)
	h.redo = nil
}

// Undo exchanges the current state for the most recent undo snapshot: the
// caller's current snapshot moves to the redo stack and the popped snapshot
// is returned for restoring.
func (h *History) Undo(current Snapshot) (Snapshot, error) {
	if len(h.undo) == 0 {
		return Snapshot{}, ErrNothingToUndo
	}
	h.redo = push(h.redo, current)
	snap := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	return snap, nil
}

// Redo is symmetric to Undo. Unlike Record it does not clear the opposite
// stack.
func (h *History) Redo(current Snapshot) (Snapshot, error) {
	if len(h.redo) == 0 {
		return Snapshot{}, ErrNothingToRedo
	}
	h.undo = push(h.undo, current)
	snap := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	return snap, nil
}

// UndoDepth reports how many undo steps are available.
func (h *History) UndoDepth() int { return len(h.undo) }

// RedoDepth reports how many redo steps are available.
func (h *History) RedoDepth() int { return len(h.redo) }
