package core

import "github.com/tgb/taskit/internal/models"

// Ordered produces the sequence the UI cursors over: the current bucket is
// filtered, split into pending and completed partitions (each still in
// creation order), each partition is sorted independently, and the pending
// partition always precedes the completed one. Sorting never moves a task
// across the partition boundary.
func (s *State) Ordered() []models.Task {
	visible := s.Filter.Apply(s.TasksInGroup(s.View))

	var pending, completed []models.Task
	for _, t := range visible {
		if t.Done {
			completed = append(completed, t)
		} else {
			pending = append(pending, t)
		}
	}

	out := s.Sort.Apply(pending)
	return append(out, s.Sort.Apply(completed)...)
}

// ClampCursor forces the cursor back into [0, len(ordered)) after the
// ordered sequence shrinks or a restore lands on a shorter list.
func (s *State) ClampCursor() {
	n := len(s.Ordered())
	if n == 0 {
		s.Cursor = 0
		return
	}
	if s.Cursor < 0 {
		s.Cursor = 0
	}
	if s.Cursor >= n {
		s.Cursor = n - 1
	}
}

// MoveCursor shifts the cursor by delta, clamped to the ordered sequence.
func (s *State) MoveCursor(delta int) {
	s.Cursor += delta
	s.ClampCursor()
}

// CursorTask returns the task under the cursor, if any.
func (s *State) CursorTask() (models.Task, bool) {
	ordered := s.Ordered()
	if len(ordered) == 0 || s.Cursor < 0 || s.Cursor >= len(ordered) {
		return models.Task{}, false
	}
	return ordered[s.Cursor], true
}

// CursorTo positions the cursor on the given task if it is visible,
// otherwise clamps in place.
func (s *State) CursorTo(taskID int) {
	for i, t := range s.Ordered() {
		if t.ID == taskID {
			s.Cursor = i
			return
		}
	}
	s.ClampCursor()
}
