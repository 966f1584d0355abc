package models

import "time"

// MaxTagNameLen caps tag names; longer names are truncated on create/rename.
const MaxTagNameLen = 30

// DateLayout is the stored form of due dates (YYYY-MM-DD), so lexical order
// is chronological order. An empty string means no date is assigned.
const DateLayout = "2006-01-02"

// Group is a named bucket of tasks. The "all tasks" and "ungrouped" views are
// not groups; they exist only as view selectors and are never stored.
type Group struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Tag is a label applied to tasks by id reference.
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Comment is a note attached to exactly one task or subtask. URL and
// ImagePath are opaque payload fields rendered by the UI.
type Comment struct {
	ID        int       `json:"id"`
	Text      string    `json:"text"`
	URL       string    `json:"url,omitempty"`
	ImagePath string    `json:"image_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Subtask is a checklist entry owned by one task. It carries no group, tags
// or priority of its own.
type Subtask struct {
	ID       int       `json:"id"`
	Text     string    `json:"text"`
	Done     bool      `json:"done"`
	DueDate  string    `json:"due_date,omitempty"`
	Comments []Comment `json:"comments,omitempty"`
}

// Task is a single tracked item. GroupID is nil for ungrouped tasks.
// Priority is 0 (none) to 3 (high). Tags holds tag ids.
type Task struct {
	ID        int       `json:"id"`
	Text      string    `json:"text"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
	GroupID   *int      `json:"group_id"`
	DueDate   string    `json:"due_date,omitempty"`
	Priority  int       `json:"priority"`
	Tags      []int     `json:"tags"`
	Comments  []Comment `json:"comments,omitempty"`
	Subtasks  []Subtask `json:"subtasks,omitempty"`
}

// PriorityLabel names a priority level for display.
func PriorityLabel(p int) string {
	switch p {
	case 1:
		return "low"
	case 2:
		return "medium"
	case 3:
		return "high"
	default:
		return "none"
	}
}

// TruncateTagName enforces the tag name length cap. The cap counts
// characters, not bytes, so multibyte names are never cut mid-rune.
func TruncateTagName(name string) string {
	runes := []rune(name)
	if len(runes) > MaxTagNameLen {
		return string(runes[:MaxTagNameLen])
	}
	return name
}

// NextCommentID derives the next comment id for an owner from its existing
// comments. Comment ids are scoped per owner, not global.
func NextCommentID(comments []Comment) int {
	next := 1
	for _, c := range comments {
		if c.ID >= next {
			next = c.ID + 1
		}
	}
	return next
}

// NextSubtaskID derives the next subtask id for a task.
func NextSubtaskID(subtasks []Subtask) int {
	next := 1
	for _, st := range subtasks {
		if st.ID >= next {
			next = st.ID + 1
		}
	}
	return next
}

// Clone returns a deep copy of the subtask.
func (st Subtask) Clone() Subtask {
	out := st
	out.Comments = append([]Comment(nil), st.Comments...)
	return out
}

// Clone returns a deep copy of the task with no shared slices or pointers.
func (t Task) Clone() Task {
	out := t
	if t.GroupID != nil {
		id := *t.GroupID
		out.GroupID = &id
	}
	out.Tags = append([]int(nil), t.Tags...)
	out.Comments = append([]Comment(nil), t.Comments...)
	if t.Subtasks != nil {
		out.Subtasks = make([]Subtask, len(t.Subtasks))
		for i, st := range t.Subtasks {
			out.Subtasks[i] = st.Clone()
		}
	}
	return out
}

// CloneTasks deep-copies a task slice.
func CloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// CloneGroups copies a group slice.
func CloneGroups(groups []Group) []Group {
	if groups == nil {
		return nil
	}
	return append([]Group(nil), groups...)
}

// CloneTags copies a tag slice.
func CloneTags(tags []Tag) []Tag {
	if tags == nil {
		return nil
	}
	return append([]Tag(nil), tags...)
}
