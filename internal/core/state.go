package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tgb/taskit/internal/models"
)

type selectorKind int

const (
	selectAggregate selectorKind = iota
	selectUngrouped
	selectGroup
)

// GroupSelector identifies which bucket of tasks is on screen: every task,
// the ungrouped default bucket, or one specific group. The first two are
// view-only pseudo-groups and never exist as stored Group records.
type GroupSelector struct {
	kind selectorKind
	id   int
}

// AllTasks selects the aggregate view over every task.
func AllTasks() GroupSelector { return GroupSelector{kind: selectAggregate} }

// UngroupedTasks selects tasks with no group assigned.
func UngroupedTasks() GroupSelector { return GroupSelector{kind: selectUngrouped} }

// InGroup selects tasks belonging to one group.
func InGroup(id int) GroupSelector { return GroupSelector{kind: selectGroup, id: id} }

// IsAggregate reports whether this is the all-tasks view.
func (s GroupSelector) IsAggregate() bool { return s.kind == selectAggregate }

// IsUngrouped reports whether this is the ungrouped bucket.
func (s GroupSelector) IsUngrouped() bool { return s.kind == selectUngrouped }

// GroupID returns the selected group id, if the selector names one.
func (s GroupSelector) GroupID() (int, bool) {
	if s.kind != selectGroup {
		return 0, false
	}
	return s.id, true
}

// MarshalText encodes the selector as "all", "ungrouped" or "group:<id>".
// The settings store persists this between runs.
func (s GroupSelector) MarshalText() ([]byte, error) {
	switch s.kind {
	case selectUngrouped:
		return []byte("ungrouped"), nil
	case selectGroup:
		return []byte("group:" + strconv.Itoa(s.id)), nil
	default:
		return []byte("all"), nil
	}
}

// UnmarshalText is the inverse of MarshalText.
func (s *GroupSelector) UnmarshalText(text []byte) error {
	raw := string(text)
	switch {
	case raw == "all":
		*s = AllTasks()
	case raw == "ungrouped":
		*s = UngroupedTasks()
	case strings.HasPrefix(raw, "group:"):
		id, err := strconv.Atoi(strings.TrimPrefix(raw, "group:"))
		if err != nil {
			return fmt.Errorf("bad view selector %q: %w", raw, err)
		}
		*s = InGroup(id)
	default:
		return fmt.Errorf("unknown view selector %q", raw)
	}
	return nil
}

// Matches reports whether a task belongs to the selected bucket.
func (s GroupSelector) Matches(t models.Task) bool {
	switch s.kind {
	case selectAggregate:
		return true
	case selectUngrouped:
		return t.GroupID == nil
	default:
		return t.GroupID != nil && *t.GroupID == s.id
	}
}

// taskGroupID returns the group id a task would get when created under this
// selector. Only valid for non-aggregate selectors.
func (s GroupSelector) taskGroupID() *int {
	if s.kind != selectGroup {
		return nil
	}
	id := s.id
	return &id
}

// State is the single aggregate of all entity collections, id counters and
// view-selection state. It is mutated only by Tracker commands and replaced
// wholesale by undo/redo and persistence restore.
type State struct {
	Tasks  []models.Task
	Groups []models.Group
	Tags   []models.Tag

	NextTaskID  int
	NextGroupID int
	NextTagID   int

	View   GroupSelector
	Cursor int

	// Filter and Sort are view state: they survive undo/redo untouched
	// and are not part of snapshots.
	Filter FilterCriteria
	Sort   SortCriteria
}

// NewState returns an empty state positioned on the aggregate view.
func NewState() *State {
	return &State{
		NextTaskID:  1,
		NextGroupID: 1,
		NextTagID:   1,
		View:        AllTasks(),
	}
}

// TasksInGroup returns the tasks in the selected bucket, in creation order.
// An unknown group id simply yields an empty result.
func (s *State) TasksInGroup(sel GroupSelector) []models.Task {
	out := make([]models.Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if sel.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// GroupByID looks up a stored group.
func (s *State) GroupByID(id int) (models.Group, bool) {
	for _, g := range s.Groups {
		if g.ID == id {
			return g, true
		}
	}
	return models.Group{}, false
}

// TagByID looks up a stored tag.
func (s *State) TagByID(id int) (models.Tag, bool) {
	for _, t := range s.Tags {
		if t.ID == id {
			return t, true
		}
	}
	return models.Tag{}, false
}

// GroupName resolves a selector to a display name. A task pointing at a
// deleted group renders as ungrouped rather than failing.
func (s *State) GroupName(sel GroupSelector) string {
	switch {
	case sel.IsAggregate():
		return "All"
	case sel.IsUngrouped():
		return "Ungrouped"
	default:
		id, _ := sel.GroupID()
		if g, ok := s.GroupByID(id); ok {
			return g.Name
		}
		return "Ungrouped"
	}
}

// TaskSelector returns the selector for the bucket a task lives in.
func TaskSelector(t models.Task) GroupSelector {
	if t.GroupID == nil {
		return UngroupedTasks()
	}
	return InGroup(*t.GroupID)
}

func (s *State) taskIndex(id int) int {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) groupIndex(id int) int {
	for i := range s.Groups {
		if s.Groups[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) tagIndex(id int) int {
	for i := range s.Tags {
		if s.Tags[i].ID == id {
			return i
		}
	}
	return -1
}
