package core

import (
	"encoding/json"
	"fmt"

	"github.com/tgb/taskit/internal/models"
)

// ViewSnapshot is the serialized form of a GroupSelector.
type ViewSnapshot struct {
	Mode    string `json:"mode"` // "all", "ungrouped" or "group"
	GroupID int    `json:"group_id,omitempty"`
}

// Snapshot is a deep, self-contained copy of the entire entity store plus
// the current view selection. It backs both undo/redo and persistence; it
// shares no mutable references with live state.
type Snapshot struct {
	NextTaskID  int            `json:"next_task_id"`
	NextGroupID int            `json:"next_group_id"`
	NextTagID   int            `json:"next_tag_id"`
	View        ViewSnapshot   `json:"view"`
	Cursor      int            `json:"cursor"`
	Groups      []models.Group `json:"groups"`
	Tags        []models.Tag   `json:"tags"`
	Tasks       []models.Task  `json:"tasks"`
}

func snapshotView(sel GroupSelector) ViewSnapshot {
	switch {
	case sel.IsAggregate():
		return ViewSnapshot{Mode: "all"}
	case sel.IsUngrouped():
		return ViewSnapshot{Mode: "ungrouped"}
	default:
		id, _ := sel.GroupID()
		return ViewSnapshot{Mode: "group", GroupID: id}
	}
}

func restoreView(v ViewSnapshot) GroupSelector {
	switch v.Mode {
	case "ungrouped":
		return UngroupedTasks()
	case "group":
		return InGroup(v.GroupID)
	default:
		return AllTasks()
	}
}

// Snapshot captures the current state. The copy is deep: later mutation of
// live state cannot leak into a snapshot sitting on an undo stack.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		NextTaskID:  s.NextTaskID,
		NextGroupID: s.NextGroupID,
		NextTagID:   s.NextTagID,
		View:        snapshotView(s.View),
		Cursor:      s.Cursor,
		Groups:      models.CloneGroups(s.Groups),
		Tags:        models.CloneTags(s.Tags),
		Tasks:       models.CloneTasks(s.Tasks),
	}
}

// Restore replaces the entire entity store and view selection with the
// snapshot contents. The snapshot itself is copied, so a snapshot kept on
// the opposite stack stays independent of subsequent mutation. Filter and
// sort criteria are view state and are left as they are.
func (s *State) Restore(snap Snapshot) {
	s.NextTaskID = snap.NextTaskID
	s.NextGroupID = snap.NextGroupID
	s.NextTagID = snap.NextTagID
	s.View = restoreView(snap.View)
	s.Cursor = snap.Cursor
	s.Groups = models.CloneGroups(snap.Groups)
	s.Tags = models.CloneTags(snap.Tags)
	s.Tasks = models.CloneTasks(snap.Tasks)
	s.ClampCursor()
}

// Encode serializes a snapshot for the persistence collaborator.
func (snap Snapshot) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses persisted snapshot bytes. Callers treat any error
// as "start empty"; there is no partial recovery.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	if snap.NextTaskID < 1 {
		snap.NextTaskID = 1
	}
	if snap.NextGroupID < 1 {
		snap.NextGroupID = 1
	}
	if snap.NextTagID < 1 {
		snap.NextTagID = 1
	}
	return snap, nil
}
