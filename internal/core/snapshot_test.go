package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgb/taskit/internal/models"
)

func populatedState() *State {
	s := NewState()
	s.Groups = []models.Group{{ID: 1, Name: "work"}}
	s.Tags = []models.Tag{{ID: 1, Name: "urgent"}}
	s.Tasks = []models.Task{
		{
			ID:        1,
			Text:      "ship it",
			CreatedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
			GroupID:   groupID(1),
			DueDate:   "2026-09-01",
			Priority:  2,
			Tags:      []int{1},
			Comments: []models.Comment{
				{ID: 1, Text: "blocked on review", CreatedAt: time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)},
			},
			Subtasks: []models.Subtask{
				{ID: 1, Text: "write", Done: true},
				{ID: 2, Text: "review"},
			},
		},
	}
	s.NextTaskID = 2
	s.NextGroupID = 2
	s.NextTagID = 2
	s.View = InGroup(1)
	return s
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	t.Parallel()

	s := populatedState()
	snap := s.Snapshot()

	other := NewState()
	other.Restore(snap)

	assert.Equal(t, s.Tasks, other.Tasks)
	assert.Equal(t, s.Groups, other.Groups)
	assert.Equal(t, s.Tags, other.Tags)
	assert.Equal(t, s.View, other.View)
	assert.Equal(t, s.NextTaskID, other.NextTaskID)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	t.Parallel()

	s := populatedState()
	snap := s.Snapshot()

	s.Tasks[0].Tags[0] = 99
	s.Tasks[0].Subtasks[0].Text = "mutated"
	s.Tasks[0].Comments[0].Text = "mutated"
	s.Groups[0].Name = "mutated"

	assert.Equal(t, 1, snap.Tasks[0].Tags[0])
	assert.Equal(t, "write", snap.Tasks[0].Subtasks[0].Text)
	assert.Equal(t, "blocked on review", snap.Tasks[0].Comments[0].Text)
	assert.Equal(t, "work", snap.Groups[0].Name)
}

func TestRestoreIsDeepCopy(t *testing.T) {
	t.Parallel()

	snap := populatedState().Snapshot()

	s := NewState()
	s.Restore(snap)
	s.Tasks[0].Subtasks[0].Text = "mutated"
	s.Tasks[0].Tags[0] = 99

	assert.Equal(t, "write", snap.Tasks[0].Subtasks[0].Text)
	assert.Equal(t, 1, snap.Tasks[0].Tags[0])
}

func TestRestoreLeavesFilterAndSort(t *testing.T) {
	t.Parallel()

	s := NewState()
	s.Filter = FilterCriteria{Statuses: []Status{StatusPending}}
	s.Sort = SortCriteria{Date: DirectionAsc}

	s.Restore(populatedState().Snapshot())

	assert.False(t, s.Filter.IsZero())
	assert.False(t, s.Sort.IsZero())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	snap := populatedState().Snapshot()
	data, err := snap.Encode()
	require.NoError(t, err)

	got, err := DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestDecodeSnapshotRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := DecodeSnapshot([]byte("not json at all"))
	assert.Error(t, err)
}

func TestDecodeSnapshotNormalizesCounters(t *testing.T) {
	t.Parallel()

	got, err := DecodeSnapshot([]byte(`{"tasks":[],"groups":[],"tags":[]}`))
	require.NoError(t, err)
	assert.Equal(t, 1, got.NextTaskID)
	assert.Equal(t, 1, got.NextGroupID)
	assert.Equal(t, 1, got.NextTagID)
}

func TestViewSnapshotModes(t *testing.T) {
	t.Parallel()

	cases := []GroupSelector{AllTasks(), UngroupedTasks(), InGroup(3)}
	for _, sel := range cases {
		s := NewState()
		s.View = sel
		other := NewState()
		other.Restore(s.Snapshot())
		assert.Equal(t, sel, other.View)
	}
}

func TestSelectorTextRoundTrip(t *testing.T) {
	t.Parallel()

	cases := map[string]GroupSelector{
		"all":       AllTasks(),
		"ungrouped": UngroupedTasks(),
		"group:7":   InGroup(7),
	}
	for want, sel := range cases {
		text, err := sel.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, want, string(text))

		var got GroupSelector
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, sel, got)
	}
}

func TestSelectorUnmarshalRejectsGarbage(t *testing.T) {
	t.Parallel()

	var sel GroupSelector
	assert.Error(t, sel.UnmarshalText([]byte("sideways")))
	assert.Error(t, sel.UnmarshalText([]byte("group:seven")))
	assert.Error(t, sel.UnmarshalText([]byte("")))
}

func TestNewTrackerFromStartsWithEmptyHistory(t *testing.T) {
	t.Parallel()

	tr := NewTrackerFrom(populatedState().Snapshot())

	assert.Len(t, tr.State.Tasks, 1)
	assert.ErrorIs(t, tr.Undo(), ErrNothingToUndo)
}
