package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgb/taskit/internal/models"
)

func TestOrderedPendingBeforeCompleted(t *testing.T) {
	t.Parallel()

	s := NewState()
	s.View = UngroupedTasks()
	s.Tasks = []models.Task{
		{ID: 1, Text: "done early", Done: true},
		{ID: 2, Text: "open"},
		{ID: 3, Text: "done late", Done: true},
		{ID: 4, Text: "also open"},
	}

	assert.Equal(t, []int{2, 4, 1, 3}, taskIDs(s.Ordered()))
}

func TestOrderedSortsPartitionsIndependently(t *testing.T) {
	t.Parallel()

	s := NewState()
	s.View = UngroupedTasks()
	s.Sort = SortCriteria{Alphabetical: DirectionAsc}
	s.Tasks = []models.Task{
		{ID: 1, Text: "zebra"},
		{ID: 2, Text: "aardvark", Done: true},
		{ID: 3, Text: "mole"},
	}

	// "aardvark" sorts first alphabetically but stays in the completed
	// partition at the end
	assert.Equal(t, []int{3, 1, 2}, taskIDs(s.Ordered()))
}

func TestOrderedAppliesFilterBeforePartition(t *testing.T) {
	t.Parallel()

	s := NewState()
	s.View = UngroupedTasks()
	s.Filter = FilterCriteria{Priorities: []int{2}}
	s.Tasks = []models.Task{
		{ID: 1, Priority: 2},
		{ID: 2, Priority: 0},
		{ID: 3, Priority: 2, Done: true},
	}

	assert.Equal(t, []int{1, 3}, taskIDs(s.Ordered()))
}

func TestOrderedRespectsViewBucket(t *testing.T) {
	t.Parallel()

	s := NewState()
	s.Tasks = []models.Task{
		{ID: 1},
		{ID: 2, GroupID: groupID(7)},
	}

	s.View = AllTasks()
	assert.Equal(t, []int{1, 2}, taskIDs(s.Ordered()))

	s.View = UngroupedTasks()
	assert.Equal(t, []int{1}, taskIDs(s.Ordered()))

	s.View = InGroup(7)
	assert.Equal(t, []int{2}, taskIDs(s.Ordered()))

	s.View = InGroup(99)
	assert.Empty(t, s.Ordered())
}

func TestCursorClampsToOrderedLength(t *testing.T) {
	t.Parallel()

	s := NewState()
	s.View = UngroupedTasks()
	s.Tasks = []models.Task{{ID: 1}, {ID: 2}}

	s.Cursor = 5
	s.ClampCursor()
	assert.Equal(t, 1, s.Cursor)

	s.Cursor = -3
	s.ClampCursor()
	assert.Equal(t, 0, s.Cursor)

	s.Tasks = nil
	s.Cursor = 1
	s.ClampCursor()
	assert.Equal(t, 0, s.Cursor)
}

func TestCursorMoveAndLookup(t *testing.T) {
	t.Parallel()

	s := NewState()
	s.View = UngroupedTasks()
	s.Tasks = []models.Task{{ID: 1}, {ID: 2}, {ID: 3}}

	s.MoveCursor(2)
	current, ok := s.CursorTask()
	require.True(t, ok)
	assert.Equal(t, 3, current.ID)

	s.MoveCursor(5)
	current, _ = s.CursorTask()
	assert.Equal(t, 3, current.ID)

	s.CursorTo(2)
	current, _ = s.CursorTask()
	assert.Equal(t, 2, current.ID)

	// hidden target clamps in place
	s.Filter = FilterCriteria{Priorities: []int{3}}
	s.CursorTo(1)
	_, ok = s.CursorTask()
	assert.False(t, ok)
	assert.Equal(t, 0, s.Cursor)
}
