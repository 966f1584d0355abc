package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgb/taskit/internal/models"
)

func newTestTracker() *Tracker {
	tr := NewTracker()
	tr.now = func() time.Time {
		return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	}
	return tr
}

func TestAddTaskRefusedOnAggregateView(t *testing.T) {
	t.Parallel()

	tr := newTestTracker()
	require.True(t, tr.State.View.IsAggregate())

	_, err := tr.AddTask("orphan")
	assert.ErrorIs(t, err, ErrAggregateGroup)
	assert.Empty(t, tr.State.Tasks)
	assert.Zero(t, tr.History.UndoDepth())
}

func TestAddTaskUsesCurrentBucket(t *testing.T) {
	t.Parallel()

	tr := newTestTracker()

	tr.SelectView(UngroupedTasks())
	loose, err := tr.AddTask("loose")
	require.NoError(t, err)
	assert.Nil(t, loose.GroupID)

	g := tr.CreateGroup("work")
	grouped, err := tr.AddTask("grouped")
	require.NoError(t, err)
	require.NotNil(t, grouped.GroupID)
	assert.Equal(t, g.ID, *grouped.GroupID)

	// ids keep counting across buckets
	assert.Equal(t, 1, loose.ID)
	assert.Equal(t, 2, grouped.ID)
}

func TestUndoRedoRoundTrip(t *testing.T) {
	t.Parallel()

	tr := newTestTracker()
	tr.SelectView(UngroupedTasks())
	task, err := tr.AddTask("write report")
	require.NoError(t, err)

	before := tr.State.Snapshot()
	_, ok := tr.ToggleTask(task.ID)
	require.True(t, ok)
	after := tr.State.Snapshot()

	require.NoError(t, tr.Undo())
	assert.Equal(t, before, tr.State.Snapshot())

	require.NoError(t, tr.Redo())
	assert.Equal(t, after, tr.State.Snapshot())
}

func TestUndoEmptyReturnsSentinel(t *testing.T) {
	t.Parallel()

	tr := newTestTracker()
	assert.ErrorIs(t, tr.Undo(), ErrNothingToUndo)
	assert.ErrorIs(t, tr.Redo(), ErrNothingToRedo)
}

func TestRedoClearedByNewMutation(t *testing.T) {
	t.Parallel()

	tr := newTestTracker()
	tr.SelectView(UngroupedTasks())
	_, err := tr.AddTask("one")
	require.NoError(t, err)
	_, err = tr.AddTask("two")
	require.NoError(t, err)

	require.NoError(t, tr.Undo())
	assert.Equal(t, 1, tr.History.RedoDepth())

	_, err = tr.AddTask("three")
	require.NoError(t, err)
	assert.Zero(t, tr.History.RedoDepth())
	assert.ErrorIs(t, tr.Redo(), ErrNothingToRedo)
}

func TestUndoDoesNotClearRedo(t *testing.T) {
	t.Parallel()

	tr := newTestTracker()
	tr.SelectView(UngroupedTasks())
	for _, text := range []string{"a", "b", "c"} {
		_, err := tr.AddTask(text)
		require.NoError(t, err)
	}

	require.NoError(t, tr.Undo())
	require.NoError(t, tr.Undo())
	assert.Equal(t, 2, tr.History.RedoDepth())

	require.NoError(t, tr.Redo())
	assert.Equal(t, 1, tr.History.RedoDepth())
	assert.Equal(t, 2, tr.History.UndoDepth())
}

func TestHistoryBoundedDropsOldest(t *testing.T) {
	t.Parallel()

	tr := newTestTracker()
	tr.SelectView(UngroupedTasks())
	task, err := tr.AddTask("counter")
	require.NoError(t, err)

	for i := 0; i < 59; i++ {
		_, ok := tr.ToggleTask(task.ID)
		require.True(t, ok)
	}
	assert.Equal(t, HistoryLimit, tr.History.UndoDepth())

	for i := 0; i < HistoryLimit; i++ {
		require.NoError(t, tr.Undo())
	}
	assert.ErrorIs(t, tr.Undo(), ErrNothingToUndo)

	// 50 of the 59 toggles were rewound; the task survives because its
	// creation fell off the stack
	require.Len(t, tr.State.Tasks, 1)
	assert.True(t, tr.State.Tasks[0].Done)
}

func TestNoOpCommandsRecordNothing(t *testing.T) {
	t.Parallel()

	tr := newTestTracker()

	assert.False(t, tr.DeleteTask(99))
	_, ok := tr.ToggleTask(99)
	assert.False(t, ok)
	assert.False(t, tr.EditTask(99, TaskEdit{Text: "x"}))
	assert.False(t, tr.RenameGroup(99, "x"))
	_, ok = tr.DeleteGroup(99)
	assert.False(t, ok)
	assert.False(t, tr.DeleteTag(99))
	assert.Zero(t, tr.AssignDueDate([]int{99}, "2026-09-01"))

	assert.Zero(t, tr.History.UndoDepth())
}

func TestViewFilterSortNotUndoable(t *testing.T) {
	t.Parallel()

	tr := newTestTracker()

	tr.SelectView(UngroupedTasks())
	tr.SetFilter(FilterCriteria{Statuses: []Status{StatusPending}})
	tr.SetSort(SortCriteria{Date: DirectionAsc})
	tr.ResetFilters()

	assert.Zero(t, tr.History.UndoDepth())
	assert.ErrorIs(t, tr.Undo(), ErrNothingToUndo)
}

func TestUndoLeavesFilterAndSortAlone(t *testing.T) {
	t.Parallel()

	tr := newTestTracker()
	tr.SelectView(UngroupedTasks())
	_, err := tr.AddTask("task")
	require.NoError(t, err)

	filter := FilterCriteria{Statuses: []Status{StatusPending}}
	sortBy := SortCriteria{Priority: DirectionDesc}
	tr.SetFilter(filter)
	tr.SetSort(sortBy)

	require.NoError(t, tr.Undo())

	assert.Equal(t, filter, tr.State.Filter)
	assert.Equal(t, sortBy, tr.State.Sort)
}

func TestDeleteGroupCascadesToTasks(t *testing.T) {
	t.Parallel()

	tr := newTestTracker()
	g := tr.CreateGroup("doomed")
	_, err := tr.AddTask("in group")
	require.NoError(t, err)
	_, err = tr.AddTask("also in group")
	require.NoError(t, err)

	tr.SelectView(UngroupedTasks())
	_, err = tr.AddTask("survivor")
	require.NoError(t, err)

	removed, ok := tr.DeleteGroup(g.ID)
	require.True(t, ok)
	assert.Equal(t, 2, removed)
	require.Len(t, tr.State.Tasks, 1)
	assert.Equal(t, "survivor", tr.State.Tasks[0].Text)
	assert.True(t, tr.State.View.IsUngrouped())

	// the cascade is one undo step
	require.NoError(t, tr.Undo())
	assert.Len(t, tr.State.Tasks, 3)
	assert.Len(t, tr.State.Groups, 1)
}

func TestDeleteTagScrubsTaskReferences(t *testing.T) {
	t.Parallel()

	tr := newTestTracker()
	tr.SelectView(UngroupedTasks())
	urgent := tr.CreateTag("urgent")
	later := tr.CreateTag("later")

	task, err := tr.AddTask("tagged")
	require.NoError(t, err)
	require.True(t, tr.ToggleTaskTag(task.ID, urgent.ID))
	require.True(t, tr.ToggleTaskTag(task.ID, later.ID))

	require.True(t, tr.DeleteTag(urgent.ID))

	require.Len(t, tr.State.Tasks, 1)
	assert.Equal(t, []int{later.ID}, tr.State.Tasks[0].Tags)
}

func TestToggleTaskTagRefusesUnknownTag(t *testing.T) {
	t.Parallel()

	tr := newTestTracker()
	tr.SelectView(UngroupedTasks())
	task, err := tr.AddTask("plain")
	require.NoError(t, err)

	assert.False(t, tr.ToggleTaskTag(task.ID, 42))
	assert.Empty(t, tr.State.Tasks[0].Tags)
}

func TestAssignDueDateIsOneUndoStep(t *testing.T) {
	t.Parallel()

	tr := newTestTracker()
	tr.SelectView(UngroupedTasks())
	a, err := tr.AddTask("a")
	require.NoError(t, err)
	b, err := tr.AddTask("b")
	require.NoError(t, err)

	depth := tr.History.UndoDepth()
	n := tr.AssignDueDate([]int{a.ID, b.ID, 99}, "2026-09-15")
	assert.Equal(t, 2, n)
	assert.Equal(t, depth+1, tr.History.UndoDepth())
	assert.Equal(t, "2026-09-15", tr.State.Tasks[0].DueDate)
	assert.Equal(t, "2026-09-15", tr.State.Tasks[1].DueDate)

	require.NoError(t, tr.Undo())
	assert.Empty(t, tr.State.Tasks[0].DueDate)
	assert.Empty(t, tr.State.Tasks[1].DueDate)
}

func TestEditTaskMovingGroupFollowsTask(t *testing.T) {
	t.Parallel()

	tr := newTestTracker()
	g := tr.CreateGroup("target")
	tr.SelectView(UngroupedTasks())
	task, err := tr.AddTask("mover")
	require.NoError(t, err)

	id := g.ID
	ok := tr.EditTask(task.ID, TaskEdit{Text: "mover", GroupID: &id})
	require.True(t, ok)

	got, found := tr.State.View.GroupID()
	require.True(t, found)
	assert.Equal(t, g.ID, got)
}

func TestEditTaskClampsPriority(t *testing.T) {
	t.Parallel()

	tr := newTestTracker()
	tr.SelectView(UngroupedTasks())
	task, err := tr.AddTask("p")
	require.NoError(t, err)

	require.True(t, tr.EditTask(task.ID, TaskEdit{Text: "p", Priority: 9}))
	assert.Equal(t, 3, tr.State.Tasks[0].Priority)

	require.True(t, tr.EditTask(task.ID, TaskEdit{Text: "p", Priority: -1}))
	assert.Equal(t, 0, tr.State.Tasks[0].Priority)
}

func TestCreateTagTruncatesName(t *testing.T) {
	t.Parallel()

	tr := newTestTracker()
	long := "abcdefghijklmnopqrstuvwxyz-0123456789"
	tag := tr.CreateTag(long)

	assert.Len(t, tag.Name, models.MaxTagNameLen)
	assert.Equal(t, long[:models.MaxTagNameLen], tag.Name)
}

func TestSubtasksAndComments(t *testing.T) {
	t.Parallel()

	tr := newTestTracker()
	tr.SelectView(UngroupedTasks())
	task, err := tr.AddTask("parent")
	require.NoError(t, err)

	require.True(t, tr.AddSubtask(task.ID, "step one"))
	require.True(t, tr.AddSubtask(task.ID, "step two"))
	require.True(t, tr.AddComment(task.ID, "note", "https://example.com", ""))

	got := tr.State.Tasks[0]
	require.Len(t, got.Subtasks, 2)
	assert.Equal(t, 1, got.Subtasks[0].ID)
	assert.Equal(t, 2, got.Subtasks[1].ID)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "https://example.com", got.Comments[0].URL)

	require.True(t, tr.ToggleSubtask(task.ID, 1))
	assert.True(t, tr.State.Tasks[0].Subtasks[0].Done)

	require.True(t, tr.AddSubtaskComment(task.ID, 1, "sub note", ""))
	assert.Len(t, tr.State.Tasks[0].Subtasks[0].Comments, 1)

	require.True(t, tr.DeleteSubtask(task.ID, 1))
	require.Len(t, tr.State.Tasks[0].Subtasks, 1)
	assert.Equal(t, 2, tr.State.Tasks[0].Subtasks[0].ID)

	require.True(t, tr.DeleteComment(task.ID, got.Comments[0].ID))
	assert.Empty(t, tr.State.Tasks[0].Comments)
}

func TestEditComment(t *testing.T) {
	t.Parallel()

	tr := newTestTracker()
	tr.SelectView(UngroupedTasks())
	task, err := tr.AddTask("commented")
	require.NoError(t, err)
	require.True(t, tr.AddComment(task.ID, "draft", "https://old.example.com", ""))

	commentID := tr.State.Tasks[0].Comments[0].ID
	require.True(t, tr.EditComment(task.ID, commentID, "final", "https://new.example.com"))

	got := tr.State.Tasks[0].Comments[0]
	assert.Equal(t, "final", got.Text)
	assert.Equal(t, "https://new.example.com", got.URL)

	// the edit is one undo step
	require.NoError(t, tr.Undo())
	assert.Equal(t, "draft", tr.State.Tasks[0].Comments[0].Text)
}

func TestEditCommentUnknownIDsRecordNothing(t *testing.T) {
	t.Parallel()

	tr := newTestTracker()
	tr.SelectView(UngroupedTasks())
	task, err := tr.AddTask("commented")
	require.NoError(t, err)
	require.True(t, tr.AddComment(task.ID, "note", "", ""))
	depth := tr.History.UndoDepth()

	assert.False(t, tr.EditComment(task.ID, 99, "x", ""))
	assert.False(t, tr.EditComment(99, 1, "x", ""))

	assert.Equal(t, depth, tr.History.UndoDepth())
	assert.Equal(t, "note", tr.State.Tasks[0].Comments[0].Text)
}

func TestSearchFindsAcrossGroups(t *testing.T) {
	t.Parallel()

	tr := newTestTracker()
	tr.CreateGroup("work")
	_, err := tr.AddTask("Write REPORT draft")
	require.NoError(t, err)
	tr.SelectView(UngroupedTasks())
	_, err = tr.AddTask("report taxes")
	require.NoError(t, err)
	_, err = tr.AddTask("unrelated")
	require.NoError(t, err)

	results := tr.Search("report")
	require.Len(t, results, 2)
	assert.Equal(t, "work", results[0].GroupName)
	assert.Equal(t, "Ungrouped", results[1].GroupName)

	assert.Empty(t, tr.Search("  "))
}

func TestJumpToTaskSwitchesViewAndCursor(t *testing.T) {
	t.Parallel()

	tr := newTestTracker()
	g := tr.CreateGroup("work")
	target, err := tr.AddTask("target")
	require.NoError(t, err)
	tr.SelectView(UngroupedTasks())

	tr.JumpToTask(target)

	id, ok := tr.State.View.GroupID()
	require.True(t, ok)
	assert.Equal(t, g.ID, id)

	current, ok := tr.State.CursorTask()
	require.True(t, ok)
	assert.Equal(t, target.ID, current.ID)
}

func TestStatsCountVisibleBucket(t *testing.T) {
	t.Parallel()

	tr := newTestTracker()
	tr.SelectView(UngroupedTasks())
	a, err := tr.AddTask("a")
	require.NoError(t, err)
	_, err = tr.AddTask("b")
	require.NoError(t, err)
	_, ok := tr.ToggleTask(a.ID)
	require.True(t, ok)

	st := tr.Stats()
	assert.Equal(t, Stats{Total: 2, Done: 1, Pending: 1}, st)

	tr.SetFilter(FilterCriteria{Statuses: []Status{StatusPending}})
	assert.Equal(t, Stats{Total: 1, Pending: 1}, tr.Stats())
}
