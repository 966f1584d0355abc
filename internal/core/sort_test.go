package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tgb/taskit/internal/models"
)

func taskIDs(tasks []models.Task) []int {
	ids := make([]int, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

func TestSortZeroPassesThrough(t *testing.T) {
	t.Parallel()

	tasks := []models.Task{{ID: 2, Text: "b"}, {ID: 1, Text: "a"}}

	var c SortCriteria
	assert.True(t, c.IsZero())
	assert.Equal(t, []int{2, 1}, taskIDs(c.Apply(tasks)))
}

func TestSortAlphabeticalIgnoresCase(t *testing.T) {
	t.Parallel()

	tasks := []models.Task{
		{ID: 1, Text: "banana"},
		{ID: 2, Text: "Apple"},
		{ID: 3, Text: "cherry"},
	}

	asc := SortCriteria{Alphabetical: DirectionAsc}
	desc := SortCriteria{Alphabetical: DirectionDesc}

	assert.Equal(t, []int{2, 1, 3}, taskIDs(asc.Apply(tasks)))
	assert.Equal(t, []int{3, 1, 2}, taskIDs(desc.Apply(tasks)))
}

func TestSortUndatedTasksAlwaysLast(t *testing.T) {
	t.Parallel()

	tasks := []models.Task{
		{ID: 1},
		{ID: 2, DueDate: "2026-09-02"},
		{ID: 3, DueDate: "2026-09-01"},
		{ID: 4},
	}

	asc := SortCriteria{Date: DirectionAsc}
	desc := SortCriteria{Date: DirectionDesc}

	assert.Equal(t, []int{3, 2, 1, 4}, taskIDs(asc.Apply(tasks)))
	assert.Equal(t, []int{2, 3, 1, 4}, taskIDs(desc.Apply(tasks)))
}

func TestSortStableWithinEqualKeys(t *testing.T) {
	t.Parallel()

	tasks := []models.Task{
		{ID: 1, Priority: 1},
		{ID: 2, Priority: 1},
		{ID: 3, Priority: 1},
	}

	c := SortCriteria{Priority: DirectionDesc}
	assert.Equal(t, []int{1, 2, 3}, taskIDs(c.Apply(tasks)))
}

func TestSortLastActiveAxisDominates(t *testing.T) {
	t.Parallel()

	tasks := []models.Task{
		{ID: 1, Text: "b", DueDate: "2026-09-02", Priority: 1},
		{ID: 2, Text: "a", DueDate: "2026-09-01", Priority: 1},
		{ID: 3, Text: "c", DueDate: "2026-09-01", Priority: 2},
	}

	c := SortCriteria{
		Alphabetical: DirectionAsc,
		Date:         DirectionAsc,
		Priority:     DirectionDesc,
	}

	// priority groups first, dates break ties inside a group, then text
	assert.Equal(t, []int{3, 2, 1}, taskIDs(c.Apply(tasks)))
}

func TestSortSingleAxisLeavesOthersAsTieBreakOfInputOrder(t *testing.T) {
	t.Parallel()

	tasks := []models.Task{
		{ID: 1, Text: "z", Priority: 2},
		{ID: 2, Text: "a", Priority: 0},
		{ID: 3, Text: "m", Priority: 2},
	}

	c := SortCriteria{Priority: DirectionDesc}
	// text never considered: ids 1 and 3 keep creation order
	assert.Equal(t, []int{1, 3, 2}, taskIDs(c.Apply(tasks)))
}

func TestSortDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	tasks := []models.Task{
		{ID: 2, Text: "b"},
		{ID: 1, Text: "a"},
	}
	original := append([]models.Task(nil), tasks...)

	c := SortCriteria{Alphabetical: DirectionAsc}
	_ = c.Apply(tasks)

	assert.Equal(t, original, tasks)
}
