package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tgb/taskit/internal/models"
)

func groupID(id int) *int { return &id }

func TestFilterZeroMatchesEverything(t *testing.T) {
	t.Parallel()

	tasks := []models.Task{
		{ID: 1, Text: "a", DueDate: "2026-09-01", Priority: 3, Tags: []int{1}},
		{ID: 2, Text: "b", Done: true},
	}

	var c FilterCriteria
	assert.True(t, c.IsZero())
	assert.Equal(t, tasks, c.Apply(tasks))
}

func TestFilterDatesMatchAnySelected(t *testing.T) {
	t.Parallel()

	tasks := []models.Task{
		{ID: 1, DueDate: "2026-09-01"},
		{ID: 2, DueDate: "2026-09-02"},
		{ID: 3},
	}

	c := FilterCriteria{Dates: []DateFilter{DueOn("2026-09-01"), NoDueDate()}}
	got := c.Apply(tasks)

	assert.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, 3, got[1].ID)
}

func TestFilterZeroValueDateMatchesNothing(t *testing.T) {
	t.Parallel()

	c := FilterCriteria{Dates: []DateFilter{{}}}
	assert.Empty(t, c.Apply([]models.Task{{ID: 1}, {ID: 2, DueDate: "2026-09-01"}}))
}

func TestFilterTagsRequireEverySelectedTag(t *testing.T) {
	t.Parallel()

	tasks := []models.Task{
		{ID: 1, Tags: []int{1, 2}},
		{ID: 2, Tags: []int{1}},
		{ID: 3, Tags: []int{2}},
	}

	c := FilterCriteria{TagIDs: []int{1, 2}}
	got := c.Apply(tasks)

	assert.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)
}

func TestFilterStatuses(t *testing.T) {
	t.Parallel()

	tasks := []models.Task{
		{ID: 1},
		{ID: 2, Done: true},
	}

	pending := FilterCriteria{Statuses: []Status{StatusPending}}
	completed := FilterCriteria{Statuses: []Status{StatusCompleted}}
	both := FilterCriteria{Statuses: []Status{StatusPending, StatusCompleted}}
	unknown := FilterCriteria{Statuses: []Status{"archived"}}

	assert.Equal(t, []models.Task{tasks[0]}, pending.Apply(tasks))
	assert.Equal(t, []models.Task{tasks[1]}, completed.Apply(tasks))
	assert.Equal(t, tasks, both.Apply(tasks))
	assert.Empty(t, unknown.Apply(tasks))
}

func TestFilterPriorities(t *testing.T) {
	t.Parallel()

	tasks := []models.Task{
		{ID: 1, Priority: 0},
		{ID: 2, Priority: 2},
		{ID: 3, Priority: 3},
	}

	c := FilterCriteria{Priorities: []int{2, 3}}
	got := c.Apply(tasks)

	assert.Len(t, got, 2)
	assert.Equal(t, 2, got[0].ID)
	assert.Equal(t, 3, got[1].ID)
}

func TestFilterDimensionsCombineWithAnd(t *testing.T) {
	t.Parallel()

	// only task 1 satisfies every dimension; 2 misses the tag, 3 the date,
	// 4 the priority and 5 the status
	tasks := []models.Task{
		{ID: 1, DueDate: "2026-09-01", Priority: 2, Tags: []int{1}},
		{ID: 2, DueDate: "2026-09-01", Priority: 2},
		{ID: 3, DueDate: "2026-09-02", Priority: 2, Tags: []int{1}},
		{ID: 4, DueDate: "2026-09-01", Priority: 0, Tags: []int{1}},
		{ID: 5, DueDate: "2026-09-01", Priority: 2, Done: true, Tags: []int{1}},
	}

	c := FilterCriteria{
		Dates:      []DateFilter{DueOn("2026-09-01")},
		TagIDs:     []int{1},
		Statuses:   []Status{StatusPending},
		Priorities: []int{2},
	}
	got := c.Apply(tasks)

	assert.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)
}

func TestFilterApplyPreservesOrderAndInput(t *testing.T) {
	t.Parallel()

	tasks := []models.Task{
		{ID: 3, Priority: 1},
		{ID: 1, Priority: 1},
		{ID: 2, Priority: 0},
	}
	original := append([]models.Task(nil), tasks...)

	c := FilterCriteria{Priorities: []int{1}}
	got := c.Apply(tasks)

	assert.Equal(t, []int{3, 1}, []int{got[0].ID, got[1].ID})
	assert.Equal(t, original, tasks)
}
