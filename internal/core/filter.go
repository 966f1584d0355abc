package core

import "github.com/tgb/taskit/internal/models"

// Status is one selectable value of the status filter dimension.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// DateFilter is one selected value of the date dimension: either the
// "no due date" sentinel or an exact ISO day.
type DateFilter struct {
	NoDate bool   `json:"no_date,omitempty"`
	Date   string `json:"date,omitempty"`
}

// NoDueDate selects tasks without an assigned date.
func NoDueDate() DateFilter { return DateFilter{NoDate: true} }

// DueOn selects tasks due exactly on the given YYYY-MM-DD day.
func DueOn(date string) DateFilter { return DateFilter{Date: date} }

func (f DateFilter) matches(t models.Task) bool {
	if f.NoDate {
		return t.DueDate == ""
	}
	// a zero-value filter matches nothing
	return f.Date != "" && t.DueDate == f.Date
}

// FilterCriteria holds the four filter dimensions. Dimensions combine with
// AND; an empty dimension is disabled and lets every task through. Within
// the date, status and priority dimensions a task passes if it matches any
// selected value. The tag dimension is the exception: a task passes only if
// it carries every selected tag.
type FilterCriteria struct {
	Dates      []DateFilter
	TagIDs     []int
	Statuses   []Status
	Priorities []int
}

// IsZero reports whether no dimension is active.
func (c FilterCriteria) IsZero() bool {
	return len(c.Dates) == 0 && len(c.TagIDs) == 0 && len(c.Statuses) == 0 && len(c.Priorities) == 0
}

// Apply reduces tasks to those matching the criteria. Input order is
// preserved and the input slice is never modified.
func (c FilterCriteria) Apply(tasks []models.Task) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if c.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Matches reports whether a single task passes every active dimension.
func (c FilterCriteria) Matches(t models.Task) bool {
	if len(c.Dates) > 0 && !c.matchesDate(t) {
		return false
	}
	if len(c.TagIDs) > 0 && !hasAllTags(t, c.TagIDs) {
		return false
	}
	if len(c.Statuses) > 0 && !c.matchesStatus(t) {
		return false
	}
	if len(c.Priorities) > 0 && !containsInt(c.Priorities, t.Priority) {
		return false
	}
	return true
}

func (c FilterCriteria) matchesDate(t models.Task) bool {
	for _, f := range c.Dates {
		if f.matches(t) {
			return true
		}
	}
	return false
}

func (c FilterCriteria) matchesStatus(t models.Task) bool {
	for _, s := range c.Statuses {
		switch s {
		case StatusCompleted:
			if t.Done {
				return true
			}
		case StatusPending:
			if !t.Done {
				return true
			}
		}
	}
	return false
}

func hasAllTags(t models.Task, tagIDs []int) bool {
	for _, want := range tagIDs {
		if !containsInt(t.Tags, want) {
			return false
		}
	}
	return true
}

func containsInt(haystack []int, needle int) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}
