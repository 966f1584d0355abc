package core

import (
	"sort"
	"strings"

	"github.com/tgb/taskit/internal/models"
)

// Direction toggles one sort axis.
type Direction int

const (
	DirectionOff Direction = iota
	DirectionAsc
	DirectionDesc
)

// SortCriteria holds the three independently toggleable sort axes.
//
// Apply runs one stable pass per active axis in the fixed order
// alphabetical, date, priority. Because every pass is stable, the axis
// applied last dominates: with all three active the observed order is
// priority, then date, then text. The passes must stay separate; folding
// them into one comparator changes the tie-breaks when only some axes
// are active.
type SortCriteria struct {
	Alphabetical Direction
	Date         Direction
	Priority     Direction
}

// IsZero reports whether every axis is off.
func (c SortCriteria) IsZero() bool {
	return c.Alphabetical == DirectionOff && c.Date == DirectionOff && c.Priority == DirectionOff
}

// Apply returns tasks in the order the criteria dictate. The input slice is
// never modified; axes that are off pass the collection through unchanged.
func (c SortCriteria) Apply(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	copy(out, tasks)

	if c.Alphabetical != DirectionOff {
		desc := c.Alphabetical == DirectionDesc
		sort.SliceStable(out, func(i, j int) bool {
			a := strings.ToLower(out[i].Text)
			b := strings.ToLower(out[j].Text)
			if desc {
				return a > b
			}
			return a < b
		})
	}

	if c.Date != DirectionOff {
		desc := c.Date == DirectionDesc
		sort.SliceStable(out, func(i, j int) bool {
			// tasks without a due date sort last in either direction
			if out[i].DueDate == "" || out[j].DueDate == "" {
				return out[i].DueDate != "" && out[j].DueDate == ""
			}
			if desc {
				return out[i].DueDate > out[j].DueDate
			}
			return out[i].DueDate < out[j].DueDate
		})
	}

	if c.Priority != DirectionOff {
		desc := c.Priority == DirectionDesc
		sort.SliceStable(out, func(i, j int) bool {
			if desc {
				return out[i].Priority > out[j].Priority
			}
			return out[i].Priority < out[j].Priority
		})
	}

	return out
}
