package views

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgb/taskit/internal/core"
	"github.com/tgb/taskit/internal/models"
)

type filterEntryKind int

const (
	entryStatus filterEntryKind = iota
	entryPriority
	entryNoDate
	entryDate
	entryTag
)

type filterEntry struct {
	kind     filterEntryKind
	label    string
	section  string
	status   core.Status
	priority int
	date     string
	tagID    int
}

// openFilter snapshots the active criteria into a draft and builds the
// toggle list from what the current bucket actually contains.
func (v *TaskListView) openFilter() {
	v.filterDraft = v.tracker.State.Filter
	v.filterCursor = 0
	v.filterEntries = v.buildFilterEntries()
	v.mode = modeFilter
}

func (v *TaskListView) buildFilterEntries() []filterEntry {
	var entries []filterEntry

	entries = append(entries,
		filterEntry{kind: entryStatus, section: "Status", label: "Pending", status: core.StatusPending},
		filterEntry{kind: entryStatus, section: "Status", label: "Completed", status: core.StatusCompleted},
	)

	for p := 0; p <= 3; p++ {
		entries = append(entries, filterEntry{
			kind:     entryPriority,
			section:  "Priority",
			label:    models.PriorityLabel(p),
			priority: p,
		})
	}

	entries = append(entries, filterEntry{kind: entryNoDate, section: "Due date", label: "No due date"})
	for _, d := range v.availableDates() {
		entries = append(entries, filterEntry{kind: entryDate, section: "Due date", label: d, date: d})
	}

	for _, t := range v.tracker.State.Tags {
		entries = append(entries, filterEntry{kind: entryTag, section: "Tags", label: t.Name, tagID: t.ID})
	}
	return entries
}

// availableDates lists the distinct due dates present in the current bucket,
// oldest first.
func (v *TaskListView) availableDates() []string {
	seen := map[string]bool{}
	for _, t := range v.tracker.State.TasksInGroup(v.tracker.State.View) {
		if t.DueDate != "" {
			seen[t.DueDate] = true
		}
	}
	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

func (v *TaskListView) entryChecked(e filterEntry) bool {
	switch e.kind {
	case entryStatus:
		for _, s := range v.filterDraft.Statuses {
			if s == e.status {
				return true
			}
		}
	case entryPriority:
		for _, p := range v.filterDraft.Priorities {
			if p == e.priority {
				return true
			}
		}
	case entryNoDate:
		for _, d := range v.filterDraft.Dates {
			if d.NoDate {
				return true
			}
		}
	case entryDate:
		for _, d := range v.filterDraft.Dates {
			if !d.NoDate && d.Date == e.date {
				return true
			}
		}
	case entryTag:
		return containsID(v.filterDraft.TagIDs, e.tagID)
	}
	return false
}

func (v *TaskListView) toggleEntry(e filterEntry) {
	switch e.kind {
	case entryStatus:
		for i, s := range v.filterDraft.Statuses {
			if s == e.status {
				v.filterDraft.Statuses = append(v.filterDraft.Statuses[:i], v.filterDraft.Statuses[i+1:]...)
				return
			}
		}
		v.filterDraft.Statuses = append(v.filterDraft.Statuses, e.status)

	case entryPriority:
		for i, p := range v.filterDraft.Priorities {
			if p == e.priority {
				v.filterDraft.Priorities = append(v.filterDraft.Priorities[:i], v.filterDraft.Priorities[i+1:]...)
				return
			}
		}
		v.filterDraft.Priorities = append(v.filterDraft.Priorities, e.priority)

	case entryNoDate:
		for i, d := range v.filterDraft.Dates {
			if d.NoDate {
				v.filterDraft.Dates = append(v.filterDraft.Dates[:i], v.filterDraft.Dates[i+1:]...)
				return
			}
		}
		v.filterDraft.Dates = append(v.filterDraft.Dates, core.NoDueDate())

	case entryDate:
		for i, d := range v.filterDraft.Dates {
			if !d.NoDate && d.Date == e.date {
				v.filterDraft.Dates = append(v.filterDraft.Dates[:i], v.filterDraft.Dates[i+1:]...)
				return
			}
		}
		v.filterDraft.Dates = append(v.filterDraft.Dates, core.DueOn(e.date))

	case entryTag:
		for i, id := range v.filterDraft.TagIDs {
			if id == e.tagID {
				v.filterDraft.TagIDs = append(v.filterDraft.TagIDs[:i], v.filterDraft.TagIDs[i+1:]...)
				return
			}
		}
		v.filterDraft.TagIDs = append(v.filterDraft.TagIDs, e.tagID)
	}
}

func (v *TaskListView) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = modeNormal

	case key.Matches(msg, v.keys.Up):
		if v.filterCursor > 0 {
			v.filterCursor--
		}

	case key.Matches(msg, v.keys.Down):
		if v.filterCursor < len(v.filterEntries)-1 {
			v.filterCursor++
		}

	case key.Matches(msg, v.keys.Toggle):
		if v.filterCursor < len(v.filterEntries) {
			v.toggleEntry(v.filterEntries[v.filterCursor])
		}

	case msg.String() == "c":
		v.filterDraft = core.FilterCriteria{}

	case key.Matches(msg, v.keys.Enter):
		v.tracker.SetFilter(v.filterDraft)
		v.mode = modeNormal
		if v.filterDraft.IsZero() {
			v.Notify("filters cleared", false)
		} else {
			v.Notify("filters applied", false)
		}
	}
	return v, nil
}

func (v *TaskListView) viewFilter() string {
	var b strings.Builder
	b.WriteString(v.styles.ModalTitle.Render("Filter"))
	b.WriteString("\n")

	lastSection := ""
	for i, e := range v.filterEntries {
		if e.section != lastSection {
			lastSection = e.section
			b.WriteString("\n" + v.styles.TitleMuted.Render(e.section) + "\n")
		}
		mark := "☐"
		if v.entryChecked(e) {
			mark = "☑"
		}
		line := fmt.Sprintf("%s %s", mark, e.label)
		if i == v.filterCursor {
			line = v.styles.OptionSelected.Render("> " + line)
		} else {
			line = v.styles.Option.Render("  " + line)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("space toggle · c clear · enter apply · esc cancel"))
	return v.styles.Modal.Render(b.String())
}

type sortOption struct {
	label string
	axis  *core.Direction
	dir   core.Direction
}

func (v *TaskListView) sortOptions() []sortOption {
	return []sortOption{
		{"Alphabetical A→Z", &v.sortDraft.Alphabetical, core.DirectionAsc},
		{"Alphabetical Z→A", &v.sortDraft.Alphabetical, core.DirectionDesc},
		{"Due date soonest first", &v.sortDraft.Date, core.DirectionAsc},
		{"Due date latest first", &v.sortDraft.Date, core.DirectionDesc},
		{"Priority low to high", &v.sortDraft.Priority, core.DirectionAsc},
		{"Priority high to low", &v.sortDraft.Priority, core.DirectionDesc},
	}
}

func (v *TaskListView) updateSort(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	opts := v.sortOptions()
	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = modeNormal

	case key.Matches(msg, v.keys.Up):
		if v.sortCursor > 0 {
			v.sortCursor--
		}

	case key.Matches(msg, v.keys.Down):
		if v.sortCursor < len(opts)-1 {
			v.sortCursor++
		}

	case key.Matches(msg, v.keys.Toggle):
		opt := opts[v.sortCursor]
		// re-selecting the active direction turns the axis off
		if *opt.axis == opt.dir {
			*opt.axis = core.DirectionOff
		} else {
			*opt.axis = opt.dir
		}

	case msg.String() == "c":
		v.sortDraft = core.SortCriteria{}

	case key.Matches(msg, v.keys.Enter):
		v.tracker.SetSort(v.sortDraft)
		v.mode = modeNormal
		if v.sortDraft.IsZero() {
			v.Notify("sorting cleared", false)
		} else {
			v.Notify("sorting applied", false)
		}
	}
	return v, nil
}

func (v *TaskListView) viewSort() string {
	var b strings.Builder
	b.WriteString(v.styles.ModalTitle.Render("Sort"))
	b.WriteString("\n\n")
	for i, opt := range v.sortOptions() {
		mark := "○"
		if *opt.axis == opt.dir {
			mark = "●"
		}
		line := fmt.Sprintf("%s %s", mark, opt.label)
		if i == v.sortCursor {
			line = v.styles.OptionSelected.Render("> " + line)
		} else {
			line = v.styles.Option.Render("  " + line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("space select · c clear · enter apply · esc cancel"))
	return v.styles.Modal.Render(b.String())
}
