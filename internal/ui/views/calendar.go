package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgb/taskit/internal/core"
	"github.com/tgb/taskit/internal/models"
	"github.com/tgb/taskit/internal/ui/keys"
	"github.com/tgb/taskit/internal/ui/styles"
)

// CalendarView shows a month grid with due-date markers and can assign the
// selected day to unscheduled tasks in bulk.
type CalendarView struct {
	tracker *core.Tracker
	styles  *styles.Styles
	keys    keys.KeyMap

	cursor time.Time // the selected day, truncated to midnight

	assigning    bool
	candidates   []models.Task // unscheduled tasks of the current bucket
	selected     map[int]bool
	assignCursor int

	status string
}

// NewCalendarView opens the calendar on today.
func NewCalendarView(tracker *core.Tracker, s *styles.Styles, k keys.KeyMap) *CalendarView {
	now := time.Now()
	return &CalendarView{
		tracker: tracker,
		styles:  s,
		keys:    k,
		cursor:  time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local),
	}
}

// Update handles a key press. done reports that the calendar should close.
func (c *CalendarView) Update(msg tea.KeyMsg) (done bool, cmd tea.Cmd) {
	if c.assigning {
		return false, c.updateAssign(msg)
	}

	switch {
	case key.Matches(msg, c.keys.Back), key.Matches(msg, c.keys.Calendar):
		return true, nil

	case key.Matches(msg, c.keys.Quit):
		return false, tea.Quit

	case key.Matches(msg, c.keys.Left):
		c.cursor = c.cursor.AddDate(0, 0, -1)

	case key.Matches(msg, c.keys.Right):
		c.cursor = c.cursor.AddDate(0, 0, 1)

	case key.Matches(msg, c.keys.Up):
		c.cursor = c.cursor.AddDate(0, 0, -7)

	case key.Matches(msg, c.keys.Down):
		c.cursor = c.cursor.AddDate(0, 0, 7)

	case msg.String() == "p":
		c.cursor = c.cursor.AddDate(0, -1, 0)

	case msg.String() == "n":
		c.cursor = c.cursor.AddDate(0, 1, 0)

	case key.Matches(msg, c.keys.Today):
		now := time.Now()
		c.cursor = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)

	case key.Matches(msg, c.keys.New):
		c.startAssign()
	}
	return false, nil
}

func (c *CalendarView) startAssign() {
	c.candidates = c.candidates[:0]
	for _, t := range c.tracker.State.TasksInGroup(c.tracker.State.View) {
		if t.DueDate == "" && !t.Done {
			c.candidates = append(c.candidates, t)
		}
	}
	if len(c.candidates) == 0 {
		c.status = "no unscheduled tasks in this group"
		return
	}
	c.assigning = true
	c.selected = map[int]bool{}
	c.assignCursor = 0
	c.status = ""
}

func (c *CalendarView) updateAssign(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, c.keys.Back):
		c.assigning = false

	case key.Matches(msg, c.keys.Up):
		if c.assignCursor > 0 {
			c.assignCursor--
		}

	case key.Matches(msg, c.keys.Down):
		if c.assignCursor < len(c.candidates)-1 {
			c.assignCursor++
		}

	case key.Matches(msg, c.keys.Toggle):
		id := c.candidates[c.assignCursor].ID
		c.selected[id] = !c.selected[id]

	case key.Matches(msg, c.keys.Enter):
		var ids []int
		for _, t := range c.candidates {
			if c.selected[t.ID] {
				ids = append(ids, t.ID)
			}
		}
		date := c.cursor.Format(models.DateLayout)
		if n := c.tracker.AssignDueDate(ids, date); n > 0 {
			c.status = fmt.Sprintf("assigned %s to %d tasks (u to undo)", date, n)
		}
		c.assigning = false
	}
	return nil
}

// tasksDueOn maps due dates of the current bucket to how many tasks carry
// them.
func (c *CalendarView) tasksDueOn() map[string]int {
	counts := map[string]int{}
	for _, t := range c.tracker.State.TasksInGroup(c.tracker.State.View) {
		if t.DueDate != "" {
			counts[t.DueDate]++
		}
	}
	return counts
}

// View renders the month grid plus the selected day's task list.
func (c *CalendarView) View() string {
	if c.assigning {
		return c.viewAssign()
	}

	var b strings.Builder
	b.WriteString(c.styles.Title.Render(c.cursor.Format("January 2006")))
	b.WriteString("  ")
	b.WriteString(c.styles.TitleMuted.Render(c.tracker.State.GroupName(c.tracker.State.View)))
	b.WriteString("\n\n")
	b.WriteString(c.styles.TitleMuted.Render(" Mo  Tu  We  Th  Fr  Sa  Su"))
	b.WriteString("\n")

	counts := c.tasksDueOn()
	today := time.Now().Format(models.DateLayout)

	first := time.Date(c.cursor.Year(), c.cursor.Month(), 1, 0, 0, 0, 0, time.Local)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	// Monday-first column for day 1
	lead := (int(first.Weekday()) + 6) % 7

	b.WriteString(strings.Repeat("    ", lead))
	col := lead
	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(c.cursor.Year(), c.cursor.Month(), day, 0, 0, 0, 0, time.Local)
		iso := date.Format(models.DateLayout)

		cell := fmt.Sprintf("%3d", day)
		switch {
		case date.Equal(c.cursor):
			cell = c.styles.CalendarCursor.Render(cell)
		case iso == today:
			cell = c.styles.CalendarToday.Render(cell)
		case counts[iso] > 0:
			cell = c.styles.CalendarBusy.Render(cell)
		}
		b.WriteString(cell)

		marker := " "
		if counts[iso] > 0 {
			marker = "."
		}
		b.WriteString(marker)

		col++
		if col == 7 {
			b.WriteString("\n")
			col = 0
		}
	}
	if col != 0 {
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(c.viewDayTasks())
	if c.status != "" {
		b.WriteString("\n" + c.styles.StatusBar.Render(c.status))
	}
	b.WriteString("\n")
	b.WriteString(c.styles.Help.Render("arrows move · n/p month · T today · a assign tasks · esc back"))
	return b.String()
}

func (c *CalendarView) viewDayTasks() string {
	iso := c.cursor.Format(models.DateLayout)
	var due []models.Task
	for _, t := range c.tracker.State.TasksInGroup(c.tracker.State.View) {
		if t.DueDate == iso {
			due = append(due, t)
		}
	}

	var b strings.Builder
	b.WriteString(c.styles.ModalTitle.Render("Due " + iso))
	b.WriteString("\n")
	if len(due) == 0 {
		b.WriteString(c.styles.TitleMuted.Render("  nothing due"))
		return b.String()
	}
	for _, t := range due {
		checkbox := "[ ]"
		if t.Done {
			checkbox = "[x]"
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", checkbox, t.Text))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (c *CalendarView) viewAssign() string {
	var b strings.Builder
	title := fmt.Sprintf("Assign %s", c.cursor.Format(models.DateLayout))
	b.WriteString(c.styles.ModalTitle.Render(title))
	b.WriteString("\n\n")

	for i, t := range c.candidates {
		mark := "☐"
		if c.selected[t.ID] {
			mark = "☑"
		}
		line := fmt.Sprintf("%s %s", mark, t.Text)
		if i == c.assignCursor {
			line = c.styles.OptionSelected.Render("> " + line)
		} else {
			line = c.styles.Option.Render("  " + line)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(c.styles.Help.Render("space select · enter assign · esc cancel"))
	return c.styles.Modal.Render(b.String())
}
