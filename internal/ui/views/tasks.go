package views

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgb/taskit/internal/core"
	"github.com/tgb/taskit/internal/models"
	"github.com/tgb/taskit/internal/ui/keys"
	"github.com/tgb/taskit/internal/ui/styles"
)

type mode int

const (
	modeNormal mode = iota
	modePrompt
	modeEdit
	modeConfirm
	modeFilter
	modeSort
	modeTags
	modeDetail
	modeResults
	modeGroupOptions
	modeCalendar
	modeHelp
)

type promptKind int

const (
	promptAddTask promptKind = iota
	promptNewGroup
	promptRenameGroup
	promptAddTag
	promptRenameTag
	promptSearch
	promptAddSubtask
	promptEditSubtask
	promptAddComment
	promptEditComment
	promptAddSubtaskComment
)

type confirmKind int

const (
	confirmDeleteTask confirmKind = iota
	confirmDeleteGroup
	confirmDeleteTag
)

// TaskListView is the main screen: group tabs, the ordered task list, and
// every modal state layered on top of it.
type TaskListView struct {
	tracker *core.Tracker
	styles  *styles.Styles
	keys    keys.KeyMap

	width  int
	height int

	mode      mode
	status    string
	statusErr bool

	// shared single-line prompt
	input           textinput.Model
	prompt          promptKind
	promptTaskID    int
	promptSubID     int
	promptTagID     int
	promptCommentID int

	// edit form
	editTaskID   int
	editTitle    textinput.Model
	editDue      textinput.Model
	editPriority textinput.Model
	editFocusIdx int // 0=title 1=due 2=priority 3=tags 4=group
	editTags     []int
	editTagIdx   int
	editGroupIdx int // index into groupChoices()

	// delete confirmation
	confirm     confirmKind
	confirmID   int
	confirmName string

	// filter modal
	filterEntries []filterEntry
	filterCursor  int
	filterDraft   core.FilterCriteria

	// sort modal
	sortDraft  core.SortCriteria
	sortCursor int

	// tag manager
	tagCursor int

	// detail view
	detailTaskID int
	detailCursor int

	// search results
	results      []core.SearchResult
	resultCursor int

	// group options
	groupOptCursor int

	calendar *CalendarView
}

// NewTaskListView creates the main view over a tracker.
func NewTaskListView(tracker *core.Tracker) *TaskListView {
	s := styles.NewStyles()

	input := textinput.New()
	input.CharLimit = 200
	input.Width = 46

	editTitle := textinput.New()
	editTitle.Placeholder = "Task text"
	editTitle.CharLimit = 200
	editTitle.Width = 46

	editDue := textinput.New()
	editDue.Placeholder = "YYYY-MM-DD (empty for none)"
	editDue.CharLimit = 10
	editDue.Width = 26

	editPriority := textinput.New()
	editPriority.Placeholder = "0-3"
	editPriority.CharLimit = 1
	editPriority.Width = 4

	return &TaskListView{
		tracker:      tracker,
		styles:       s,
		keys:         keys.DefaultKeyMap(),
		input:        input,
		editTitle:    editTitle,
		editDue:      editDue,
		editPriority: editPriority,
		status:       "a add · space toggle · f filter · s sort · u undo · ? help",
	}
}

// Init implements tea.Model.
func (v *TaskListView) Init() tea.Cmd {
	return nil
}

// Notify sets the status line; used by the app for autosave failures.
func (v *TaskListView) Notify(msg string, isErr bool) {
	v.status = msg
	v.statusErr = isErr
}

// Update handles messages.
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		switch v.mode {
		case modePrompt:
			return v.updatePrompt(msg)
		case modeEdit:
			return v.updateEdit(msg)
		case modeConfirm:
			return v.updateConfirm(msg)
		case modeFilter:
			return v.updateFilter(msg)
		case modeSort:
			return v.updateSort(msg)
		case modeTags:
			return v.updateTags(msg)
		case modeDetail:
			return v.updateDetail(msg)
		case modeResults:
			return v.updateResults(msg)
		case modeGroupOptions:
			return v.updateGroupOptions(msg)
		case modeCalendar:
			return v.updateCalendar(msg)
		case modeHelp:
			v.mode = modeNormal
			return v, nil
		default:
			return v.updateNormal(msg)
		}
	}
	return v, nil
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := v.tracker.State

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Up):
		st.MoveCursor(-1)

	case key.Matches(msg, v.keys.Down):
		st.MoveCursor(1)

	case key.Matches(msg, v.keys.Left):
		v.cycleGroup(-1)

	case key.Matches(msg, v.keys.Right):
		v.cycleGroup(1)

	case key.Matches(msg, v.keys.New):
		if st.View.IsAggregate() {
			v.Notify("cannot add tasks in the All view, pick a group first", true)
			return v, nil
		}
		return v.openPrompt(promptAddTask, "New task", ""), textinput.Blink

	case key.Matches(msg, v.keys.Toggle):
		if t, ok := st.CursorTask(); ok {
			if toggled, ok := v.tracker.ToggleTask(t.ID); ok {
				if toggled.Done {
					v.Notify("task completed (u to undo)", false)
				} else {
					v.Notify("task reopened (u to undo)", false)
				}
			}
		}

	case key.Matches(msg, v.keys.Edit):
		if t, ok := st.CursorTask(); ok {
			v.openEdit(t)
			return v, textinput.Blink
		}

	case key.Matches(msg, v.keys.Delete):
		if t, ok := st.CursorTask(); ok {
			v.mode = modeConfirm
			v.confirm = confirmDeleteTask
			v.confirmID = t.ID
			v.confirmName = t.Text
		}

	case key.Matches(msg, v.keys.Enter):
		if t, ok := st.CursorTask(); ok {
			v.mode = modeDetail
			v.detailTaskID = t.ID
			v.detailCursor = 0
		}

	case key.Matches(msg, v.keys.Filter):
		v.openFilter()

	case key.Matches(msg, v.keys.Sort):
		v.sortDraft = st.Sort
		v.sortCursor = 0
		v.mode = modeSort

	case key.Matches(msg, v.keys.Reset):
		v.tracker.ResetFilters()
		v.Notify("filters reset", false)

	case key.Matches(msg, v.keys.Search):
		return v.openPrompt(promptSearch, "Search", ""), textinput.Blink

	case key.Matches(msg, v.keys.Tags):
		v.tagCursor = 0
		v.mode = modeTags

	case key.Matches(msg, v.keys.Undo):
		if err := v.tracker.Undo(); err != nil {
			v.Notify(err.Error(), false)
		} else {
			v.Notify(fmt.Sprintf("undone (%d steps left)", v.tracker.History.UndoDepth()), false)
		}

	case key.Matches(msg, v.keys.Redo):
		if err := v.tracker.Redo(); err != nil {
			v.Notify(err.Error(), false)
		} else {
			v.Notify(fmt.Sprintf("redone (%d steps left)", v.tracker.History.RedoDepth()), false)
		}

	case key.Matches(msg, v.keys.Calendar):
		v.calendar = NewCalendarView(v.tracker, v.styles, v.keys)
		v.mode = modeCalendar

	case key.Matches(msg, v.keys.NewGroup):
		return v.openPrompt(promptNewGroup, "New group", ""), textinput.Blink

	case key.Matches(msg, v.keys.Group):
		if _, ok := st.View.GroupID(); ok {
			v.groupOptCursor = 0
			v.mode = modeGroupOptions
		}

	case key.Matches(msg, v.keys.Help):
		v.mode = modeHelp
	}

	return v, nil
}

// groupChoices returns the selectable buckets in tab order. Index 0 is the
// aggregate view, 1 the ungrouped bucket, then every stored group.
func (v *TaskListView) groupChoices() []core.GroupSelector {
	choices := []core.GroupSelector{core.AllTasks(), core.UngroupedTasks()}
	for _, g := range v.tracker.State.Groups {
		choices = append(choices, core.InGroup(g.ID))
	}
	return choices
}

func (v *TaskListView) cycleGroup(dir int) {
	choices := v.groupChoices()
	current := 0
	for i, c := range choices {
		if c == v.tracker.State.View {
			current = i
			break
		}
	}
	next := (current + dir + len(choices)) % len(choices)
	v.tracker.SelectView(choices[next])
}

func (v *TaskListView) openPrompt(kind promptKind, placeholder, initial string) *TaskListView {
	v.prompt = kind
	v.input.Placeholder = placeholder
	v.input.SetValue(initial)
	v.input.Focus()
	v.mode = modePrompt
	return v
}

func (v *TaskListView) closePrompt(to mode) {
	v.input.Blur()
	v.input.SetValue("")
	v.mode = to
}

func (v *TaskListView) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.closePrompt(v.promptReturnMode())
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		value := strings.TrimSpace(v.input.Value())
		return v.submitPrompt(value)

	default:
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
}

// promptReturnMode names the mode a prompt falls back to on cancel or
// completion.
func (v *TaskListView) promptReturnMode() mode {
	switch v.prompt {
	case promptAddSubtask, promptEditSubtask, promptAddComment, promptEditComment, promptAddSubtaskComment:
		return modeDetail
	case promptAddTag, promptRenameTag:
		return modeTags
	}
	return modeNormal
}

func (v *TaskListView) submitPrompt(value string) (tea.Model, tea.Cmd) {
	back := v.promptReturnMode()
	if value == "" {
		v.closePrompt(back)
		return v, nil
	}

	switch v.prompt {
	case promptAddTask:
		if _, err := v.tracker.AddTask(value); err != nil {
			v.Notify(err.Error(), true)
		} else {
			v.Notify("task created (u to undo)", false)
		}

	case promptNewGroup:
		v.tracker.CreateGroup(value)
		v.Notify("group created (u to undo)", false)

	case promptRenameGroup:
		if id, ok := v.tracker.State.View.GroupID(); ok {
			v.tracker.RenameGroup(id, value)
			v.Notify("group renamed (u to undo)", false)
		}

	case promptAddTag:
		v.tracker.CreateTag(value)

	case promptRenameTag:
		v.tracker.RenameTag(v.promptTagID, value)

	case promptSearch:
		v.closePrompt(modeNormal)
		return v.runSearch(value)

	case promptAddSubtask:
		v.tracker.AddSubtask(v.promptTaskID, value)

	case promptEditSubtask:
		if _, st, ok := v.subtaskByID(v.promptTaskID, v.promptSubID); ok {
			v.tracker.EditSubtask(v.promptTaskID, v.promptSubID, value, st.DueDate)
		}

	case promptAddComment:
		v.tracker.AddComment(v.promptTaskID, value, "", "")

	case promptEditComment:
		if c, ok := v.commentByID(v.promptTaskID, v.promptCommentID); ok {
			v.tracker.EditComment(v.promptTaskID, v.promptCommentID, value, c.URL)
		}

	case promptAddSubtaskComment:
		v.tracker.AddSubtaskComment(v.promptTaskID, v.promptSubID, value, "")
	}

	v.closePrompt(back)
	return v, nil
}

func (v *TaskListView) runSearch(query string) (tea.Model, tea.Cmd) {
	results := v.tracker.Search(query)
	switch len(results) {
	case 0:
		v.Notify(fmt.Sprintf("no tasks matching %q", query), true)
	case 1:
		v.tracker.JumpToTask(results[0].Task)
		v.Notify("jumped to match", false)
	default:
		v.results = results
		v.resultCursor = 0
		v.mode = modeResults
	}
	return v, nil
}

func (v *TaskListView) commentByID(taskID, commentID int) (models.Comment, bool) {
	if i := indexOfTask(v.tracker.State.Tasks, taskID); i >= 0 {
		for _, c := range v.tracker.State.Tasks[i].Comments {
			if c.ID == commentID {
				return c, true
			}
		}
	}
	return models.Comment{}, false
}

func (v *TaskListView) subtaskByID(taskID, subID int) (models.Task, models.Subtask, bool) {
	for _, t := range v.tracker.State.Tasks {
		if t.ID != taskID {
			continue
		}
		for _, st := range t.Subtasks {
			if st.ID == subID {
				return t, st, true
			}
		}
	}
	return models.Task{}, models.Subtask{}, false
}

func (v *TaskListView) openEdit(t models.Task) {
	v.mode = modeEdit
	v.editTaskID = t.ID
	v.editFocusIdx = 0
	v.editTagIdx = 0
	v.editTitle.SetValue(t.Text)
	v.editDue.SetValue(t.DueDate)
	v.editPriority.SetValue(strconv.Itoa(t.Priority))
	v.editTags = append([]int(nil), t.Tags...)

	v.editGroupIdx = 0
	for i, c := range v.editGroupChoices() {
		if c == core.TaskSelector(t) {
			v.editGroupIdx = i
			break
		}
	}
	v.setEditFocus()
}

// editGroupChoices excludes the aggregate view; a task always belongs to a
// real bucket.
func (v *TaskListView) editGroupChoices() []core.GroupSelector {
	choices := []core.GroupSelector{core.UngroupedTasks()}
	for _, g := range v.tracker.State.Groups {
		choices = append(choices, core.InGroup(g.ID))
	}
	return choices
}

func (v *TaskListView) setEditFocus() {
	v.editTitle.Blur()
	v.editDue.Blur()
	v.editPriority.Blur()
	switch v.editFocusIdx {
	case 0:
		v.editTitle.Focus()
	case 1:
		v.editDue.Focus()
	case 2:
		v.editPriority.Focus()
	}
}

func (v *TaskListView) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = modeNormal
		return v, nil

	case msg.String() == "ctrl+s":
		return v.saveEdit()

	case msg.String() == "tab":
		v.editFocusIdx = (v.editFocusIdx + 1) % 5
		v.setEditFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + 4) % 5
		v.setEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.editFocusIdx < 4 {
			v.editFocusIdx++
			v.setEditFocus()
			return v, nil
		}
		return v.saveEdit()

	case msg.String() == " ":
		if v.editFocusIdx == 3 {
			v.toggleEditTag()
			return v, nil
		}

	case key.Matches(msg, v.keys.Up):
		if v.editFocusIdx == 3 && v.editTagIdx > 0 {
			v.editTagIdx--
			return v, nil
		}

	case key.Matches(msg, v.keys.Down):
		if v.editFocusIdx == 3 && v.editTagIdx < len(v.tracker.State.Tags)-1 {
			v.editTagIdx++
			return v, nil
		}

	case key.Matches(msg, v.keys.Left):
		if v.editFocusIdx == 4 {
			n := len(v.editGroupChoices())
			v.editGroupIdx = (v.editGroupIdx + n - 1) % n
			return v, nil
		}

	case key.Matches(msg, v.keys.Right):
		if v.editFocusIdx == 4 {
			n := len(v.editGroupChoices())
			v.editGroupIdx = (v.editGroupIdx + 1) % n
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case 0:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case 1:
		v.editDue, cmd = v.editDue.Update(msg)
	case 2:
		v.editPriority, cmd = v.editPriority.Update(msg)
	}
	return v, cmd
}

func (v *TaskListView) toggleEditTag() {
	tags := v.tracker.State.Tags
	if v.editTagIdx >= len(tags) {
		return
	}
	id := tags[v.editTagIdx].ID
	for i, tid := range v.editTags {
		if tid == id {
			v.editTags = append(v.editTags[:i], v.editTags[i+1:]...)
			return
		}
	}
	v.editTags = append(v.editTags, id)
}

func (v *TaskListView) saveEdit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(v.editTitle.Value())
	if text == "" {
		v.Notify("task text cannot be empty", true)
		return v, nil
	}

	due := strings.TrimSpace(v.editDue.Value())
	if due != "" {
		if _, err := time.Parse(models.DateLayout, due); err != nil {
			v.Notify("due date must be YYYY-MM-DD", true)
			return v, nil
		}
	}
	priority, _ := strconv.Atoi(strings.TrimSpace(v.editPriority.Value()))

	var groupID *int
	choices := v.editGroupChoices()
	if v.editGroupIdx < len(choices) {
		if id, ok := choices[v.editGroupIdx].GroupID(); ok {
			groupID = &id
		}
	}

	var comments []models.Comment
	if i := indexOfTask(v.tracker.State.Tasks, v.editTaskID); i >= 0 {
		comments = v.tracker.State.Tasks[i].Comments
	}

	ok := v.tracker.EditTask(v.editTaskID, core.TaskEdit{
		Text:     text,
		DueDate:  due,
		GroupID:  groupID,
		Priority: priority,
		Tags:     v.editTags,
		Comments: comments,
	})
	if ok {
		v.Notify("task updated (u to undo)", false)
	}
	v.mode = modeNormal
	return v, nil
}

func indexOfTask(tasks []models.Task, id int) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (v *TaskListView) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		switch v.confirm {
		case confirmDeleteTask:
			if v.tracker.DeleteTask(v.confirmID) {
				v.Notify("task deleted (u to undo)", false)
			}
			v.mode = modeNormal
		case confirmDeleteGroup:
			if n, ok := v.tracker.DeleteGroup(v.confirmID); ok {
				v.Notify(fmt.Sprintf("group deleted with %d tasks (u to undo)", n), false)
			}
			v.mode = modeNormal
		case confirmDeleteTag:
			if v.tracker.DeleteTag(v.confirmID) {
				v.Notify("tag deleted (u to undo)", false)
			}
			v.mode = modeTags
			if v.tagCursor >= len(v.tracker.State.Tags) && v.tagCursor > 0 {
				v.tagCursor--
			}
		}
		return v, nil
	case "n", "N", "esc":
		if v.confirm == confirmDeleteTag {
			v.mode = modeTags
		} else {
			v.mode = modeNormal
		}
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) updateTags(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tags := v.tracker.State.Tags
	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = modeNormal

	case key.Matches(msg, v.keys.Up):
		if v.tagCursor > 0 {
			v.tagCursor--
		}

	case key.Matches(msg, v.keys.Down):
		if v.tagCursor < len(tags)-1 {
			v.tagCursor++
		}

	case key.Matches(msg, v.keys.New):
		return v.openPrompt(promptAddTag, "New tag", ""), textinput.Blink

	case key.Matches(msg, v.keys.Edit):
		if v.tagCursor < len(tags) {
			v.promptTagID = tags[v.tagCursor].ID
			return v.openPrompt(promptRenameTag, "Rename tag", tags[v.tagCursor].Name), textinput.Blink
		}

	case key.Matches(msg, v.keys.Delete):
		if v.tagCursor < len(tags) {
			v.mode = modeConfirm
			v.confirm = confirmDeleteTag
			v.confirmID = tags[v.tagCursor].ID
			v.confirmName = tags[v.tagCursor].Name
		}

	case key.Matches(msg, v.keys.Toggle):
		// toggle the selected tag on the task under the cursor
		if t, ok := v.tracker.State.CursorTask(); ok && v.tagCursor < len(tags) {
			v.tracker.ToggleTaskTag(t.ID, tags[v.tagCursor].ID)
		}
	}
	return v, nil
}

func (v *TaskListView) updateGroupOptions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = modeNormal

	case key.Matches(msg, v.keys.Up):
		if v.groupOptCursor > 0 {
			v.groupOptCursor--
		}

	case key.Matches(msg, v.keys.Down):
		if v.groupOptCursor < 1 {
			v.groupOptCursor++
		}

	case key.Matches(msg, v.keys.Enter):
		id, ok := v.tracker.State.View.GroupID()
		if !ok {
			v.mode = modeNormal
			return v, nil
		}
		if v.groupOptCursor == 0 {
			name := v.tracker.State.GroupName(v.tracker.State.View)
			return v.openPrompt(promptRenameGroup, "Rename group", name), textinput.Blink
		}
		g, _ := v.tracker.State.GroupByID(id)
		v.mode = modeConfirm
		v.confirm = confirmDeleteGroup
		v.confirmID = id
		v.confirmName = g.Name
	}
	return v, nil
}

func (v *TaskListView) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t, ok := v.detailTask()
	if !ok {
		v.mode = modeNormal
		return v, nil
	}
	items := len(t.Subtasks) + len(t.Comments)

	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = modeNormal

	case key.Matches(msg, v.keys.Up):
		if v.detailCursor > 0 {
			v.detailCursor--
		}

	case key.Matches(msg, v.keys.Down):
		if v.detailCursor < items-1 {
			v.detailCursor++
		}

	case key.Matches(msg, v.keys.New):
		v.promptTaskID = t.ID
		return v.openPrompt(promptAddSubtask, "New subtask", ""), textinput.Blink

	case msg.String() == "m":
		v.promptTaskID = t.ID
		// on a subtask row the comment attaches to the subtask
		if v.detailCursor < len(t.Subtasks) {
			v.promptSubID = t.Subtasks[v.detailCursor].ID
			return v.openPrompt(promptAddSubtaskComment, "New subtask comment", ""), textinput.Blink
		}
		return v.openPrompt(promptAddComment, "New comment", ""), textinput.Blink

	case key.Matches(msg, v.keys.Toggle):
		if v.detailCursor < len(t.Subtasks) {
			v.tracker.ToggleSubtask(t.ID, t.Subtasks[v.detailCursor].ID)
		}

	case key.Matches(msg, v.keys.Edit):
		if v.detailCursor < len(t.Subtasks) {
			st := t.Subtasks[v.detailCursor]
			v.promptTaskID = t.ID
			v.promptSubID = st.ID
			return v.openPrompt(promptEditSubtask, "Edit subtask", st.Text), textinput.Blink
		}
		if ci := v.detailCursor - len(t.Subtasks); ci >= 0 && ci < len(t.Comments) {
			c := t.Comments[ci]
			v.promptTaskID = t.ID
			v.promptCommentID = c.ID
			return v.openPrompt(promptEditComment, "Edit comment", c.Text), textinput.Blink
		}

	case key.Matches(msg, v.keys.Delete):
		if v.detailCursor < len(t.Subtasks) {
			v.tracker.DeleteSubtask(t.ID, t.Subtasks[v.detailCursor].ID)
		} else if ci := v.detailCursor - len(t.Subtasks); ci < len(t.Comments) {
			v.tracker.DeleteComment(t.ID, t.Comments[ci].ID)
		}
		if v.detailCursor > 0 {
			v.detailCursor--
		}

	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	}
	return v, nil
}

func (v *TaskListView) detailTask() (models.Task, bool) {
	if i := indexOfTask(v.tracker.State.Tasks, v.detailTaskID); i >= 0 {
		return v.tracker.State.Tasks[i], true
	}
	return models.Task{}, false
}

func (v *TaskListView) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = modeNormal

	case key.Matches(msg, v.keys.Up):
		if v.resultCursor > 0 {
			v.resultCursor--
		}

	case key.Matches(msg, v.keys.Down):
		if v.resultCursor < len(v.results)-1 {
			v.resultCursor++
		}

	case key.Matches(msg, v.keys.Enter):
		if v.resultCursor < len(v.results) {
			v.tracker.JumpToTask(v.results[v.resultCursor].Task)
		}
		v.mode = modeNormal
	}
	return v, nil
}

func (v *TaskListView) updateCalendar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	done, cmd := v.calendar.Update(msg)
	if done {
		v.mode = modeNormal
		v.calendar = nil
	}
	return v, cmd
}

// View renders the current mode.
func (v *TaskListView) View() string {
	switch v.mode {
	case modePrompt:
		return v.viewPrompt()
	case modeEdit:
		return v.viewEdit()
	case modeConfirm:
		return v.viewConfirm()
	case modeFilter:
		return v.viewFilter()
	case modeSort:
		return v.viewSort()
	case modeTags:
		return v.viewTags()
	case modeDetail:
		return v.viewDetail()
	case modeResults:
		return v.viewResults()
	case modeGroupOptions:
		return v.viewGroupOptions()
	case modeCalendar:
		return v.calendar.View()
	case modeHelp:
		return v.viewHelp()
	default:
		return v.viewNormal()
	}
}

func (v *TaskListView) viewNormal() string {
	var b strings.Builder

	b.WriteString(v.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(v.renderTaskList())
	b.WriteString("\n")
	b.WriteString(v.renderStats())
	b.WriteString("\n")
	b.WriteString(v.renderStatus())
	return b.String()
}

func (v *TaskListView) renderTabs() string {
	var tabs []string
	for _, sel := range v.groupChoices() {
		name := v.tracker.State.GroupName(sel)
		if sel == v.tracker.State.View {
			tabs = append(tabs, v.styles.TabActive.Render(name))
		} else {
			tabs = append(tabs, v.styles.Tab.Render(name))
		}
	}
	return strings.Join(tabs, " ")
}

func (v *TaskListView) renderTaskList() string {
	ordered := v.tracker.State.Ordered()
	if len(ordered) == 0 {
		return v.styles.TitleMuted.Render("  No tasks here. Press 'a' to add one.")
	}

	var b strings.Builder
	separatorDrawn := false
	for i, t := range ordered {
		if t.Done && !separatorDrawn {
			b.WriteString(v.styles.Separator.Render("  ── completed ──"))
			b.WriteString("\n")
			separatorDrawn = true
		}
		b.WriteString(v.renderTaskLine(t, i == v.tracker.State.Cursor))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (v *TaskListView) renderTaskLine(t models.Task, selected bool) string {
	checkbox := "[ ]"
	if t.Done {
		checkbox = "[x]"
	}

	line := fmt.Sprintf("%s %s", checkbox, t.Text)
	var extras []string
	if t.DueDate != "" {
		extras = append(extras, v.styles.TaskDue.Render("due:"+t.DueDate))
	}
	if t.Priority > 0 {
		extras = append(extras, v.styles.TaskPriority.Render(strings.Repeat("!", t.Priority)))
	}
	if names := v.tagNames(t.Tags); len(names) > 0 {
		extras = append(extras, v.styles.TaskTag.Render("#"+strings.Join(names, " #")))
	}
	if n := len(t.Subtasks); n > 0 {
		doneSubs := 0
		for _, st := range t.Subtasks {
			if st.Done {
				doneSubs++
			}
		}
		extras = append(extras, fmt.Sprintf("[%d/%d]", doneSubs, n))
	}
	if n := len(t.Comments); n > 0 {
		extras = append(extras, fmt.Sprintf("(%d)", n))
	}
	if len(extras) > 0 {
		line += "  " + strings.Join(extras, " ")
	}

	switch {
	case selected:
		return v.styles.TaskSelected.Render("> " + line)
	case t.Done:
		return v.styles.TaskDone.Render("  " + line)
	default:
		return v.styles.TaskItem.Render("  " + line)
	}
}

func (v *TaskListView) tagNames(ids []int) []string {
	var names []string
	for _, id := range ids {
		if tag, ok := v.tracker.State.TagByID(id); ok {
			names = append(names, tag.Name)
		}
	}
	return names
}

func (v *TaskListView) renderStats() string {
	st := v.tracker.Stats()
	text := fmt.Sprintf("total %d · done %d · pending %d · group %s",
		st.Total, st.Done, st.Pending, v.tracker.State.GroupName(v.tracker.State.View))

	if !v.tracker.State.Sort.IsZero() {
		text += " · sort " + describeSort(v.tracker.State.Sort)
	}
	if !v.tracker.State.Filter.IsZero() {
		text += " · filtered"
	}
	return v.styles.StatusBar.Render(text)
}

func describeSort(c core.SortCriteria) string {
	dir := func(d core.Direction, asc, desc string) string {
		switch d {
		case core.DirectionAsc:
			return asc
		case core.DirectionDesc:
			return desc
		}
		return ""
	}
	var parts []string
	// reported in effective precedence order: last pass dominates
	if s := dir(c.Priority, "pri↑", "pri↓"); s != "" {
		parts = append(parts, s)
	}
	if s := dir(c.Date, "date↑", "date↓"); s != "" {
		parts = append(parts, s)
	}
	if s := dir(c.Alphabetical, "a→z", "z→a"); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

func (v *TaskListView) renderStatus() string {
	if v.statusErr {
		return v.styles.StatusErr.Render(v.status)
	}
	return v.styles.StatusBar.Render(v.status)
}

func (v *TaskListView) viewPrompt() string {
	var b strings.Builder
	b.WriteString(v.styles.ModalTitle.Render(v.input.Placeholder))
	b.WriteString("\n\n")
	b.WriteString(v.input.View())
	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("enter confirm · esc cancel"))
	return v.styles.Modal.Render(b.String())
}

func (v *TaskListView) viewEdit() string {
	var b strings.Builder
	b.WriteString(v.styles.ModalTitle.Render("Edit task"))
	b.WriteString("\n\n")

	label := func(i int, name string) string {
		if v.editFocusIdx == i {
			return v.styles.OptionSelected.Render(name)
		}
		return v.styles.Option.Render(name)
	}

	b.WriteString(label(0, "Text:     ") + v.editTitle.View() + "\n")
	b.WriteString(label(1, "Due:      ") + v.editDue.View() + "\n")
	b.WriteString(label(2, "Priority: ") + v.editPriority.View() + "\n")

	b.WriteString(label(3, "Tags:     "))
	tags := v.tracker.State.Tags
	if len(tags) == 0 {
		b.WriteString(v.styles.TitleMuted.Render("none defined (press t in the list to manage)"))
	} else {
		var parts []string
		for i, tag := range tags {
			mark := "☐"
			for _, id := range v.editTags {
				if id == tag.ID {
					mark = "☑"
					break
				}
			}
			item := fmt.Sprintf("%s %s", mark, tag.Name)
			if v.editFocusIdx == 3 && i == v.editTagIdx {
				item = v.styles.OptionSelected.Render(item)
			}
			parts = append(parts, item)
		}
		b.WriteString(strings.Join(parts, "  "))
	}
	b.WriteString("\n")

	choices := v.editGroupChoices()
	groupName := "Ungrouped"
	if v.editGroupIdx < len(choices) {
		groupName = v.tracker.State.GroupName(choices[v.editGroupIdx])
	}
	b.WriteString(label(4, "Group:    ") + "← " + groupName + " →\n")

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("tab next field · space toggle tag · ctrl+s save · esc cancel"))
	return v.styles.Modal.Render(b.String())
}

func (v *TaskListView) viewConfirm() string {
	var what string
	switch v.confirm {
	case confirmDeleteTask:
		what = fmt.Sprintf("Delete task %q?", truncate(v.confirmName, 40))
	case confirmDeleteGroup:
		count := len(v.tracker.State.TasksInGroup(core.InGroup(v.confirmID)))
		what = fmt.Sprintf("Delete group %q and its %d tasks?", v.confirmName, count)
	case confirmDeleteTag:
		what = fmt.Sprintf("Delete tag %q?", v.confirmName)
	}
	return v.styles.Modal.Render(what + "\n\n" + v.styles.Help.Render("y confirm · n cancel"))
}

func (v *TaskListView) viewTags() string {
	var b strings.Builder
	b.WriteString(v.styles.ModalTitle.Render("Tags"))
	b.WriteString("\n\n")

	tags := v.tracker.State.Tags
	if len(tags) == 0 {
		b.WriteString(v.styles.TitleMuted.Render("no tags yet"))
		b.WriteString("\n")
	}
	current, hasTask := v.tracker.State.CursorTask()
	for i, tag := range tags {
		mark := " "
		if hasTask && containsID(current.Tags, tag.ID) {
			mark = "●"
		}
		line := fmt.Sprintf("%s %s", mark, tag.Name)
		if i == v.tagCursor {
			line = v.styles.OptionSelected.Render("> " + line)
		} else {
			line = v.styles.Option.Render("  " + line)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("a add · e rename · d delete · space toggle on current task · esc close"))
	return v.styles.Modal.Render(b.String())
}

func containsID(haystack []int, id int) bool {
	for _, v := range haystack {
		if v == id {
			return true
		}
	}
	return false
}

func (v *TaskListView) viewGroupOptions() string {
	options := []string{"Rename group", "Delete group"}
	var b strings.Builder
	b.WriteString(v.styles.ModalTitle.Render(v.tracker.State.GroupName(v.tracker.State.View)))
	b.WriteString("\n\n")
	for i, opt := range options {
		if i == v.groupOptCursor {
			b.WriteString(v.styles.OptionSelected.Render("> " + opt))
		} else {
			b.WriteString(v.styles.Option.Render("  " + opt))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("enter select · esc cancel"))
	return v.styles.Modal.Render(b.String())
}

func (v *TaskListView) viewDetail() string {
	t, ok := v.detailTask()
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render(t.Text))
	b.WriteString("\n")

	var meta []string
	meta = append(meta, "group "+v.tracker.State.GroupName(core.TaskSelector(t)))
	if t.DueDate != "" {
		meta = append(meta, "due "+t.DueDate)
	}
	if t.Priority > 0 {
		meta = append(meta, "priority "+models.PriorityLabel(t.Priority))
	}
	if names := v.tagNames(t.Tags); len(names) > 0 {
		meta = append(meta, "#"+strings.Join(names, " #"))
	}
	b.WriteString(v.styles.TitleMuted.Render(strings.Join(meta, " · ")))
	b.WriteString("\n\n")

	if len(t.Subtasks) > 0 {
		b.WriteString(v.styles.ModalTitle.Render("Subtasks"))
		b.WriteString("\n")
		for i, st := range t.Subtasks {
			checkbox := "[ ]"
			if st.Done {
				checkbox = "[x]"
			}
			line := fmt.Sprintf("%s %s", checkbox, st.Text)
			if st.DueDate != "" {
				line += "  " + v.styles.TaskDue.Render("due:"+st.DueDate)
			}
			if n := len(st.Comments); n > 0 {
				line += fmt.Sprintf("  (%d)", n)
			}
			if i == v.detailCursor {
				line = v.styles.OptionSelected.Render("> " + line)
			} else {
				line = v.styles.Option.Render("  " + line)
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	if len(t.Comments) > 0 {
		b.WriteString(v.styles.ModalTitle.Render("Comments"))
		b.WriteString("\n")
		for i, c := range t.Comments {
			line := c.Text
			if c.URL != "" {
				line += "  " + v.styles.TaskDue.Render(c.URL)
			}
			if i+len(t.Subtasks) == v.detailCursor {
				line = v.styles.OptionSelected.Render("> " + line)
			} else {
				line = v.styles.Option.Render("  " + line)
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(v.styles.Help.Render("a subtask · m comment on row · space toggle · e edit row · d delete · esc back"))
	return b.String()
}

func (v *TaskListView) viewResults() string {
	var b strings.Builder
	b.WriteString(v.styles.ModalTitle.Render(fmt.Sprintf("%d matches", len(v.results))))
	b.WriteString("\n\n")
	for i, r := range v.results {
		line := fmt.Sprintf("%s  %s", truncate(r.Task.Text, 40), v.styles.TitleMuted.Render(r.GroupName))
		if i == v.resultCursor {
			line = v.styles.OptionSelected.Render("> " + line)
		} else {
			line = v.styles.Option.Render("  " + line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("enter jump · esc close"))
	return v.styles.Modal.Render(b.String())
}

func (v *TaskListView) viewHelp() string {
	rows := [][2]string{
		{"↑/↓ or j/k", "move cursor"},
		{"←/→ or h/l", "switch group"},
		{"a", "add task"},
		{"space", "toggle done"},
		{"e", "edit task"},
		{"d", "delete task"},
		{"enter", "task details"},
		{"f", "filter"},
		{"s", "sort"},
		{"r", "reset filters"},
		{"/", "search"},
		{"t", "manage tags"},
		{"N", "new group"},
		{"G", "group options"},
		{"c", "calendar"},
		{"u / ctrl+z", "undo"},
		{"ctrl+y", "redo"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(v.styles.ModalTitle.Render("Keys"))
	b.WriteString("\n\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%-12s %s\n", r[0], r[1]))
	}
	return v.styles.Modal.Render(b.String())
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
