package core

import (
	"errors"
	"strings"
	"time"

	"github.com/tgb/taskit/internal/models"
)

// ErrAggregateGroup is returned when a task creation targets the aggregate
// view, which is not a real group.
var ErrAggregateGroup = errors.New("cannot create tasks in the all-tasks view")

// Tracker owns the live State and its undo/redo history. Every mutating
// command captures a pre-mutation snapshot before touching state; commands
// that turn out to be no-ops (unknown ids) record nothing. Read and
// view-selection operations never touch the history.
type Tracker struct {
	State   *State
	History History

	now func() time.Time
}

// NewTracker returns a tracker over empty state.
func NewTracker() *Tracker {
	return &Tracker{State: NewState(), now: time.Now}
}

// NewTrackerFrom restores a tracker from a persisted snapshot. The history
// starts empty; undo does not cross process restarts.
func NewTrackerFrom(snap Snapshot) *Tracker {
	tr := NewTracker()
	tr.State.Restore(snap)
	return tr
}

func (tr *Tracker) record() {
	tr.History.Record(tr.State.Snapshot())
}

func clampPriority(p int) int {
	if p < 0 {
		return 0
	}
	if p > 3 {
		return 3
	}
	return p
}

// TaskEdit carries the result of an edit form. Tags and Comments replace
// the task's lists wholesale; Subtasks are managed by their own commands.
type TaskEdit struct {
	Text     string
	DueDate  string
	GroupID  *int
	Priority int
	Tags     []int
	Comments []models.Comment
}

// AddTask creates a task in the current view's bucket and moves the cursor
// onto it. Creation is refused on the aggregate view.
func (tr *Tracker) AddTask(text string) (models.Task, error) {
	if tr.State.View.IsAggregate() {
		return models.Task{}, ErrAggregateGroup
	}
	tr.record()

	t := models.Task{
		ID:        tr.State.NextTaskID,
		Text:      text,
		CreatedAt: tr.now(),
		GroupID:   tr.State.View.taskGroupID(),
		Tags:      []int{},
	}
	tr.State.NextTaskID++
	tr.State.Tasks = append(tr.State.Tasks, t)
	tr.State.CursorTo(t.ID)
	return t, nil
}

// EditTask applies an edit form result. If the edit moved the task to a new
// group, the view follows it.
func (tr *Tracker) EditTask(id int, edit TaskEdit) bool {
	i := tr.State.taskIndex(id)
	if i < 0 {
		return false
	}
	tr.record()

	t := &tr.State.Tasks[i]
	movedGroup := !sameGroupID(t.GroupID, edit.GroupID)
	t.Text = edit.Text
	t.DueDate = edit.DueDate
	t.GroupID = edit.GroupID
	t.Priority = clampPriority(edit.Priority)
	t.Tags = append([]int(nil), edit.Tags...)
	t.Comments = append([]models.Comment(nil), edit.Comments...)

	if movedGroup {
		tr.State.View = TaskSelector(*t)
	}
	tr.State.CursorTo(id)
	return true
}

func sameGroupID(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// DeleteTask removes a task and clamps the cursor.
func (tr *Tracker) DeleteTask(id int) bool {
	i := tr.State.taskIndex(id)
	if i < 0 {
		return false
	}
	tr.record()
	tr.State.Tasks = append(tr.State.Tasks[:i], tr.State.Tasks[i+1:]...)
	tr.State.ClampCursor()
	return true
}

// ToggleTask flips a task's done flag. Like every other observable state
// change this is undoable.
func (tr *Tracker) ToggleTask(id int) (models.Task, bool) {
	i := tr.State.taskIndex(id)
	if i < 0 {
		return models.Task{}, false
	}
	tr.record()
	tr.State.Tasks[i].Done = !tr.State.Tasks[i].Done
	tr.State.ClampCursor()
	return tr.State.Tasks[i], true
}

// AssignDueDate sets the same due date on every listed task in one undoable
// step. Unknown ids are skipped; returns how many tasks changed.
func (tr *Tracker) AssignDueDate(taskIDs []int, date string) int {
	var hits []int
	for _, id := range taskIDs {
		if i := tr.State.taskIndex(id); i >= 0 {
			hits = append(hits, i)
		}
	}
	if len(hits) == 0 {
		return 0
	}
	tr.record()
	for _, i := range hits {
		tr.State.Tasks[i].DueDate = date
	}
	return len(hits)
}

// CreateGroup stores a new group and selects it.
func (tr *Tracker) CreateGroup(name string) models.Group {
	tr.record()
	g := models.Group{ID: tr.State.NextGroupID, Name: name}
	tr.State.NextGroupID++
	tr.State.Groups = append(tr.State.Groups, g)
	tr.State.View = InGroup(g.ID)
	tr.State.Cursor = 0
	return g
}

// RenameGroup updates a group's name.
func (tr *Tracker) RenameGroup(id int, name string) bool {
	i := tr.State.groupIndex(id)
	if i < 0 {
		return false
	}
	tr.record()
	tr.State.Groups[i].Name = name
	return true
}

// DeleteGroup removes a group and cascades: every task in the group is
// deleted with it, so no task is left pointing at a missing group. The view
// falls back to the ungrouped bucket. Returns how many tasks went with it.
func (tr *Tracker) DeleteGroup(id int) (int, bool) {
	i := tr.State.groupIndex(id)
	if i < 0 {
		return 0, false
	}
	tr.record()

	kept := tr.State.Tasks[:0]
	removed := 0
	for _, t := range tr.State.Tasks {
		if t.GroupID != nil && *t.GroupID == id {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	tr.State.Tasks = kept
	tr.State.Groups = append(tr.State.Groups[:i], tr.State.Groups[i+1:]...)
	tr.State.View = UngroupedTasks()
	tr.State.Cursor = 0
	return removed, true
}

// CreateTag registers a new tag; the name is truncated to the cap.
func (tr *Tracker) CreateTag(name string) models.Tag {
	tr.record()
	t := models.Tag{ID: tr.State.NextTagID, Name: models.TruncateTagName(name)}
	tr.State.NextTagID++
	tr.State.Tags = append(tr.State.Tags, t)
	return t
}

// RenameTag updates a tag's name.
func (tr *Tracker) RenameTag(id int, name string) bool {
	i := tr.State.tagIndex(id)
	if i < 0 {
		return false
	}
	tr.record()
	tr.State.Tags[i].Name = models.TruncateTagName(name)
	return true
}

// DeleteTag removes a tag and scrubs its id from every task's tag list, so
// no dangling reference survives the deletion.
func (tr *Tracker) DeleteTag(id int) bool {
	i := tr.State.tagIndex(id)
	if i < 0 {
		return false
	}
	tr.record()
	tr.State.Tags = append(tr.State.Tags[:i], tr.State.Tags[i+1:]...)
	for ti := range tr.State.Tasks {
		tags := tr.State.Tasks[ti].Tags[:0]
		for _, tid := range tr.State.Tasks[ti].Tags {
			if tid != id {
				tags = append(tags, tid)
			}
		}
		tr.State.Tasks[ti].Tags = tags
	}
	return true
}

// ToggleTaskTag adds or removes one tag on a task. Unknown tag ids are
// refused so a toggle can never introduce a dangling reference.
func (tr *Tracker) ToggleTaskTag(taskID, tagID int) bool {
	i := tr.State.taskIndex(taskID)
	if i < 0 || tr.State.tagIndex(tagID) < 0 {
		return false
	}
	tr.record()
	t := &tr.State.Tasks[i]
	for j, tid := range t.Tags {
		if tid == tagID {
			t.Tags = append(t.Tags[:j], t.Tags[j+1:]...)
			return true
		}
	}
	t.Tags = append(t.Tags, tagID)
	return true
}

// AddSubtask appends a checklist entry to a task.
func (tr *Tracker) AddSubtask(taskID int, text string) bool {
	i := tr.State.taskIndex(taskID)
	if i < 0 {
		return false
	}
	tr.record()
	t := &tr.State.Tasks[i]
	st := models.Subtask{ID: models.NextSubtaskID(t.Subtasks), Text: text}
	t.Subtasks = append(t.Subtasks, st)
	return true
}

// EditSubtask updates a subtask's text and due date.
func (tr *Tracker) EditSubtask(taskID, subtaskID int, text, dueDate string) bool {
	i, j := tr.subtaskIndex(taskID, subtaskID)
	if i < 0 {
		return false
	}
	tr.record()
	tr.State.Tasks[i].Subtasks[j].Text = text
	tr.State.Tasks[i].Subtasks[j].DueDate = dueDate
	return true
}

// ToggleSubtask flips a subtask's done flag.
func (tr *Tracker) ToggleSubtask(taskID, subtaskID int) bool {
	i, j := tr.subtaskIndex(taskID, subtaskID)
	if i < 0 {
		return false
	}
	tr.record()
	tr.State.Tasks[i].Subtasks[j].Done = !tr.State.Tasks[i].Subtasks[j].Done
	return true
}

// DeleteSubtask removes a subtask and its comments.
func (tr *Tracker) DeleteSubtask(taskID, subtaskID int) bool {
	i, j := tr.subtaskIndex(taskID, subtaskID)
	if i < 0 {
		return false
	}
	tr.record()
	subs := tr.State.Tasks[i].Subtasks
	tr.State.Tasks[i].Subtasks = append(subs[:j], subs[j+1:]...)
	return true
}

func (tr *Tracker) subtaskIndex(taskID, subtaskID int) (int, int) {
	i := tr.State.taskIndex(taskID)
	if i < 0 {
		return -1, -1
	}
	for j := range tr.State.Tasks[i].Subtasks {
		if tr.State.Tasks[i].Subtasks[j].ID == subtaskID {
			return i, j
		}
	}
	return -1, -1
}

// AddComment attaches a comment to a task. Comment ids are per-owner.
func (tr *Tracker) AddComment(taskID int, text, url, imagePath string) bool {
	i := tr.State.taskIndex(taskID)
	if i < 0 {
		return false
	}
	tr.record()
	t := &tr.State.Tasks[i]
	t.Comments = append(t.Comments, models.Comment{
		ID:        models.NextCommentID(t.Comments),
		Text:      text,
		URL:       url,
		ImagePath: imagePath,
		CreatedAt: tr.now(),
	})
	return true
}

// EditComment updates a task-owned comment's text and URL.
func (tr *Tracker) EditComment(taskID, commentID int, text, url string) bool {
	i := tr.State.taskIndex(taskID)
	if i < 0 {
		return false
	}
	for j := range tr.State.Tasks[i].Comments {
		if tr.State.Tasks[i].Comments[j].ID == commentID {
			tr.record()
			tr.State.Tasks[i].Comments[j].Text = text
			tr.State.Tasks[i].Comments[j].URL = url
			return true
		}
	}
	return false
}

// DeleteComment removes a task-owned comment.
func (tr *Tracker) DeleteComment(taskID, commentID int) bool {
	i := tr.State.taskIndex(taskID)
	if i < 0 {
		return false
	}
	for j := range tr.State.Tasks[i].Comments {
		if tr.State.Tasks[i].Comments[j].ID == commentID {
			tr.record()
			comments := tr.State.Tasks[i].Comments
			tr.State.Tasks[i].Comments = append(comments[:j], comments[j+1:]...)
			return true
		}
	}
	return false
}

// AddSubtaskComment attaches a comment to a subtask.
func (tr *Tracker) AddSubtaskComment(taskID, subtaskID int, text, url string) bool {
	i, j := tr.subtaskIndex(taskID, subtaskID)
	if i < 0 {
		return false
	}
	tr.record()
	st := &tr.State.Tasks[i].Subtasks[j]
	st.Comments = append(st.Comments, models.Comment{
		ID:        models.NextCommentID(st.Comments),
		Text:      text,
		URL:       url,
		CreatedAt: tr.now(),
	})
	return true
}

// Undo replaces live state with the most recent pre-mutation snapshot. The
// cursor is clamped afterwards; a restore may land on a shorter list.
func (tr *Tracker) Undo() error {
	snap, err := tr.History.Undo(tr.State.Snapshot())
	if err != nil {
		return err
	}
	tr.State.Restore(snap)
	return nil
}

// Redo re-applies the most recently undone command's resulting state.
func (tr *Tracker) Redo() error {
	snap, err := tr.History.Redo(tr.State.Snapshot())
	if err != nil {
		return err
	}
	tr.State.Restore(snap)
	return nil
}

// SelectView switches the current bucket. View changes are not undoable.
func (tr *Tracker) SelectView(sel GroupSelector) {
	tr.State.View = sel
	tr.State.Cursor = 0
}

// SetFilter replaces the active filter set and resets the cursor.
func (tr *Tracker) SetFilter(c FilterCriteria) {
	tr.State.Filter = c
	tr.State.Cursor = 0
}

// ResetFilters disables every filter dimension.
func (tr *Tracker) ResetFilters() {
	tr.SetFilter(FilterCriteria{})
}

// SetSort replaces the active sort criteria and resets the cursor.
func (tr *Tracker) SetSort(c SortCriteria) {
	tr.State.Sort = c
	tr.State.Cursor = 0
}

// SearchResult pairs a matching task with its resolved group name.
type SearchResult struct {
	Task      models.Task
	GroupName string
}

// Search finds tasks whose text contains the query, case-insensitively,
// across every group.
func (tr *Tracker) Search(query string) []SearchResult {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var results []SearchResult
	for _, t := range tr.State.Tasks {
		if strings.Contains(strings.ToLower(t.Text), query) {
			results = append(results, SearchResult{
				Task:      t,
				GroupName: tr.State.GroupName(TaskSelector(t)),
			})
		}
	}
	return results
}

// JumpToTask navigates to a task's group and puts the cursor on it.
func (tr *Tracker) JumpToTask(t models.Task) {
	tr.State.View = TaskSelector(t)
	tr.State.Cursor = 0
	tr.State.CursorTo(t.ID)
}

// Stats summarizes the currently visible (filtered, unsorted) tasks.
type Stats struct {
	Total   int
	Done    int
	Pending int
}

// Stats computes counts over the current bucket after filtering.
func (tr *Tracker) Stats() Stats {
	visible := tr.State.Filter.Apply(tr.State.TasksInGroup(tr.State.View))
	st := Stats{Total: len(visible)}
	for _, t := range visible {
		if t.Done {
			st.Done++
		}
	}
	st.Pending = st.Total - st.Done
	return st
}
