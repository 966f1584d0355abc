package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/tgb/taskit/internal/core"
	"github.com/tgb/taskit/internal/db"
	"github.com/tgb/taskit/internal/ui/views"
)

type autosaveMsg struct{}

// App is the root model. It owns the task list view and periodically writes
// the tracker state to the store.
type App struct {
	tracker  *core.Tracker
	store    *db.DB
	view     *views.TaskListView
	autosave time.Duration
	log      zerolog.Logger
}

// NewApp wires the view over a tracker. autosave <= 0 disables the periodic
// save; the caller still saves on exit.
func NewApp(tracker *core.Tracker, store *db.DB, autosave time.Duration, log zerolog.Logger) *App {
	return &App{
		tracker:  tracker,
		store:    store,
		view:     views.NewTaskListView(tracker),
		autosave: autosave,
		log:      log,
	}
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(a.autosave, func(time.Time) tea.Msg {
		return autosaveMsg{}
	})
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.view.Init()}
	if a.autosave > 0 {
		cmds = append(cmds, a.tick())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(autosaveMsg); ok {
		if err := a.Save(); err != nil {
			a.log.Error().Err(err).Msg("autosave failed")
			a.view.Notify("autosave failed: "+err.Error(), true)
		}
		return a, a.tick()
	}

	_, cmd := a.view.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	return a.view.View()
}

// Save encodes the current state and writes it to the store, along with the
// selected view so the next run can reopen it.
func (a *App) Save() error {
	data, err := a.tracker.State.Snapshot().Encode()
	if err != nil {
		return err
	}
	if err := a.store.SaveSnapshot(data); err != nil {
		return err
	}
	view, err := a.tracker.State.View.MarshalText()
	if err != nil {
		return err
	}
	return a.store.SaveLastView(string(view))
}
