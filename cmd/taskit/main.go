package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/tgb/taskit/internal/config"
	"github.com/tgb/taskit/internal/core"
	"github.com/tgb/taskit/internal/db"
	"github.com/tgb/taskit/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("taskit %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	cfg, err := config.LoadOrCreate(config.ResolveConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log, closeLog, err := newLogger(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	store, err := db.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	tracker, err := loadTracker(store, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading saved state: %v\n", err)
		os.Exit(1)
	}
	applyStartView(store, tracker, cfg.DefaultView)

	autosave := time.Duration(cfg.AutosaveSeconds) * time.Second
	app := ui.NewApp(tracker, store, autosave, log)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}

	if err := app.Save(); err != nil {
		log.Error().Err(err).Msg("save on exit failed")
		fmt.Fprintf(os.Stderr, "Error saving state: %v\n", err)
		os.Exit(1)
	}
}

// loadTracker restores the last saved snapshot. A missing snapshot starts
// empty; a corrupt one is logged and also starts empty rather than failing.
func loadTracker(store *db.DB, log zerolog.Logger) (*core.Tracker, error) {
	data, err := store.LoadSnapshot()
	if err != nil {
		return nil, err
	}
	if data == nil {
		return core.NewTracker(), nil
	}
	snap, err := core.DecodeSnapshot(data)
	if err != nil {
		log.Error().Err(err).Msg("stored snapshot is unreadable, starting empty")
		return core.NewTracker(), nil
	}
	return core.NewTrackerFrom(snap), nil
}

// applyStartView selects the view remembered from the previous run, falling
// back to the configured default. A remembered group that no longer exists
// is ignored.
func applyStartView(store *db.DB, tracker *core.Tracker, defaultView string) {
	if defaultView == "ungrouped" {
		tracker.SelectView(core.UngroupedTasks())
	}

	raw, err := store.LastView()
	if err != nil || raw == "" {
		return
	}
	var sel core.GroupSelector
	if err := sel.UnmarshalText([]byte(raw)); err != nil {
		return
	}
	if id, ok := sel.GroupID(); ok {
		if _, exists := tracker.State.GroupByID(id); !exists {
			return
		}
	}
	tracker.SelectView(sel)
}

func newLogger(path string) (zerolog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Logger{}, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Logger{}, nil, err
	}
	writer := zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339, NoColor: true}
	log := zerolog.New(writer).With().Timestamp().Logger()
	return log, func() { f.Close() }, nil
}
