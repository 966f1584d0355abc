package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme represents a color scheme for the application
type Theme struct {
	Name string

	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
}

// Mocha is the default color theme
var Mocha = Theme{
	Name: "Catppuccin Mocha",

	Foreground:    lipgloss.Color("#cdd6f4"),
	ForegroundDim: lipgloss.Color("#6c7086"),

	Primary:   lipgloss.Color("#89b4fa"),
	Secondary: lipgloss.Color("#cba6f7"),

	Success: lipgloss.Color("#a6e3a1"),
	Warning: lipgloss.Color("#f9e2af"),
	Error:   lipgloss.Color("#f38ba8"),

	Border:      lipgloss.Color("#45475a"),
	BorderFocus: lipgloss.Color("#89b4fa"),
	Selection:   lipgloss.Color("#313244"),
}

// Current holds the active theme
var Current = Mocha

// Styles holds the pre-computed styles for the UI
type Styles struct {
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	Tab       lipgloss.Style
	TabActive lipgloss.Style

	TaskItem     lipgloss.Style
	TaskSelected lipgloss.Style
	TaskDone     lipgloss.Style
	TaskDue      lipgloss.Style
	TaskPriority lipgloss.Style
	TaskTag      lipgloss.Style

	Separator lipgloss.Style

	Modal      lipgloss.Style
	ModalTitle lipgloss.Style

	Option         lipgloss.Style
	OptionSelected lipgloss.Style

	CalendarToday  lipgloss.Style
	CalendarCursor lipgloss.Style
	CalendarBusy   lipgloss.Style

	StatusBar lipgloss.Style
	StatusErr lipgloss.Style
	Help      lipgloss.Style
}

// NewStyles creates styles based on the current theme
func NewStyles() *Styles {
	t := Current

	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		TitleMuted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		Tab: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),

		TabActive: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 1).
			Bold(true),

		TaskItem: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 1),

		TaskSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 1).
			Bold(true),

		TaskDone: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Strikethrough(true).
			Padding(0, 1),

		TaskDue: lipgloss.NewStyle().
			Foreground(t.Secondary),

		TaskPriority: lipgloss.NewStyle().
			Foreground(t.Warning).
			Bold(true),

		TaskTag: lipgloss.NewStyle().
			Foreground(t.Success),

		Separator: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(1, 2),

		ModalTitle: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Option: lipgloss.NewStyle().
			Foreground(t.Foreground),

		OptionSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Bold(true),

		CalendarToday: lipgloss.NewStyle().
			Foreground(t.Success).
			Bold(true),

		CalendarCursor: lipgloss.NewStyle().
			Foreground(t.Primary).
			Reverse(true),

		CalendarBusy: lipgloss.NewStyle().
			Foreground(t.Warning),

		StatusBar: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),

		StatusErr: lipgloss.NewStyle().
			Foreground(t.Error).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),
	}
}
