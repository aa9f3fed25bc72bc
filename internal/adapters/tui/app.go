package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"qbmerge/internal/adapters/tui/views"
	"qbmerge/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewConflicts ViewState = iota
	ViewHelp
)

// App is the conflict review application model
type App struct {
	editor ports.EditorOpener

	state     ViewState
	conflicts *views.ConflictsModel
	help      *views.HelpModel

	width  int
	height int
}

// NewApp creates a new review application. ed may be nil, which disables
// opening the merged bank.
func NewApp(load views.ReviewLoader, ed ports.EditorOpener) *App {
	return &App{
		editor:    ed,
		state:     ViewConflicts,
		conflicts: views.NewConflictsModel(load),
		help:      views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.conflicts.Init()
}

// State returns the active view
func (a *App) State() ViewState {
	return a.state
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.conflicts.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToConflictsMsg:
		a.state = ViewConflicts
		return a, nil

	case views.OpenEditorMsg:
		a.state = ViewConflicts
		return a, a.openEditor(msg.Path)

	case editorFinishedMsg:
		if msg.err != nil {
			a.conflicts.SetMessage(fmt.Sprintf("Editor: %v", msg.err), true)
		}
		return a, nil
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewConflicts:
		_, cmd = a.conflicts.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

type editorFinishedMsg struct{ err error }

func (a *App) openEditor(path string) tea.Cmd {
	if a.editor == nil {
		return func() tea.Msg {
			return editorFinishedMsg{err: fmt.Errorf("no editor configured")}
		}
	}

	cmd, err := a.editor.Command(path)
	if err != nil {
		return func() tea.Msg {
			return editorFinishedMsg{err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewHelp:
		return a.help.View()
	default:
		return a.conflicts.View()
	}
}
