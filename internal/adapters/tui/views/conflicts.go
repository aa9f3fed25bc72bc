package views

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qbmerge/internal/adapters/tui/styles"
	"qbmerge/internal/domain"
)

// ConflictsKeyMap defines key bindings for the conflict list
type ConflictsKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	First    key.Binding
	Last     key.Binding
	Copy     key.Binding
	Open     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var ConflictsKeys = ConflictsKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("l", "right", "pgdown", "ctrl+f"),
		key.WithHelp("l/→", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("h", "left", "pgup", "ctrl+b"),
		key.WithHelp("h/←", "prev page"),
	),
	First: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "first"),
	),
	Last: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "last"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy id"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open merged"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ReviewData is what the conflict review shows
type ReviewData struct {
	// Source names where the conflicts came from: a report path or a run
	Source string
	// OutPath is the merged bank opened with the editor; may be empty
	OutPath   string
	Conflicts []domain.Conflict
}

// ReviewLoader loads the conflicts to review
type ReviewLoader func() (*ReviewData, error)

// Rows used by everything except the list itself
const chromeRows = 16

// ConflictsModel lists conflicts with a detail pane for the selected one
type ConflictsModel struct {
	ViewState
	load            ReviewLoader
	copyToClipboard func(string) error

	loading   bool
	spinner   spinner.Model
	paginator *Paginator

	data *ReviewData
	err  error
}

// NewConflictsModel creates a new conflict list model
func NewConflictsModel(load ReviewLoader) *ConflictsModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	return &ConflictsModel{
		load:            load,
		copyToClipboard: clipboard.WriteAll,
		loading:         true,
		spinner:         s,
		paginator:       NewPaginator(defaultPageSize),
	}
}

// Init starts loading the conflicts
func (m *ConflictsModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadReview)
}

func (m *ConflictsModel) loadReview() tea.Msg {
	data, err := m.load()
	if err != nil {
		return ReviewErrMsg{Err: err}
	}
	return ReviewLoadedMsg{Data: data}
}

// Update handles messages for the conflict list
func (m *ConflictsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case ReviewLoadedMsg:
		m.loading = false
		m.data = msg.Data
		if m.data == nil {
			m.data = &ReviewData{}
		}
		m.paginator.SetTotal(len(m.data.Conflicts))
		return m, nil

	case ReviewErrMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, ConflictsKeys.Quit) {
			return m, tea.Quit
		}
		if m.loading || m.err != nil {
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *ConflictsModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.ClearMessage()

	switch {
	case key.Matches(msg, ConflictsKeys.Up):
		m.paginator.CursorUp()
	case key.Matches(msg, ConflictsKeys.Down):
		m.paginator.CursorDown()
	case key.Matches(msg, ConflictsKeys.NextPage):
		m.paginator.NextPage()
	case key.Matches(msg, ConflictsKeys.PrevPage):
		m.paginator.PrevPage()
	case key.Matches(msg, ConflictsKeys.First):
		m.paginator.First()
	case key.Matches(msg, ConflictsKeys.Last):
		m.paginator.Last()

	case key.Matches(msg, ConflictsKeys.Copy):
		c, ok := m.Selected()
		if !ok {
			return m, nil
		}
		if err := m.copyToClipboard(c.SectionID); err != nil {
			m.SetMessage(fmt.Sprintf("Copy failed: %v", err), true)
		} else {
			m.SetMessage("Copied "+c.SectionID, false)
		}

	case key.Matches(msg, ConflictsKeys.Open):
		if m.data.OutPath == "" {
			m.SetMessage("No merged file to open", true)
			return m, nil
		}
		return m, send(OpenEditorMsg{Path: m.data.OutPath})

	case key.Matches(msg, ConflictsKeys.Help):
		return m, send(SwitchToHelpMsg{})
	}

	return m, nil
}

// SetSize updates the dimensions and the number of rows per page
func (m *ConflictsModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.paginator.SetPageSize(height - chromeRows)
}

// Selected returns the conflict under the cursor
func (m *ConflictsModel) Selected() (domain.Conflict, bool) {
	if m.data == nil || len(m.data.Conflicts) == 0 {
		return domain.Conflict{}, false
	}
	return m.data.Conflicts[m.paginator.Cursor()], true
}

// View renders the conflict list
func (m *ConflictsModel) View() string {
	v := NewViewBuilder().Title("Conflict Review")

	switch {
	case m.loading:
		v.Line(m.spinner.View() + " Loading conflicts...")
		return v.String()

	case m.err != nil:
		v.Line(styles.ErrorMsg.Render("Error: ") + m.err.Error())
		v.BlankLine()
		v.Help(ConflictsKeys.Quit)
		return v.String()
	}

	conflicts := m.data.Conflicts
	v.Subtitle(m.data.Source)

	status := lipgloss.NewStyle().Foreground(styles.StatusColor(len(conflicts))).Bold(true)
	if len(conflicts) == 0 {
		v.Line(status.Render("No conflicts. Every edit merged cleanly."))
		v.BlankLine()
		v.Help(ConflictsKeys.Open, ConflictsKeys.Quit)
		return v.String()
	}
	v.Line(status.Render(fmt.Sprintf("%d conflict(s)", len(conflicts))))
	v.BlankLine()

	start, end := m.paginator.VisibleRange()
	cursor := m.paginator.Cursor()
	for i := start; i < end; i++ {
		c := conflicts[i]
		if i == cursor {
			v.Line(styles.RowSelected.Render(fmt.Sprintf(" > %s  %s ", c.SectionID, c.SectionTitle)))
		} else {
			v.Line(styles.Row.Render(fmt.Sprintf("   %s  %s", styles.SectionID.Render(c.SectionID), c.SectionTitle)))
		}
	}

	if m.paginator.TotalPages() > 1 {
		v.BlankLine()
		v.Muted(fmt.Sprintf("Page %d/%d", m.paginator.CurrentPage(), m.paginator.TotalPages()))
	}

	if c, ok := m.Selected(); ok {
		v.BlankLine()
		v.Line(styles.Detail.Render(renderDetail(c)))
	}

	v.BlankLine()
	v.Message(m.Message, m.MessageErr)
	v.Help(
		ConflictsKeys.Up, ConflictsKeys.Down, ConflictsKeys.NextPage,
		ConflictsKeys.Copy, ConflictsKeys.Open, ConflictsKeys.Help, ConflictsKeys.Quit,
	)

	return v.String()
}

func renderDetail(c domain.Conflict) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		RenderLabelValue("Section", c.SectionTitle),
		RenderLabelValue("ID", styles.SectionID.Render(c.SectionID)),
		RenderLabelValue("Kept", styles.Kept.Render(c.FirstSource)),
		RenderLabelValue("Discarded", styles.Discarded.Render(c.SecondSource)),
	)
}

// Messages

// ReviewLoadedMsg carries the loaded conflicts
type ReviewLoadedMsg struct {
	Data *ReviewData
}

// ReviewErrMsg indicates the conflicts could not be loaded
type ReviewErrMsg struct {
	Err error
}
