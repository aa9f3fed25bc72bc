package views

import tea "github.com/charmbracelet/bubbletea"

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// View switching messages

// SwitchToHelpMsg requests the help view
type SwitchToHelpMsg struct{}

// SwitchToConflictsMsg requests the conflict list
type SwitchToConflictsMsg struct{}

// OpenEditorMsg requests opening a file in the external editor
type OpenEditorMsg struct {
	Path string
}

func send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
