package ports

import "os/exec"

// EditorOpener defines the interface for opening a bank or report in an
// external editor
type EditorOpener interface {
	// OpenFile opens the file in the user's preferred editor
	OpenFile(path string) error

	// Command returns the editor process without starting it, so the TUI
	// can hand the terminal over with tea.ExecProcess
	Command(path string) (*exec.Cmd, error)
}
