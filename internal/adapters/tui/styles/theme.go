package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	White     = lipgloss.Color("#FFFFFF")

	// Source colors
	KeptSource      = Secondary
	DiscardedSource = Warning

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// List styles
	Row = lipgloss.NewStyle()

	RowSelected = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true)

	SectionID = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60A5FA")) // Blue

	// Detail pane
	Detail = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(0, 1)

	Kept = lipgloss.NewStyle().
		Foreground(KeptSource).
		Bold(true)

	Discarded = lipgloss.NewStyle().
			Foreground(DiscardedSource).
			Bold(true)

	// Labels
	Label = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Spinner = lipgloss.NewStyle().
		Foreground(Primary)

	// Muted text style (for using Muted color as a style)
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// StatusColor returns the color for a conflict count
func StatusColor(conflicts int) lipgloss.Color {
	if conflicts == 0 {
		return Secondary
	}
	return Warning
}
