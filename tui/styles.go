// ABOUTME: Defines lipgloss styles for the playground TUI panels, run states, and gutter markers.
// ABOUTME: Provides StyleForState to map mount states to the colors the browser banners use.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/playpen/editor"
)

var (
	// Panel borders
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
	FocusedBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62"))

	// Title styling
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	// Run state colors
	IdleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	RunningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#2196f3")).Bold(true)
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4caf50"))
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#e51c23")).Bold(true)
	NoOutputStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff9800"))
	TransportStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e51c23"))

	// Gutter markers
	GutterErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e51c23")).Bold(true)
	GutterWarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff9800")).Bold(true)

	// Active line highlight while the editor has focus
	CursorLineStyle = lipgloss.NewStyle().Background(lipgloss.Color("236"))

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)
	HelpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// StyleForState returns the display style for a mount state.
func StyleForState(state editor.State) lipgloss.Style {
	switch state {
	case editor.StateRunning:
		return RunningStyle
	case editor.StateSuccess:
		return SuccessStyle
	case editor.StateError:
		return ErrorStyle
	case editor.StateEmpty:
		return NoOutputStyle
	case editor.StateTransportFailure:
		return TransportStyle
	default:
		return IdleStyle
	}
}
