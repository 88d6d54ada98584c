// ABOUTME: Implements a single-line status bar for the bottom of the playground TUI.
// ABOUTME: Shows the mount's language and state, the last run's duration, and the key bindings.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/playpen/editor"
)

const keyHelp = "ctrl+r run · ctrl+x reset · tab switch panel · ctrl+c quit"

// StatusBarModel displays run status in a single line.
type StatusBarModel struct {
	language  string
	endpoint  string
	state     editor.State
	startTime time.Time
	lastRun   time.Duration
	width     int
}

// NewStatusBarModel creates a StatusBarModel for a mount in language.
func NewStatusBarModel(language, endpoint string) StatusBarModel {
	return StatusBarModel{language: language, endpoint: endpoint}
}

// Start records the start of a run.
func (m *StatusBarModel) Start() {
	m.state = editor.StateRunning
	m.startTime = time.Now()
}

// Finish records the end of a run.
func (m *StatusBarModel) Finish(state editor.State) {
	m.state = state
	if !m.startTime.IsZero() {
		m.lastRun = time.Since(m.startTime)
	}
	m.startTime = time.Time{}
}

// SetState sets the state without touching timings.
func (m *StatusBarModel) SetState(state editor.State) {
	m.state = state
}

// SetWidth sets the bar width for rendering.
func (m *StatusBarModel) SetWidth(w int) {
	m.width = w
}

// formatElapsed formats a duration as a human-readable string.
// Durations under a second show as milliseconds (e.g. "340ms").
func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(100 * time.Millisecond).String()
}

// View renders the status bar.
func (m StatusBarModel) View() string {
	left := fmt.Sprintf("%s · %s", m.language, StyleForState(m.state).Render(m.state.String()))
	if m.lastRun > 0 {
		left += " · " + formatElapsed(m.lastRun)
	}
	if m.endpoint != "" {
		left += " · " + m.endpoint
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", HelpStyle.Render(keyHelp))
	if m.width > 0 {
		return StatusBarStyle.Width(m.width).Render(line)
	}
	return StatusBarStyle.Render(line)
}
