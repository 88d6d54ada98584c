// ABOUTME: Scrollable output panel showing the last run's report in the color of its outcome.
// ABOUTME: Uses the bubbles viewport; the report message is converted back to plain terminal text.
package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/playpen/editor"
	"github.com/2389-research/playpen/playpen"
)

const outputPlaceholder = "No run yet. Press ctrl+r to run."

// OutputPanelModel shows the result of the most recent run.
type OutputPanelModel struct {
	viewport viewport.Model
	state    editor.State
	text     string
	focused  bool
	width    int
	height   int
}

// NewOutputPanelModel creates an empty output panel.
func NewOutputPanelModel() OutputPanelModel {
	vp := viewport.New(80, 8)
	vp.SetContent(outputPlaceholder)
	return OutputPanelModel{viewport: vp, text: outputPlaceholder}
}

// SetRunning shows the in-progress message.
func (m *OutputPanelModel) SetRunning() {
	m.state = editor.StateRunning
	m.setText("Running...")
}

// SetReport shows a finished run's report.
func (m *OutputPanelModel) SetReport(state editor.State, report playpen.Report) {
	m.state = state
	m.setText(report.Message.Plain())
}

// Clear hides the output, as reset does in the browser.
func (m *OutputPanelModel) Clear() {
	m.state = editor.StateIdle
	m.setText(outputPlaceholder)
}

func (m *OutputPanelModel) setText(text string) {
	m.text = text
	m.viewport.SetContent(StyleForState(m.state).Render(text))
	m.viewport.GotoTop()
}

// Text returns the plain text currently shown.
func (m OutputPanelModel) Text() string {
	return m.text
}

// State returns the state whose color the panel uses.
func (m OutputPanelModel) State() editor.State {
	return m.state
}

// SetFocused sets whether this panel accepts scroll keys.
func (m *OutputPanelModel) SetFocused(focused bool) {
	m.focused = focused
}

// SetSize sets the available dimensions and updates the viewport.
func (m *OutputPanelModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	// Reserve space for the border (2 lines) and title (1 line)
	vpWidth := w - 2
	vpHeight := h - 3
	if vpWidth < 1 {
		vpWidth = 1
	}
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = vpWidth
	m.viewport.Height = vpHeight
}

// Update forwards scroll input to the viewport.
func (m OutputPanelModel) Update(msg tea.Msg) (OutputPanelModel, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the output panel with a border.
func (m OutputPanelModel) View() string {
	style := BorderStyle
	if m.focused {
		style = FocusedBorderStyle
	}
	title := TitleStyle.Render("Output") + " " + StyleForState(m.state).Render(m.state.String())
	return style.Width(m.width - 2).Render(title + "\n" + m.viewport.View())
}
