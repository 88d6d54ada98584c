// ABOUTME: Code editor panel built on the bubbles textarea with a marker gutter beside it.
// ABOUTME: Grows with its content up to the available height, and highlights the active line only while focused.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/playpen/editor"
	"github.com/2389-research/playpen/playpen"
)

const minEditorHeight = 3

// EditorPanelModel is the editable code area plus its marker gutter.
type EditorPanelModel struct {
	area      textarea.Model
	markers   []editor.Marker
	maxHeight int
	width     int
}

// NewEditorPanelModel creates an editor panel holding code.
func NewEditorPanelModel(code string) EditorPanelModel {
	ta := textarea.New()
	ta.CharLimit = 0
	ta.Prompt = ""
	ta.ShowLineNumbers = true
	ta.FocusedStyle.CursorLine = CursorLineStyle
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()
	ta.SetWidth(80)
	ta.SetValue(code)

	p := EditorPanelModel{area: ta, maxHeight: 20, width: 80}
	p.fitHeight()
	return p
}

// Value returns the current editor text.
func (m EditorPanelModel) Value() string {
	return m.area.Value()
}

// SetValue replaces the editor text.
func (m *EditorPanelModel) SetValue(code string) {
	m.area.SetValue(code)
	m.fitHeight()
}

// Focus gives the editor keyboard focus.
func (m *EditorPanelModel) Focus() tea.Cmd {
	return m.area.Focus()
}

// Blur removes keyboard focus.
func (m *EditorPanelModel) Blur() {
	m.area.Blur()
}

// Focused reports whether the editor has focus.
func (m EditorPanelModel) Focused() bool {
	return m.area.Focused()
}

// SetMarkers replaces the markers shown in the gutter.
func (m *EditorPanelModel) SetMarkers(markers []editor.Marker) {
	m.markers = append([]editor.Marker(nil), markers...)
}

// Markers returns the markers shown in the gutter.
func (m EditorPanelModel) Markers() []editor.Marker {
	return m.markers
}

// SetSize sets the available width and the height the editor may grow to.
func (m *EditorPanelModel) SetSize(w, h int) {
	m.width = w
	m.maxHeight = h
	// Gutter takes 2 columns, the border 2 more.
	areaWidth := w - 4
	if areaWidth < 10 {
		areaWidth = 10
	}
	m.area.SetWidth(areaWidth)
	m.fitHeight()
}

// Height returns the number of text rows the editor currently shows.
func (m EditorPanelModel) Height() int {
	return m.area.Height()
}

// fitHeight sizes the editor to its line count within [minEditorHeight, maxHeight].
func (m *EditorPanelModel) fitHeight() {
	h := m.area.LineCount()
	if h < minEditorHeight {
		h = minEditorHeight
	}
	if m.maxHeight >= minEditorHeight && h > m.maxHeight {
		h = m.maxHeight
	}
	m.area.SetHeight(h)
}

// Update forwards key input to the textarea.
func (m EditorPanelModel) Update(msg tea.Msg) (EditorPanelModel, tea.Cmd) {
	var cmd tea.Cmd
	m.area, cmd = m.area.Update(msg)
	m.fitHeight()
	return m, cmd
}

// gutter renders one column cell per visible row, flagging rows that carry
// a marker. Flagged rows below the visible area are summarized at the end.
func (m EditorPanelModel) gutter() string {
	rows := m.area.Height()
	cells := make([]string, rows)
	for i := range cells {
		cells[i] = " "
	}

	hidden := false
	for _, mk := range m.markers {
		row := mk.Range.StartRow
		if row >= 0 && row < rows {
			cells[row] = gutterGlyph(mk.Class)
			continue
		}
		hidden = true
	}
	if hidden && rows > 0 {
		cells[rows-1] = GutterErrorStyle.Render("↓")
	}
	return strings.Join(cells, "\n")
}

func gutterGlyph(class string) string {
	if class == playpen.MarkerClass(playpen.KindWarning) {
		return GutterWarningStyle.Render("!")
	}
	return GutterErrorStyle.Render("●")
}

// FlaggedLines returns the one-based source lines carrying markers, sorted.
func (m EditorPanelModel) FlaggedLines() []int {
	seen := make(map[int]bool)
	var lines []int
	for _, mk := range m.markers {
		n := mk.Range.StartRow + 1
		if !seen[n] {
			seen[n] = true
			lines = append(lines, n)
		}
	}
	sort.Ints(lines)
	return lines
}

// View renders the gutter and textarea inside a border.
func (m EditorPanelModel) View() string {
	style := BorderStyle
	if m.Focused() {
		style = FocusedBorderStyle
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.gutter(), " ", m.area.View())

	title := TitleStyle.Render("Code")
	if lines := m.FlaggedLines(); len(lines) > 0 {
		title += " " + GutterErrorStyle.Render(fmt.Sprintf("flagged: %s", joinInts(lines)))
	}
	return style.Width(m.width - 2).Render(title + "\n" + body)
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}
