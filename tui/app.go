// ABOUTME: Top-level Bubble Tea AppModel composing the code editor, output panel, and status bar.
// ABOUTME: Drives one editor mount: ctrl+r runs it, ctrl+x resets it, tab moves focus between panels.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/playpen/editor"
)

// FocusTarget indicates which panel currently has keyboard focus.
type FocusTarget int

const (
	FocusEditor FocusTarget = iota
	FocusOutput
)

// AppModel is the top-level Bubble Tea model for a single mount.
type AppModel struct {
	editor    EditorPanelModel
	output    OutputPanelModel
	statusBar StatusBarModel

	orch  *editor.Orchestrator
	mount *editor.Mount
	ctx   context.Context

	focus   FocusTarget
	running bool
	runs    int
	err     error
	width   int
	height  int
}

// NewAppModel creates an AppModel editing mount. endpoint is shown in the
// status bar and may be empty.
func NewAppModel(ctx context.Context, orch *editor.Orchestrator, mount *editor.Mount, endpoint string) AppModel {
	ed := NewEditorPanelModel(mount.Code())
	ed.Focus()
	return AppModel{
		editor:    ed,
		output:    NewOutputPanelModel(),
		statusBar: NewStatusBarModel(mount.Language, endpoint),
		orch:      orch,
		mount:     mount,
		ctx:       ctx,
		focus:     FocusEditor,
	}
}

// Init implements tea.Model.
func (m AppModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case RunFinishedMsg:
		return m.handleRunFinished(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m.forward(msg)
}

func (m AppModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "ctrl+r":
		m.mount.SetCode(m.editor.Value())
		m.editor.SetMarkers(nil)
		m.output.SetRunning()
		m.statusBar.Start()
		m.running = true
		m.err = nil
		return m, RunCmd(m.ctx, m.orch, m.mount)

	case "ctrl+x":
		m.orch.Reset(m.mount)
		m.editor.SetValue(m.mount.Code())
		m.editor.SetMarkers(nil)
		m.output.Clear()
		m.statusBar.SetState(editor.StateIdle)
		m.running = false
		return m, nil

	case "tab":
		return m.toggleFocus()
	}

	return m.forward(msg)
}

// forward routes input to the focused panel.
func (m AppModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == FocusEditor {
		m.editor, cmd = m.editor.Update(msg)
	} else {
		m.output, cmd = m.output.Update(msg)
	}
	return m, cmd
}

func (m AppModel) toggleFocus() (tea.Model, tea.Cmd) {
	if m.focus == FocusEditor {
		m.focus = FocusOutput
		m.editor.Blur()
		m.output.SetFocused(true)
		return m, nil
	}
	m.focus = FocusEditor
	m.output.SetFocused(false)
	return m, m.editor.Focus()
}

func (m AppModel) handleRunFinished(msg RunFinishedMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.Err, editor.ErrSuperseded) {
		return m, nil
	}
	m.running = false
	if msg.Err != nil {
		m.err = msg.Err
		m.statusBar.Finish(editor.StateTransportFailure)
		return m, nil
	}
	m.runs++
	state := m.mount.State()
	m.editor.SetMarkers(msg.Outcome.Markers)
	m.output.SetReport(state, msg.Outcome.Report)
	m.statusBar.Finish(state)
	return m, nil
}

// layout splits the terminal between editor, output, and status bar.
func (m *AppModel) layout() {
	statusBarHeight := 1
	available := m.height - statusBarHeight
	editorMax := available*60/100 - 3
	if editorMax < minEditorHeight {
		editorMax = minEditorHeight
	}
	m.editor.SetSize(m.width, editorMax)

	outputHeight := available - (m.editor.Height() + 3)
	if outputHeight < 4 {
		outputHeight = 4
	}
	m.output.SetSize(m.width, outputHeight)
	m.statusBar.SetWidth(m.width)
}

// View implements tea.Model.
func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if m.width < 40 || m.height < 12 {
		return fmt.Sprintf("Terminal too small (%dx%d). Minimum: 40x12.", m.width, m.height)
	}

	var b strings.Builder
	b.WriteString(m.editor.View())
	b.WriteString("\n")
	b.WriteString(m.output.View())
	b.WriteString("\n")
	status := m.statusBar.View()
	if m.err != nil {
		status += " " + ErrorStyle.Render(fmt.Sprintf("FAILED: %v", m.err))
	}
	b.WriteString(status)
	return b.String()
}

// Run starts the TUI on the terminal and blocks until the user quits.
func Run(ctx context.Context, orch *editor.Orchestrator, mount *editor.Mount, endpoint string) error {
	p := tea.NewProgram(NewAppModel(ctx, orch, mount, endpoint), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
