// ABOUTME: Bubble Tea message types and commands used in the playground TUI message loop.
// ABOUTME: Runs execute off the UI goroutine and report back through RunFinishedMsg.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/playpen/editor"
)

// RunFinishedMsg carries the outcome of a run started with ctrl+r.
type RunFinishedMsg struct {
	Outcome editor.RunOutcome
	Err     error
}

// RunCmd runs the mount's current code through the orchestrator.
func RunCmd(ctx context.Context, orch *editor.Orchestrator, m *editor.Mount) tea.Cmd {
	return func() tea.Msg {
		outcome, err := orch.Run(ctx, m)
		return RunFinishedMsg{Outcome: outcome, Err: err}
	}
}
