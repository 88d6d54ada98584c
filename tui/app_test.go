// ABOUTME: Tests for the top-level AppModel driving one editor mount.
// ABOUTME: Covers running, resetting, superseded results, focus switching, and view rendering.
package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/playpen/editor"
	"github.com/2389-research/playpen/playpen"
)

const sampleCode = "public class Main {\n    public static void main(String[] a) {\n        System.out.println(1)\n    }\n}"

type scriptedExecutor struct {
	output string
}

func (s scriptedExecutor) Run(context.Context, string) playpen.RunResult {
	return playpen.Classify(s.output)
}

func testAppModel(output string) (AppModel, *editor.Mount) {
	store := editor.NewStore(10, time.Hour)
	mount := store.Create(editor.MountSpec{Language: "java", Code: sampleCode})
	orch := editor.NewOrchestrator(scriptedExecutor{output: output}, playpen.DefaultOptions(), nil)
	m := NewAppModel(context.Background(), orch, mount, "http://runner.test/run")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(AppModel), mount
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// runToCompletion presses ctrl+r and feeds the run result back in.
func runToCompletion(t *testing.T, m AppModel) AppModel {
	t.Helper()
	updated, cmd := m.Update(key(tea.KeyCtrlR))
	m = updated.(AppModel)
	if !m.running {
		t.Fatal("expected running after ctrl+r")
	}
	if cmd == nil {
		t.Fatal("expected a run command")
	}
	msg := cmd()
	updated, _ = m.Update(msg)
	return updated.(AppModel)
}

func TestNewAppModel(t *testing.T) {
	m, _ := testAppModel("")
	if m.focus != FocusEditor {
		t.Errorf("initial focus = %d, want FocusEditor", m.focus)
	}
	if !m.editor.Focused() {
		t.Error("editor should start focused")
	}
	if m.editor.Value() != sampleCode {
		t.Errorf("editor value = %q, want sample code", m.editor.Value())
	}
	if m.output.Text() != outputPlaceholder {
		t.Errorf("output = %q, want placeholder", m.output.Text())
	}
}

func TestRunErrorShowsMarkers(t *testing.T) {
	m, mount := testAppModel("/tmp/java_1/Main.java:3: error: ';' expected\n        System.out.println(1)\n1 error")
	m = runToCompletion(t, m)

	if m.running {
		t.Error("expected run to be finished")
	}
	if mount.State() != editor.StateError {
		t.Errorf("mount state = %s, want error", mount.State())
	}
	if got := m.editor.FlaggedLines(); len(got) != 1 || got[0] != 3 {
		t.Errorf("flagged lines = %v, want [3]", got)
	}
	if !strings.HasPrefix(m.output.Text(), "error: ';' expected") {
		t.Errorf("output = %q", m.output.Text())
	}
	if strings.Contains(m.output.Text(), "&#39;") {
		t.Error("terminal output should not contain HTML entities")
	}
	if m.output.State() != editor.StateError {
		t.Errorf("output state = %s, want error", m.output.State())
	}
}

func TestRunSuccessClearsMarkers(t *testing.T) {
	m, _ := testAppModel("/tmp/java_1/Main.java:3: error: boom")
	m = runToCompletion(t, m)
	if len(m.editor.Markers()) == 0 {
		t.Fatal("expected markers after failing run")
	}

	m.orch = editor.NewOrchestrator(scriptedExecutor{output: "Hello"}, playpen.DefaultOptions(), nil)
	m = runToCompletion(t, m)
	if len(m.editor.Markers()) != 0 {
		t.Errorf("expected markers cleared, got %d", len(m.editor.Markers()))
	}
	if m.output.Text() != "Hello" {
		t.Errorf("output = %q, want Hello", m.output.Text())
	}
}

func TestRunUsesEditedCode(t *testing.T) {
	m, mount := testAppModel("ok")
	m.editor.SetValue("class Edited {}")
	m = runToCompletion(t, m)
	if mount.Code() != "class Edited {}" {
		t.Errorf("mount code = %q, want edited code", mount.Code())
	}
}

func TestResetRestoresOriginal(t *testing.T) {
	m, mount := testAppModel("/tmp/java_1/Main.java:1: error: x")
	m.editor.SetValue("garbage")
	m = runToCompletion(t, m)

	updated, _ := m.Update(key(tea.KeyCtrlX))
	m = updated.(AppModel)

	if m.editor.Value() != sampleCode {
		t.Errorf("editor value = %q, want original", m.editor.Value())
	}
	if mount.Code() != sampleCode {
		t.Errorf("mount code = %q, want original", mount.Code())
	}
	if len(m.editor.Markers()) != 0 {
		t.Error("expected markers released on reset")
	}
	if m.output.Text() != outputPlaceholder {
		t.Errorf("output = %q, want placeholder", m.output.Text())
	}
}

func TestSupersededResultIgnored(t *testing.T) {
	m, _ := testAppModel("/tmp/java_1/Main.java:2: error: late")
	updated, cmd := m.Update(key(tea.KeyCtrlR))
	m = updated.(AppModel)

	// Reset before the result arrives.
	updated, _ = m.Update(key(tea.KeyCtrlX))
	m = updated.(AppModel)

	updated, _ = m.Update(cmd())
	m = updated.(AppModel)
	if len(m.editor.Markers()) != 0 {
		t.Error("superseded run must not add markers")
	}
	if m.output.Text() != outputPlaceholder {
		t.Errorf("output = %q, want placeholder", m.output.Text())
	}
}

func TestTabTogglesFocus(t *testing.T) {
	m, _ := testAppModel("")
	updated, _ := m.Update(key(tea.KeyTab))
	m = updated.(AppModel)
	if m.focus != FocusOutput || m.editor.Focused() {
		t.Error("expected output focus and blurred editor after tab")
	}
	updated, _ = m.Update(key(tea.KeyTab))
	m = updated.(AppModel)
	if m.focus != FocusEditor || !m.editor.Focused() {
		t.Error("expected editor focus after second tab")
	}
}

func TestTypingEditsCode(t *testing.T) {
	m, _ := testAppModel("")
	m.editor.SetValue("")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("int x;")})
	m = updated.(AppModel)
	if m.editor.Value() != "int x;" {
		t.Errorf("editor value = %q", m.editor.Value())
	}
}

func TestCtrlCQuits(t *testing.T) {
	m, _ := testAppModel("")
	_, cmd := m.Update(key(tea.KeyCtrlC))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestViewStates(t *testing.T) {
	store := editor.NewStore(10, time.Hour)
	mount := store.Create(editor.MountSpec{Language: "java", Code: "x"})
	orch := editor.NewOrchestrator(scriptedExecutor{}, playpen.DefaultOptions(), nil)
	m := NewAppModel(context.Background(), orch, mount, "")
	if m.View() != "Initializing..." {
		t.Errorf("expected initializing view, got %q", m.View())
	}

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 5})
	if !strings.Contains(updated.(AppModel).View(), "too small") {
		t.Error("expected too small message")
	}

	full, _ := testAppModel("")
	view := full.View()
	for _, want := range []string{"Code", "Output", "ctrl+r run", "java"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}
