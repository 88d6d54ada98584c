// ABOUTME: Mount struct for one editor mount point: code, original snapshot, run state, and markers.
// ABOUTME: Runs are tagged with a ULID so completions from a superseded run are discarded.
package editor

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/2389-research/playpen/playpen"
	"github.com/oklog/ulid/v2"
)

// State is where a mount is in its run lifecycle.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateSuccess
	StateError
	StateEmpty
	StateTransportFailure
)

// String returns the wire name of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	case StateEmpty:
		return "empty"
	case StateTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// MarshalText lets State appear by name in JSON payloads.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state wire name.
func (s *State) UnmarshalText(text []byte) error {
	for st := StateIdle; st <= StateTransportFailure; st++ {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

func stateForStatus(status playpen.Status) State {
	switch status {
	case playpen.StatusSuccess:
		return StateSuccess
	case playpen.StatusError:
		return StateError
	case playpen.StatusEmpty:
		return StateEmpty
	default:
		return StateTransportFailure
	}
}

// MountSpec describes a mount point found on a page.
type MountSpec struct {
	ViewID   string
	Page     string
	Index    int
	Language string
	Code     string
}

// Mount is one editor instance. Each mount owns its code, the snapshot it
// was created with, and the markers of its most recent run.
type Mount struct {
	mu         sync.Mutex
	ID         string
	ViewID     string
	Page       string
	Index      int
	Language   string
	code       string
	original   string
	state      State
	runID      string
	markers    MarkerSet
	report     *playpen.Report
	CreatedAt  time.Time
	LastAccess time.Time
}

// MountView is a point-in-time copy of a mount for rendering.
type MountView struct {
	ID       string          `json:"id"`
	ViewID   string          `json:"view_id,omitempty"`
	Page     string          `json:"page,omitempty"`
	Index    int             `json:"index"`
	Language string          `json:"language"`
	Code     string          `json:"code"`
	State    State           `json:"state"`
	RunID    string          `json:"run_id,omitempty"`
	Markers  []Marker        `json:"markers"`
	Report   *playpen.Report `json:"report,omitempty"`
}

func newMount(id string, spec MountSpec, now time.Time) *Mount {
	return &Mount{
		ID:         id,
		ViewID:     spec.ViewID,
		Page:       spec.Page,
		Index:      spec.Index,
		Language:   spec.Language,
		code:       spec.Code,
		original:   spec.Code,
		state:      StateIdle,
		CreatedAt:  now,
		LastAccess: now,
	}
}

func newRunID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// Code returns the current editor text.
func (m *Mount) Code() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.code
}

// Original returns the snapshot taken when the mount was created.
func (m *Mount) Original() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.original
}

// SetCode replaces the editor text.
func (m *Mount) SetCode(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.code = code
}

// State returns the current lifecycle state.
func (m *Mount) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// BeginRun releases every marker, starts a new run, and returns its id along
// with the source to execute. A run already in flight is superseded.
func (m *Mount) BeginRun() (runID string, source string, released []Marker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	released = m.markers.Clear()
	m.runID = newRunID()
	m.state = StateRunning
	m.report = nil
	return m.runID, m.code, released
}

// CompleteRun applies the report of run runID. It returns false without
// touching the mount when runID is no longer the current run.
func (m *Mount) CompleteRun(runID string, report playpen.Report) ([]Marker, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if runID == "" || runID != m.runID {
		return nil, false
	}

	// stray markers can only come from a caller that skipped BeginRun
	m.markers.Clear()

	applied := make([]Marker, 0, len(report.Ranges))
	if len(report.Ranges) > 0 {
		class := playpen.MarkerClass(report.Kind)
		for _, r := range report.Ranges {
			applied = append(applied, m.markers.Add(runID, class, r))
		}
	}

	m.state = stateForStatus(report.Status)
	rep := report
	m.report = &rep
	return applied, true
}

// Reset releases every marker, restores the original snapshot, and returns
// to idle. A run in flight at reset time is discarded when it completes.
func (m *Mount) Reset() []Marker {
	m.mu.Lock()
	defer m.mu.Unlock()

	released := m.markers.Clear()
	m.code = m.original
	m.state = StateIdle
	m.runID = ""
	m.report = nil
	return released
}

// Release drops every marker without changing the code or state. It is used
// when a mount is torn down.
func (m *Mount) Release() []Marker {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runID = ""
	return m.markers.Clear()
}

// Markers returns the markers of the current run.
func (m *Mount) Markers() []Marker {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.markers.Markers()
}

// Snapshot copies the mount for rendering.
func (m *Mount) Snapshot() MountView {
	m.mu.Lock()
	defer m.mu.Unlock()

	view := MountView{
		ID:       m.ID,
		ViewID:   m.ViewID,
		Page:     m.Page,
		Index:    m.Index,
		Language: m.Language,
		Code:     m.code,
		State:    m.state,
		RunID:    m.runID,
		Markers:  m.markers.Markers(),
	}
	if m.report != nil {
		rep := *m.report
		view.Report = &rep
	}
	return view
}
