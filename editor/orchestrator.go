// ABOUTME: Run orchestration for a mount: clear markers, execute, process output, apply markers.
// ABOUTME: Notifies observers (metrics, run ledger) after every run, including superseded ones.
package editor

import (
	"context"
	"errors"
	"time"

	"github.com/2389-research/playpen/playpen"
	"go.uber.org/zap"
)

// ErrSuperseded is returned when a newer run or a reset replaced the run
// before its result arrived.
var ErrSuperseded = errors.New("run superseded")

// Executor runs a program on the remote execution endpoint.
type Executor interface {
	Run(ctx context.Context, source string) playpen.RunResult
}

// RunRecord describes a finished run. It never carries source code.
type RunRecord struct {
	RunID       string
	MountID     string
	Page        string
	Status      playpen.Status
	Duration    time.Duration
	Markers     int
	OutputBytes int
	Truncated   bool
	Superseded  bool
	FinishedAt  time.Time
}

// Observer is notified after every run.
type Observer interface {
	RunFinished(rec RunRecord)
}

// RunOutcome is what a caller shows after a run.
type RunOutcome struct {
	RunID    string         `json:"run_id"`
	Report   playpen.Report `json:"report"`
	Markers  []Marker       `json:"markers"`
	Released []Marker       `json:"released"`
}

// Orchestrator drives runs for any number of mounts.
type Orchestrator struct {
	executor  Executor
	opts      playpen.Options
	logger    *zap.Logger
	observers []Observer
}

// NewOrchestrator creates an Orchestrator. A nil logger is replaced by a no-op logger.
func NewOrchestrator(executor Executor, opts playpen.Options, logger *zap.Logger, observers ...Observer) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		executor:  executor,
		opts:      opts,
		logger:    logger,
		observers: observers,
	}
}

// Run executes the mount's current code. Markers from the previous run are
// released before the request is sent. If the run is superseded while in
// flight, its result is discarded and ErrSuperseded is returned.
func (o *Orchestrator) Run(ctx context.Context, m *Mount) (RunOutcome, error) {
	start := time.Now()
	runID, source, released := m.BeginRun()
	log := o.logger.With(zap.String("mount_id", m.ID), zap.String("run_id", runID))
	log.Debug("run started", zap.Int("released_markers", len(released)))

	result := o.executor.Run(ctx, source)
	report := playpen.Process(result, o.opts)

	applied, current := m.CompleteRun(runID, report)
	rec := RunRecord{
		RunID:       runID,
		MountID:     m.ID,
		Page:        m.Page,
		Status:      result.Status,
		Duration:    time.Since(start),
		Markers:     len(applied),
		OutputBytes: len(result.RawText),
		Truncated:   report.Truncated,
		Superseded:  !current,
		FinishedAt:  time.Now(),
	}
	o.notify(rec)

	if !current {
		log.Info("run result discarded", zap.String("status", result.Status.String()))
		return RunOutcome{RunID: runID, Released: released}, ErrSuperseded
	}

	log.Info("run finished",
		zap.String("status", result.Status.String()),
		zap.Int("markers", len(applied)),
		zap.Bool("truncated", report.Truncated),
		zap.Duration("duration", rec.Duration),
	)
	return RunOutcome{
		RunID:    runID,
		Report:   report,
		Markers:  applied,
		Released: released,
	}, nil
}

// Reset restores the mount's original code and releases its markers.
func (o *Orchestrator) Reset(m *Mount) []Marker {
	released := m.Reset()
	o.logger.Debug("mount reset",
		zap.String("mount_id", m.ID),
		zap.Int("released_markers", len(released)),
	)
	return released
}

func (o *Orchestrator) notify(rec RunRecord) {
	for _, obs := range o.observers {
		obs.RunFinished(rec)
	}
}
