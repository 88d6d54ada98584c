// ABOUTME: Tests for the SQLite run ledger.
// ABOUTME: Covers recording, upserts, recent ordering, and per-status counts.
package runlog_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/2389-research/playpen/editor"
	"github.com/2389-research/playpen/playpen"
	"github.com/2389-research/playpen/runlog"
)

func openLedger(t *testing.T) *runlog.Ledger {
	t.Helper()
	l, err := runlog.Open(filepath.Join(t.TempDir(), "runs.db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func record(id string, status playpen.Status, at time.Time) editor.RunRecord {
	return editor.RunRecord{
		RunID:       id,
		MountID:     "mount-1",
		Page:        "intro",
		Status:      status,
		Duration:    1500 * time.Millisecond,
		Markers:     2,
		OutputBytes: 120,
		FinishedAt:  at,
	}
}

func TestLedgerRecordAndRecent(t *testing.T) {
	l := openLedger(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	l.RunFinished(record("run-a", playpen.StatusSuccess, base))
	l.RunFinished(record("run-b", playpen.StatusError, base.Add(time.Minute)))
	l.RunFinished(record("run-c", playpen.StatusEmpty, base.Add(2*time.Minute)))

	entries, err := l.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].RunID != "run-c" || entries[1].RunID != "run-b" {
		t.Errorf("expected newest first, got %s, %s", entries[0].RunID, entries[1].RunID)
	}

	e := entries[1]
	if e.Status != "error" {
		t.Errorf("expected status error, got %q", e.Status)
	}
	if e.DurationMS != 1500 {
		t.Errorf("expected 1500ms, got %d", e.DurationMS)
	}
	if e.Markers != 2 || e.OutputBytes != 120 || e.Page != "intro" || e.MountID != "mount-1" {
		t.Errorf("unexpected entry: %+v", e)
	}
	if !e.FinishedAt.Equal(base.Add(time.Minute)) {
		t.Errorf("expected finished_at %v, got %v", base.Add(time.Minute), e.FinishedAt)
	}
}

func TestLedgerUpsertKeepsLatest(t *testing.T) {
	l := openLedger(t)
	at := time.Now()

	if err := l.Record(record("run-a", playpen.StatusSuccess, at)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	rec := record("run-a", playpen.StatusSuccess, at)
	rec.Superseded = true
	if err := l.Record(rec); err != nil {
		t.Fatalf("Record: %v", err)
	}

	entries, err := l.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if !entries[0].Superseded {
		t.Error("expected the second record to win")
	}
}

func TestLedgerCountByStatus(t *testing.T) {
	l := openLedger(t)
	at := time.Now()

	l.RunFinished(record("a", playpen.StatusSuccess, at))
	l.RunFinished(record("b", playpen.StatusSuccess, at))
	l.RunFinished(record("c", playpen.StatusTransportFailure, at))
	stale := record("d", playpen.StatusError, at)
	stale.Superseded = true
	l.RunFinished(stale)

	counts, err := l.CountByStatus()
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	want := map[string]int{"success": 2, "transport_failure": 1, "superseded": 1}
	if len(counts) != len(want) {
		t.Fatalf("expected %v, got %v", want, counts)
	}
	for k, v := range want {
		if counts[k] != v {
			t.Errorf("count[%s]: expected %d, got %d", k, v, counts[k])
		}
	}
}

func TestLedgerReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	l, err := runlog.Open(path, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	l.RunFinished(record("run-a", playpen.StatusSuccess, time.Now()))
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	l, err = runlog.Open(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = l.Close() }()

	entries, err := l.Recent(0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after reopen, got %d", len(entries))
	}
}

func TestOpenInvalidPath(t *testing.T) {
	_, err := runlog.Open(filepath.Join(t.TempDir(), "missing", "dir", "runs.db"), nil)
	if err == nil {
		t.Fatal("expected error for unwritable path")
	}
}
