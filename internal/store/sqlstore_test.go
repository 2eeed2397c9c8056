package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"vigil/internal/track"
)

func testRun(n int) *track.Run {
	return &track.Run{
		Number:          n,
		UUID:            "uuid-" + string(rune('0'+n)),
		Timestamp:       time.Date(2026, 8, 1, 12, 0, n, 0, time.UTC),
		DurationMS:      90_000,
		TotalTests:      20,
		Passed:          17,
		Failed:          2,
		Skipped:         1,
		PassRate:        85,
		NewDefects:      2,
		FixedDefects:    1,
		ReopenedDefects: 0,
		OpenDefects:     2,
		Categories:      []track.CategoryCount{{Category: "api", Total: 2, Failed: 2}},
		FailedTests:     []track.TestID{"t1", "t2"},
	}
}

func testDefect(id track.TestID, status track.Status) *track.Defect {
	return &track.Defect{
		ID:            track.DefectID(id),
		TestID:        id,
		TestName:      string(id) + " name",
		Category:      "api",
		Severity:      track.SeverityHigh,
		Status:        status,
		FirstFoundRun: 1,
		LastSeenRun:   1,
		ErrorMessage:  "assertion failed",
	}
}

func TestSqlStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vigil.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	run := testRun(1)
	defects := []*track.Defect{
		testDefect("t1", track.StatusOpen),
		testDefect("t2", track.StatusOpen),
	}
	if err := s.SaveRun(run, defects); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	state, warnings, err := s2.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("warnings on clean load: %v", warnings)
	}
	if len(state.Runs) != 1 {
		t.Fatalf("runs: got %d, want 1", len(state.Runs))
	}
	if diff := cmp.Diff(run, state.Runs[0]); diff != "" {
		t.Fatalf("run mismatch (-want +got):\n%s", diff)
	}
	if len(state.Defects) != 2 {
		t.Fatalf("defects: got %d, want 2", len(state.Defects))
	}
	if diff := cmp.Diff(defects[0], state.Defects[track.DefectID("t1")]); diff != "" {
		t.Fatalf("defect mismatch (-want +got):\n%s", diff)
	}
}

func TestSqlStore_UpsertDefect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vigil.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	d := testDefect("t1", track.StatusOpen)
	if err := s.SaveRun(testRun(1), []*track.Defect{d}); err != nil {
		t.Fatalf("SaveRun 1: %v", err)
	}

	fixed := *d
	fixed.Status = track.StatusFixed
	fixed.FixedInRun = 2
	if err := s.SaveRun(testRun(2), []*track.Defect{&fixed}); err != nil {
		t.Fatalf("SaveRun 2: %v", err)
	}

	state, _, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := state.Defects[d.ID]
	if got == nil || got.Status != track.StatusFixed || got.FixedInRun != 2 {
		t.Fatalf("upsert: got %+v", got)
	}
	if got.FirstFoundRun != 1 {
		t.Fatalf("FirstFoundRun changed on upsert: %+v", got)
	}
	if len(state.Defects) != 1 {
		t.Fatalf("defect duplicated on upsert: %d records", len(state.Defects))
	}
}

func TestSqlStore_DuplicateRunNumberRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vigil.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if err := s.SaveRun(testRun(1), nil); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := s.SaveRun(testRun(1), nil); err == nil {
		t.Fatalf("duplicate run number accepted")
	}
}

func TestSqlStore_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vigil.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if err := s.SaveRun(testRun(1), []*track.Defect{testDefect("t1", track.StatusOpen)}); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	state, _, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(state.Runs) != 0 || len(state.Defects) != 0 {
		t.Fatalf("not empty after clear: %d runs, %d defects", len(state.Runs), len(state.Defects))
	}
}

func TestSqlStore_BadTimestampKeepsRunNumber(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vigil.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if err := s.SaveRun(testRun(1), nil); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if _, err := s.db.Exec("UPDATE runs SET timestamp = 'not-a-time' WHERE number = 1"); err != nil {
		t.Fatalf("corrupt timestamp: %v", err)
	}

	state, warnings, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// The run must survive with a zero time; dropping it would free number 1
	// for reuse and the next insert would collide on the primary key.
	if len(state.Runs) != 1 || state.Runs[0].Number != 1 {
		t.Fatalf("run with bad timestamp dropped: %+v", state.Runs)
	}
	if !state.Runs[0].Timestamp.IsZero() {
		t.Fatalf("timestamp: got %v, want zero", state.Runs[0].Timestamp)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "bad timestamp") {
		t.Fatalf("bad timestamp not surfaced: %v", warnings)
	}
	if err := s.SaveRun(testRun(2), nil); err != nil {
		t.Fatalf("SaveRun after degraded load: %v", err)
	}
}

func TestSqlStore_CorruptedFileMovedAsideWithWarning(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vigil.db")
	if err := os.WriteFile(path, []byte("this is not a sqlite database at all"), 0o644); err != nil {
		t.Fatalf("write garbage: %v", err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open on corrupted db: %v", err)
	}
	defer s.Close()

	state, warnings, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(state.Runs) != 0 || len(state.Defects) != 0 {
		t.Fatalf("corrupted db not degraded to empty")
	}
	if len(warnings) == 0 || !strings.Contains(warnings[0], "corrupted") {
		t.Fatalf("corruption not surfaced: %v", warnings)
	}

	entries, _ := os.ReadDir(dir)
	var aside bool
	for _, e := range entries {
		if strings.Contains(e.Name(), ".corrupt-") {
			aside = true
		}
	}
	if !aside {
		t.Fatalf("corrupted file not moved aside: %v", entries)
	}
}
