package track

import (
	"fmt"
	"log/slog"
	"sync"

	"vigil/internal/logging"
)

// Tracker is the explicitly constructed, explicitly closed engine facade the
// orchestrating driver owns: recorder + catalog + aggregator wired over an
// injected Gateway. No ambient singletons; lifetime and test isolation are
// the caller's to control.
type Tracker struct {
	mu       sync.RWMutex
	gw       Gateway
	log      *slog.Logger
	rec      *Recorder
	catalog  *Catalog
	agg      *Aggregator
	runs     []*Run
	warnings []string
	closed   bool
}

// Open loads persisted state through gw and returns a ready tracker. A
// missing or corrupted store degrades to an empty catalog and history; what
// was skipped is available via LoadWarnings.
func Open(gw Gateway) (*Tracker, error) {
	state, warnings, err := gw.Load()
	if err != nil {
		return nil, fmt.Errorf("track: load state: %w", err)
	}
	t := &Tracker{
		gw:       gw,
		log:      logging.New("track"),
		catalog:  NewCatalog(),
		warnings: warnings,
	}
	if state != nil {
		t.runs = state.Runs
		t.catalog.Load(state.Defects)
	}
	next := 1
	if n := len(t.runs); n > 0 {
		next = t.runs[n-1].Number + 1
	}
	t.rec = NewRecorder(next)
	t.agg = NewAggregator(t.sealedRuns)
	for _, w := range warnings {
		t.log.Warn("degraded load", "detail", w)
	}
	return t, nil
}

// Close releases the gateway. The tracker is unusable afterwards.
func (t *Tracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	return t.gw.Close()
}

// LoadWarnings reports what Open had to skip (corrupted or missing records).
func (t *Tracker) LoadWarnings() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, len(t.warnings))
	copy(out, t.warnings)
	return out
}

// StartRun opens a new run and returns its number.
func (t *Tracker) StartRun() (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return 0, ErrClosed
	}
	n, err := t.rec.Start()
	if err != nil {
		return 0, err
	}
	t.log.Info("run started", "run", n)
	return n, nil
}

// ReportPass records a passing outcome for the open run.
func (t *Tracker) ReportPass(id TestID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	return t.rec.ReportPass(id)
}

// ReportSkip records a skipped outcome for the open run.
func (t *Tracker) ReportSkip(id TestID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	return t.rec.ReportSkip(id)
}

// ReportFailure records a failing outcome for the open run.
func (t *Tracker) ReportFailure(id TestID, name, category, errMsg string, sev Severity) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	return t.rec.ReportFailure(id, name, category, errMsg, sev)
}

// CompleteRun seals the open run, applies the defect lifecycle rules, and
// persists both atomically. The in-memory state is committed only after the
// write succeeds; on a storage failure the run stays open and the catalog is
// untouched, so memory and disk never diverge. Returns the fully annotated
// sealed run.
func (t *Tracker) CompleteRun(totals Totals) (*Run, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ErrClosed
	}
	run, err := t.rec.Seal(totals)
	if err != nil {
		return nil, err
	}
	delta, err := t.catalog.Stage(run.Number, t.rec.Outcomes())
	if err != nil {
		return nil, err
	}
	run.NewDefects = delta.New
	run.FixedDefects = delta.Fixed
	run.ReopenedDefects = delta.Reopened
	run.OpenDefects = t.catalog.OpenCount() + delta.New + delta.Reopened - delta.Fixed

	if err := t.gw.SaveRun(run, delta.Changed); err != nil {
		return nil, fmt.Errorf("track: persist run %d: %w", run.Number, err)
	}
	t.catalog.Commit(delta)
	t.runs = append(t.runs, run)
	t.rec.Finish()
	t.log.Info("run sealed",
		"run", run.Number,
		"pass_rate", run.PassRate,
		"new", run.NewDefects,
		"fixed", run.FixedDefects,
		"reopened", run.ReopenedDefects,
	)
	cp := *run
	return &cp, nil
}

// RunOpen reports whether a run is currently accumulating outcomes.
func (t *Tracker) RunOpen() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rec.Open()
}

// AllRuns returns the sealed run history in run-number order.
func (t *Tracker) AllRuns() []*Run {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sealedRuns()
}

func (t *Tracker) sealedRuns() []*Run {
	out := make([]*Run, len(t.runs))
	for i, r := range t.runs {
		cp := *r
		out[i] = &cp
	}
	return out
}

// AllDefects returns every defect, firstFoundRun ascending.
func (t *Tracker) AllDefects() []*Defect { return t.catalog.All() }

// OpenDefects returns currently open defects, firstFoundRun ascending.
func (t *Tracker) OpenDefects() []*Defect { return t.catalog.Open() }

// FixedDefects returns currently fixed defects, firstFoundRun ascending.
func (t *Tracker) FixedDefects() []*Defect { return t.catalog.Fixed() }

// DefectStats returns the aggregate defect view, recomputed on every call.
func (t *Tracker) DefectStats() DefectStats { return t.catalog.Stats() }

// ImprovementMetrics returns dashboard trend series over the most recent
// window of runs (DefaultTrendWindow when window <= 0).
func (t *Tracker) ImprovementMetrics(window int) ImprovementMetrics {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.agg.Metrics(window)
}

// FailedRuns returns the run numbers in which the given test failed, most
// recent first. Used by issue-creation collaborators to judge whether a
// failure is repetitive.
func (t *Tracker) FailedRuns(id TestID) []int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []int
	for i := len(t.runs) - 1; i >= 0; i-- {
		for _, f := range t.runs[i].FailedTests {
			if f == id {
				out = append(out, t.runs[i].Number)
				break
			}
		}
	}
	return out
}

// ClearAllData wipes the run history and the defect catalog, on disk first
// and in memory only after the wipe succeeded. Run numbering restarts at 1.
func (t *Tracker) ClearAllData() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	if err := t.gw.Clear(); err != nil {
		return fmt.Errorf("track: clear: %w", err)
	}
	t.runs = nil
	t.catalog.Clear()
	t.rec.Reset()
	t.warnings = nil
	t.log.Info("all data cleared")
	return nil
}
