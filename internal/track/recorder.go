package track

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Recorder accumulates one run's outcomes and seals them into an immutable
// Run record. Only one run may be open at a time; the orchestrating driver
// is the sole writer, so no locking happens here (the Tracker facade guards
// cross-goroutine reads).
type Recorder struct {
	nextNumber int
	open       bool
	number     int
	outcomes   []Outcome
	index      map[TestID]int // position in outcomes; a re-report overwrites
}

// NewRecorder returns a recorder whose next run gets the given number.
func NewRecorder(nextNumber int) *Recorder {
	if nextNumber < 1 {
		nextNumber = 1
	}
	return &Recorder{nextNumber: nextNumber}
}

// Start allocates the next monotonic run number and opens the accumulation
// buffer. Starting while a run is already open is rejected, not overwritten.
func (r *Recorder) Start() (int, error) {
	if r.open {
		return 0, fmt.Errorf("%w (run %d)", ErrRunOpen, r.number)
	}
	r.open = true
	r.number = r.nextNumber
	r.outcomes = nil
	r.index = make(map[TestID]int)
	return r.number, nil
}

// Open reports whether a run is currently accumulating outcomes.
func (r *Recorder) Open() bool { return r.open }

// Number returns the run number of the open run (0 if none).
func (r *Recorder) Number() int {
	if !r.open {
		return 0
	}
	return r.number
}

// ReportPass records a passing outcome for the open run.
func (r *Recorder) ReportPass(id TestID) error {
	return r.report(Outcome{TestID: id, Result: ResultPassed})
}

// ReportSkip records a skipped outcome for the open run.
func (r *Recorder) ReportSkip(id TestID) error {
	return r.report(Outcome{TestID: id, Result: ResultSkipped})
}

// ReportFailure records a failing outcome for the open run.
func (r *Recorder) ReportFailure(id TestID, name, category, errMsg string, sev Severity) error {
	return r.report(Outcome{
		TestID:       id,
		TestName:     name,
		Category:     category,
		Result:       ResultFailed,
		ErrorMessage: errMsg,
		Severity:     NormalizeSeverity(string(sev)),
	})
}

// report appends an outcome to the buffer. Reporting the same test twice
// within one run overwrites the earlier outcome (last report wins).
func (r *Recorder) report(o Outcome) error {
	if !r.open {
		return ErrNoOpenRun
	}
	if o.TestID == "" {
		return ErrEmptyTestID
	}
	if i, ok := r.index[o.TestID]; ok {
		r.outcomes[i] = o
		return nil
	}
	r.index[o.TestID] = len(r.outcomes)
	r.outcomes = append(r.outcomes, o)
	return nil
}

// Outcomes returns the buffered outcomes of the open run, in report order.
func (r *Recorder) Outcomes() []Outcome {
	out := make([]Outcome, len(r.outcomes))
	copy(out, r.outcomes)
	return out
}

// Seal freezes the open run into a Run record. Totals come from the driver;
// when TotalTests is zero they are derived from the buffered outcomes, and
// tests that never reported an outcome are counted as skipped (abort-mid-run
// contract). Seal does not close the buffer — the caller commits via Finish
// only after the run has been persisted, so a failed write leaves the run
// open for retry and memory never diverges from disk.
func (r *Recorder) Seal(t Totals) (*Run, error) {
	if !r.open {
		return nil, ErrNoOpenRun
	}
	if t.TotalTests == 0 && t.Passed == 0 && t.Failed == 0 && t.Skipped == 0 {
		for _, o := range r.outcomes {
			switch o.Result {
			case ResultPassed:
				t.Passed++
			case ResultFailed:
				t.Failed++
			case ResultSkipped:
				t.Skipped++
			}
		}
		t.TotalTests = t.Passed + t.Failed + t.Skipped
	}
	reported := t.Passed + t.Failed + t.Skipped
	if reported > t.TotalTests {
		return nil, fmt.Errorf("%w: %d > %d", ErrBadTotals, reported, t.TotalTests)
	}
	// Unreported tests are skipped, per the abort contract.
	t.Skipped += t.TotalTests - reported

	cats := t.Categories
	if len(cats) == 0 {
		cats = categoriesFromOutcomes(r.outcomes)
	}
	var failedIDs []TestID
	for _, o := range r.outcomes {
		if o.Result == ResultFailed {
			failedIDs = append(failedIDs, o.TestID)
		}
	}

	return &Run{
		Number:      r.number,
		UUID:        uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		DurationMS:  t.DurationMS,
		TotalTests:  t.TotalTests,
		Passed:      t.Passed,
		Failed:      t.Failed,
		Skipped:     t.Skipped,
		PassRate:    PassRate(t.Passed, t.TotalTests),
		Categories:  cats,
		FailedTests: failedIDs,
	}, nil
}

// Finish closes the buffer and advances the run counter. Called only after
// the sealed run has been durably persisted.
func (r *Recorder) Finish() {
	r.open = false
	r.nextNumber = r.number + 1
	r.outcomes = nil
	r.index = nil
}

// Reset rewinds numbering to 1 and discards any open buffer. Used by
// ClearAllData: run numbering restarts after a wipe.
func (r *Recorder) Reset() {
	r.open = false
	r.nextNumber = 1
	r.outcomes = nil
	r.index = nil
}

// PassRate computes passed/total as a percentage, rounded half-up to two
// decimal places. Zero total yields 0.
func PassRate(passed, total int) float64 {
	if total <= 0 {
		return 0
	}
	pct := float64(passed) / float64(total) * 100
	return math.Floor(pct*100+0.5) / 100
}

// categoriesFromOutcomes derives a per-category breakdown from the buffer.
// Only outcomes that carry a category (failures, typically) contribute.
func categoriesFromOutcomes(outcomes []Outcome) []CategoryCount {
	byCat := make(map[string]*CategoryCount)
	for _, o := range outcomes {
		if o.Category == "" {
			continue
		}
		c, ok := byCat[o.Category]
		if !ok {
			c = &CategoryCount{Category: o.Category}
			byCat[o.Category] = c
		}
		c.Total++
		switch o.Result {
		case ResultPassed:
			c.Passed++
		case ResultFailed:
			c.Failed++
		}
	}
	names := make([]string, 0, len(byCat))
	for name := range byCat {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]CategoryCount, 0, len(names))
	for _, name := range names {
		out = append(out, *byCat[name])
	}
	return out
}
