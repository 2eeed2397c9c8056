// Package track is the defect lifecycle and run-over-run analytics engine.
//
// It ingests per-test outcomes from successive executions of a test suite and
// maintains a durable catalog of defects (tests that failed at least once),
// an ordered history of sealed runs, and windowed trend series for dashboard
// consumption. The engine is driven synchronously by a single orchestrator:
// StartRun → ReportPass/ReportFailure → CompleteRun, with reads served to
// dashboard and report consumers in between.
package track

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// TestID is the stable cross-run key identifying "the same test" for
// defect-matching purposes. It must not be a per-run or per-process
// ephemeral identifier.
type TestID string

// Result is the outcome of one test in one run.
type Result string

const (
	ResultPassed  Result = "passed"
	ResultFailed  Result = "failed"
	ResultSkipped Result = "skipped"
)

// Status is the lifecycle state of a defect.
type Status string

const (
	StatusOpen  Status = "open"
	StatusFixed Status = "fixed"
)

// Severity classifies how badly a failing test hurts.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// NormalizeSeverity maps free-form severity strings onto the four canonical
// levels. Unknown or empty values default to medium.
func NormalizeSeverity(s string) Severity {
	switch Severity(s) {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return Severity(s)
	}
	switch s {
	case "blocker", "fatal":
		return SeverityCritical
	case "major":
		return SeverityHigh
	case "minor", "trivial":
		return SeverityLow
	}
	return SeverityMedium
}

// Outcome is one test's result within the currently open run.
type Outcome struct {
	TestID       TestID   `json:"test_id"`
	TestName     string   `json:"test_name,omitempty"`
	Category     string   `json:"category,omitempty"`
	Result       Result   `json:"result"`
	ErrorMessage string   `json:"error_message,omitempty"`
	Severity     Severity `json:"severity,omitempty"`
}

// CategoryCount is the per-category slice of a run's totals.
type CategoryCount struct {
	Category string `json:"category"`
	Total    int    `json:"total"`
	Passed   int    `json:"passed"`
	Failed   int    `json:"failed"`
}

// Run is one sealed execution pass of the suite. Immutable once sealed;
// Number is the authoritative ordering key (timestamps are not guaranteed
// monotonic across clock adjustments).
type Run struct {
	Number          int             `json:"number"`
	UUID            string          `json:"uuid,omitempty"`
	Timestamp       time.Time       `json:"timestamp"`
	DurationMS      int64           `json:"duration_ms"`
	TotalTests      int             `json:"total_tests"`
	Passed          int             `json:"passed"`
	Failed          int             `json:"failed"`
	Skipped         int             `json:"skipped"`
	PassRate        float64         `json:"pass_rate"`
	NewDefects      int             `json:"new_defects"`
	FixedDefects    int             `json:"fixed_defects"`
	ReopenedDefects int             `json:"reopened_defects"`
	OpenDefects     int             `json:"open_defects"`
	Categories      []CategoryCount `json:"categories,omitempty"`
	FailedTests     []TestID        `json:"failed_tests,omitempty"`
}

// Defect is a test that has failed at least once, tracked as a single record
// across all runs. At most one record exists per TestID; FirstFoundRun never
// changes after creation. A defect may cycle open→fixed→open any number of
// times; only the most recent fix run is retained in FixedInRun (0 while open).
type Defect struct {
	ID            string   `json:"id"`
	TestID        TestID   `json:"test_id"`
	TestName      string   `json:"test_name,omitempty"`
	Category      string   `json:"category,omitempty"`
	Severity      Severity `json:"severity"`
	Status        Status   `json:"status"`
	FirstFoundRun int      `json:"first_found_run"`
	LastSeenRun   int      `json:"last_seen_run"`
	FixedInRun    int      `json:"fixed_in_run,omitempty"`
	ErrorMessage  string   `json:"error_message,omitempty"`
}

// DefectID derives the stable defect identifier from a test identity.
// Same TestID always yields the same ID.
func DefectID(id TestID) string {
	sum := sha256.Sum256([]byte(id))
	return "d-" + hex.EncodeToString(sum[:])[:12]
}

// DefectStats is the aggregate view over the canonical defect set,
// recomputed from the catalog on every call (never stale).
type DefectStats struct {
	Total      int              `json:"total"`
	Open       int              `json:"open"`
	Fixed      int              `json:"fixed"`
	BySeverity map[Severity]int `json:"by_severity"`
	ByCategory map[string]int   `json:"by_category"`
}

// ImprovementMetrics holds parallel series over the most recent window of
// sealed runs, in chronological order, for dashboard charting.
type ImprovementMetrics struct {
	RunLabels     []string  `json:"run_labels"`
	PassRateTrend []float64 `json:"pass_rate_trend"`
	DefectTrend   []int     `json:"defect_trend"`
	FixedTrend    []int     `json:"fixed_trend"`
}

// Totals is what the driver knows at completion time. TotalTests may exceed
// the sum of the other counts when tests never reported an outcome (e.g. an
// aborted run); the difference is folded into Skipped on sealing.
type Totals struct {
	TotalTests int
	Passed     int
	Failed     int
	Skipped    int
	DurationMS int64
	Categories []CategoryCount
}
