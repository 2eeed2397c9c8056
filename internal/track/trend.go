package track

import "fmt"

// DefaultTrendWindow is the number of recent runs charted when the caller
// does not ask for a specific window.
const DefaultTrendWindow = 10

// Aggregator derives bounded-size series from the ordered run history.
type Aggregator struct {
	runs func() []*Run // chronological, sealed runs
}

// NewAggregator wires an aggregator over a run-history source.
func NewAggregator(runs func() []*Run) *Aggregator {
	return &Aggregator{runs: runs}
}

// Metrics returns parallel arrays over the most recent min(window, total)
// sealed runs, chronological order. DefectTrend is the open-defect count as
// of the end of each run (a snapshot, not a running total); FixedTrend is
// each run's fixedDefects. Zero runs yields empty arrays, never an error;
// fewer runs than the window yields as many as exist, never padding.
func (a *Aggregator) Metrics(window int) ImprovementMetrics {
	if window <= 0 {
		window = DefaultTrendWindow
	}
	runs := a.runs()
	if len(runs) > window {
		runs = runs[len(runs)-window:]
	}
	m := ImprovementMetrics{
		RunLabels:     make([]string, 0, len(runs)),
		PassRateTrend: make([]float64, 0, len(runs)),
		DefectTrend:   make([]int, 0, len(runs)),
		FixedTrend:    make([]int, 0, len(runs)),
	}
	for _, r := range runs {
		m.RunLabels = append(m.RunLabels, fmt.Sprintf("Run %d", r.Number))
		m.PassRateTrend = append(m.PassRateTrend, r.PassRate)
		m.DefectTrend = append(m.DefectTrend, r.OpenDefects)
		m.FixedTrend = append(m.FixedTrend, r.FixedDefects)
	}
	return m
}
