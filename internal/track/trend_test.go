package track

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func trendRuns(ns ...int) func() []*Run {
	var runs []*Run
	for _, n := range ns {
		runs = append(runs, &Run{
			Number:       n,
			PassRate:     float64(n) * 10,
			OpenDefects:  n,
			FixedDefects: n % 2,
		})
	}
	return func() []*Run { return runs }
}

func TestAggregator_EmptyHistory(t *testing.T) {
	a := NewAggregator(trendRuns())
	m := a.Metrics(5)
	if len(m.RunLabels) != 0 || len(m.PassRateTrend) != 0 || len(m.DefectTrend) != 0 || len(m.FixedTrend) != 0 {
		t.Fatalf("empty history: %+v, want empty arrays", m)
	}
}

func TestAggregator_FewerRunsThanWindow(t *testing.T) {
	a := NewAggregator(trendRuns(1, 2, 3))
	m := a.Metrics(5)
	if len(m.RunLabels) != 3 {
		t.Fatalf("window 5 on 3 runs: got %d labels, want 3 (never pad)", len(m.RunLabels))
	}
}

func TestAggregator_WindowTakesMostRecentChronological(t *testing.T) {
	a := NewAggregator(trendRuns(1, 2, 3, 4, 5))
	m := a.Metrics(3)

	want := ImprovementMetrics{
		RunLabels:     []string{"Run 3", "Run 4", "Run 5"},
		PassRateTrend: []float64{30, 40, 50},
		DefectTrend:   []int{3, 4, 5},
		FixedTrend:    []int{1, 0, 1},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Fatalf("metrics mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregator_ZeroWindowUsesDefault(t *testing.T) {
	a := NewAggregator(trendRuns(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12))
	m := a.Metrics(0)
	if len(m.RunLabels) != DefaultTrendWindow {
		t.Fatalf("default window: got %d, want %d", len(m.RunLabels), DefaultTrendWindow)
	}
	if m.RunLabels[0] != "Run 3" {
		t.Fatalf("default window start: %s, want Run 3", m.RunLabels[0])
	}
}
