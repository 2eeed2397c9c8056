package mcp

import (
	"context"
	"testing"

	"vigil/internal/store"
	"vigil/internal/track"
)

// seededServer builds a server over a tracker with three sealed runs:
// run 1 fails t1 and t2, run 2 passes both, run 3 fails t1 again.
func seededServer(t *testing.T) *Server {
	t.Helper()
	tr, err := track.Open(store.NewMemStore())
	if err != nil {
		t.Fatalf("open tracker: %v", err)
	}
	t.Cleanup(func() { _ = tr.Close() })

	seal := func(report func()) {
		if _, err := tr.StartRun(); err != nil {
			t.Fatalf("StartRun: %v", err)
		}
		report()
		if _, err := tr.CompleteRun(track.Totals{}); err != nil {
			t.Fatalf("CompleteRun: %v", err)
		}
	}
	seal(func() {
		_ = tr.ReportFailure("t1", "test one", "api", "boom", track.SeverityHigh)
		_ = tr.ReportFailure("t2", "test two", "ui", "crash", track.SeverityCritical)
	})
	seal(func() {
		_ = tr.ReportPass("t1")
		_ = tr.ReportPass("t2")
	})
	seal(func() {
		_ = tr.ReportFailure("t1", "test one", "api", "boom again", track.SeverityHigh)
		_ = tr.ReportPass("t2")
	})
	return NewServer(tr)
}

func TestGetDefects_StatusFilter(t *testing.T) {
	s := seededServer(t)
	ctx := context.Background()

	_, all, err := s.handleGetDefects(ctx, nil, getDefectsInput{})
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if all.Total != 2 {
		t.Fatalf("all: got %d defects, want 2", all.Total)
	}

	_, open, err := s.handleGetDefects(ctx, nil, getDefectsInput{Status: "open"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if open.Total != 1 || open.Defects[0].TestID != "t1" {
		t.Fatalf("open: %+v", open)
	}

	_, fixed, err := s.handleGetDefects(ctx, nil, getDefectsInput{Status: "fixed"})
	if err != nil {
		t.Fatalf("fixed: %v", err)
	}
	if fixed.Total != 1 || fixed.Defects[0].TestID != "t2" {
		t.Fatalf("fixed: %+v", fixed)
	}

	if _, _, err := s.handleGetDefects(ctx, nil, getDefectsInput{Status: "bogus"}); err == nil {
		t.Fatalf("bogus status accepted")
	}
}

func TestGetDefectStats(t *testing.T) {
	s := seededServer(t)
	_, out, err := s.handleGetDefectStats(context.Background(), nil, getDefectStatsInput{})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if out.Stats.Total != 2 || out.Stats.Open != 1 || out.Stats.Fixed != 1 {
		t.Fatalf("stats: %+v", out.Stats)
	}
	if out.Stats.BySeverity[track.SeverityHigh] != 1 || out.Stats.BySeverity[track.SeverityCritical] != 1 {
		t.Fatalf("by severity: %+v", out.Stats.BySeverity)
	}
}

func TestGetRuns_Limit(t *testing.T) {
	s := seededServer(t)
	ctx := context.Background()

	_, all, err := s.handleGetRuns(ctx, nil, getRunsInput{})
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if all.Total != 3 || len(all.Runs) != 3 {
		t.Fatalf("runs: total=%d len=%d", all.Total, len(all.Runs))
	}

	_, last, err := s.handleGetRuns(ctx, nil, getRunsInput{Limit: 2})
	if err != nil {
		t.Fatalf("runs limit: %v", err)
	}
	if last.Total != 3 || len(last.Runs) != 2 || last.Runs[0].Number != 2 {
		t.Fatalf("runs limit: total=%d runs=%+v", last.Total, last.Runs)
	}
}

func TestGetTrends(t *testing.T) {
	s := seededServer(t)
	_, out, err := s.handleGetTrends(context.Background(), nil, getTrendsInput{Window: 2})
	if err != nil {
		t.Fatalf("trends: %v", err)
	}
	m := out.Metrics
	if len(m.RunLabels) != 2 || m.RunLabels[0] != "Run 2" || m.RunLabels[1] != "Run 3" {
		t.Fatalf("labels: %v", m.RunLabels)
	}
	if len(m.DefectTrend) != 2 || m.DefectTrend[0] != 0 || m.DefectTrend[1] != 1 {
		t.Fatalf("defect trend: %v", m.DefectTrend)
	}
}

func TestGetFailureHistory(t *testing.T) {
	s := seededServer(t)
	ctx := context.Background()

	_, out, err := s.handleGetFailureHistory(ctx, nil, getFailureHistoryInput{TestID: "t1"})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(out.FailedRuns) != 2 || out.FailedRuns[0] != 3 || out.FailedRuns[1] != 1 {
		t.Fatalf("failed runs: %v", out.FailedRuns)
	}
	if !out.Repetitive {
		t.Fatalf("t1 failed twice; want repetitive")
	}

	_, once, err := s.handleGetFailureHistory(ctx, nil, getFailureHistoryInput{TestID: "t2"})
	if err != nil {
		t.Fatalf("history t2: %v", err)
	}
	if len(once.FailedRuns) != 1 || once.Repetitive {
		t.Fatalf("t2: %+v", once)
	}

	if _, _, err := s.handleGetFailureHistory(ctx, nil, getFailureHistoryInput{}); err == nil {
		t.Fatalf("empty test_id accepted")
	}
}
