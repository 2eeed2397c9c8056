// Package mcp exposes the tracking engine's read surface as MCP tools over
// stdio, so AI-assisted report and issue-creation collaborators can query
// defect state without linking the library.
package mcp

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"vigil/internal/track"
)

// Server wraps the MCP SDK server over a Tracker. All tools are read-only;
// the test-orchestration driver remains the sole writer.
type Server struct {
	MCPServer *sdkmcp.Server
	tracker   *track.Tracker
}

// NewServer creates an MCP server exposing dashboard query tools.
func NewServer(t *track.Tracker) *Server {
	s := &Server{tracker: t}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "vigil", Version: "dev"},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_defects",
		Description: "List tracked defects, optionally filtered by status (open, fixed, all).",
	}, s.handleGetDefects)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_defect_stats",
		Description: "Get aggregate defect statistics: totals plus per-severity and per-category counts.",
	}, s.handleGetDefectStats)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_runs",
		Description: "List sealed run records in run-number order, optionally limited to the most recent N.",
	}, s.handleGetRuns)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_trends",
		Description: "Get improvement metrics (pass-rate, open-defect and fixed-per-run trends) over the most recent runs.",
	}, s.handleGetTrends)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_failure_history",
		Description: "List the runs in which a given test failed, most recent first. Useful to judge whether a failure is repetitive before filing an issue.",
	}, s.handleGetFailureHistory)
}

// --- Tool input/output types ---

type getDefectsInput struct {
	Status string `json:"status,omitempty" jsonschema:"filter by status (open, fixed, all; default all)"`
}

type getDefectsOutput struct {
	Defects []*track.Defect `json:"defects"`
	Total   int             `json:"total"`
}

type getDefectStatsInput struct{}

type getDefectStatsOutput struct {
	Stats track.DefectStats `json:"stats"`
}

type getRunsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"return only the most recent N runs (0 = all)"`
}

type getRunsOutput struct {
	Runs  []*track.Run `json:"runs"`
	Total int          `json:"total"`
}

type getTrendsInput struct {
	Window int `json:"window,omitempty" jsonschema:"number of recent runs to chart (default 10)"`
}

type getTrendsOutput struct {
	Metrics track.ImprovementMetrics `json:"metrics"`
}

type getFailureHistoryInput struct {
	TestID string `json:"test_id" jsonschema:"stable test identity to look up"`
}

type getFailureHistoryOutput struct {
	TestID     string `json:"test_id"`
	FailedRuns []int  `json:"failed_runs"`
	Repetitive bool   `json:"repetitive"`
}

// --- Tool handlers ---

func (s *Server) handleGetDefects(_ context.Context, _ *sdkmcp.CallToolRequest, input getDefectsInput) (*sdkmcp.CallToolResult, getDefectsOutput, error) {
	var defects []*track.Defect
	switch input.Status {
	case "", "all":
		defects = s.tracker.AllDefects()
	case string(track.StatusOpen):
		defects = s.tracker.OpenDefects()
	case string(track.StatusFixed):
		defects = s.tracker.FixedDefects()
	default:
		return nil, getDefectsOutput{}, fmt.Errorf("unknown status %q (want open, fixed or all)", input.Status)
	}
	return nil, getDefectsOutput{Defects: defects, Total: len(defects)}, nil
}

func (s *Server) handleGetDefectStats(_ context.Context, _ *sdkmcp.CallToolRequest, _ getDefectStatsInput) (*sdkmcp.CallToolResult, getDefectStatsOutput, error) {
	return nil, getDefectStatsOutput{Stats: s.tracker.DefectStats()}, nil
}

func (s *Server) handleGetRuns(_ context.Context, _ *sdkmcp.CallToolRequest, input getRunsInput) (*sdkmcp.CallToolResult, getRunsOutput, error) {
	runs := s.tracker.AllRuns()
	total := len(runs)
	if input.Limit > 0 && len(runs) > input.Limit {
		runs = runs[len(runs)-input.Limit:]
	}
	return nil, getRunsOutput{Runs: runs, Total: total}, nil
}

func (s *Server) handleGetTrends(_ context.Context, _ *sdkmcp.CallToolRequest, input getTrendsInput) (*sdkmcp.CallToolResult, getTrendsOutput, error) {
	return nil, getTrendsOutput{Metrics: s.tracker.ImprovementMetrics(input.Window)}, nil
}

func (s *Server) handleGetFailureHistory(_ context.Context, _ *sdkmcp.CallToolRequest, input getFailureHistoryInput) (*sdkmcp.CallToolResult, getFailureHistoryOutput, error) {
	if input.TestID == "" {
		return nil, getFailureHistoryOutput{}, fmt.Errorf("test_id is required")
	}
	failed := s.tracker.FailedRuns(track.TestID(input.TestID))
	return nil, getFailureHistoryOutput{
		TestID:     input.TestID,
		FailedRuns: failed,
		Repetitive: len(failed) > 1,
	}, nil
}
