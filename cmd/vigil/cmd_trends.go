package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vigil/internal/format"
	"vigil/internal/track"
)

var trendsFlags struct {
	window   int
	markdown bool
}

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show improvement metrics over the most recent runs",
	RunE:  runTrends,
}

func init() {
	f := trendsCmd.Flags()
	f.IntVar(&trendsFlags.window, "window", track.DefaultTrendWindow, "Number of recent runs to chart")
	f.BoolVar(&trendsFlags.markdown, "markdown", false, "Render as a Markdown table")
}

func runTrends(cmd *cobra.Command, _ []string) error {
	t, err := openTracker()
	if err != nil {
		return err
	}
	defer t.Close()

	m := t.ImprovementMetrics(trendsFlags.window)
	out := cmd.OutOrStdout()
	if len(m.RunLabels) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	mode := format.ASCII
	if trendsFlags.markdown {
		mode = format.Markdown
	}
	tbl := format.NewTable(mode)
	tbl.Header("Run", "Pass rate", "Open defects", "Fixed this run")
	tbl.Columns(
		format.ColumnConfig{Number: 2, Align: format.AlignRight},
		format.ColumnConfig{Number: 3, Align: format.AlignRight},
		format.ColumnConfig{Number: 4, Align: format.AlignRight},
	)
	for i := range m.RunLabels {
		tbl.Row(m.RunLabels[i], format.FmtPercent(m.PassRateTrend[i]),
			m.DefectTrend[i], m.FixedTrend[i])
	}
	fmt.Fprintln(out, tbl.String())
	return nil
}
