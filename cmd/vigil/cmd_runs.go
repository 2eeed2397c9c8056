package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vigil/internal/format"
)

var runsFlags struct {
	limit    int
	markdown bool
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show the sealed run history",
	RunE:  runRuns,
}

func init() {
	f := runsCmd.Flags()
	f.IntVar(&runsFlags.limit, "limit", 0, "Show only the most recent N runs (0 = all)")
	f.BoolVar(&runsFlags.markdown, "markdown", false, "Render as a Markdown table")
}

func runRuns(cmd *cobra.Command, _ []string) error {
	t, err := openTracker()
	if err != nil {
		return err
	}
	defer t.Close()

	runs := t.AllRuns()
	if runsFlags.limit > 0 && len(runs) > runsFlags.limit {
		runs = runs[len(runs)-runsFlags.limit:]
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	mode := format.ASCII
	if runsFlags.markdown {
		mode = format.Markdown
	}
	tbl := format.NewTable(mode)
	tbl.Header("Run", "When", "Duration", "Total", "Passed", "Failed", "Skipped", "Pass rate", "New", "Fixed", "Reopened", "Open")
	tbl.Columns(
		format.ColumnConfig{Number: 1, Align: format.AlignRight},
		format.ColumnConfig{Number: 8, Align: format.AlignRight},
	)
	for _, r := range runs {
		tbl.Row(r.Number, r.Timestamp.Format("2006-01-02 15:04"),
			format.FmtDuration(r.DurationMS), r.TotalTests, r.Passed, r.Failed,
			r.Skipped, format.FmtPercent(r.PassRate), r.NewDefects,
			r.FixedDefects, r.ReopenedDefects, r.OpenDefects)
	}
	fmt.Fprintln(out, tbl.String())
	return nil
}
