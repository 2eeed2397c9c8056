package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vigil/internal/ingest"
)

var recordFlags struct {
	results    []string
	durationMS int64
	totalTests int
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Ingest suite results and seal them as the next run",
	Long: `Parses one or more result documents (JSON or YAML, one per suite shard),
opens the next run, reports every outcome, and seals the run. The sealed run
and the updated defect catalog are persisted atomically; a malformed shard
seals nothing.`,
	RunE: runRecord,
}

func init() {
	f := recordCmd.Flags()
	f.StringSliceVar(&recordFlags.results, "results", nil, "Result file path (repeatable; required)")
	f.Int64Var(&recordFlags.durationMS, "duration-ms", 0, "Suite wall-clock duration in milliseconds (overrides documents)")
	f.IntVar(&recordFlags.totalTests, "total", 0, "Total tests the driver scheduled (unreported ones seal as skipped)")

	_ = recordCmd.MarkFlagRequired("results")
}

func runRecord(cmd *cobra.Command, _ []string) error {
	doc, err := ingest.ParseFiles(cmd.Context(), recordFlags.results)
	if err != nil {
		return err
	}

	t, err := openTracker()
	if err != nil {
		return err
	}
	defer t.Close()

	number, err := t.StartRun()
	if err != nil {
		return fmt.Errorf("start run: %w", err)
	}
	totals, err := ingest.Feed(t, doc)
	if err != nil {
		return err
	}
	if recordFlags.durationMS > 0 {
		totals.DurationMS = recordFlags.durationMS
	}
	if recordFlags.totalTests > totals.TotalTests {
		totals.TotalTests = recordFlags.totalTests
	}
	run, err := t.CompleteRun(totals)
	if err != nil {
		return fmt.Errorf("complete run %d: %w", number, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run #%d sealed: %d/%d passed (%.2f%%), %d failed, %d skipped\n",
		run.Number, run.Passed, run.TotalTests, run.PassRate, run.Failed, run.Skipped)
	fmt.Fprintf(out, "Defects: %d new, %d fixed, %d reopened, %d open\n",
		run.NewDefects, run.FixedDefects, run.ReopenedDefects, run.OpenDefects)
	return nil
}
