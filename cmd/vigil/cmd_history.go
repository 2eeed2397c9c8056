package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vigil/internal/track"
)

var historyCmd = &cobra.Command{
	Use:   "history <test-id>",
	Short: "List the runs in which a test failed, most recent first",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	t, err := openTracker()
	if err != nil {
		return err
	}
	defer t.Close()

	id := track.TestID(args[0])
	failed := t.FailedRuns(id)
	out := cmd.OutOrStdout()
	if len(failed) == 0 {
		fmt.Fprintf(out, "%s has no recorded failures.\n", id)
		return nil
	}
	fmt.Fprintf(out, "%s failed in %d run(s):", id, len(failed))
	for _, n := range failed {
		fmt.Fprintf(out, " #%d", n)
	}
	fmt.Fprintln(out)
	return nil
}
