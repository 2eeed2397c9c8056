package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var clearFlags struct {
	yes bool
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Wipe the defect catalog and run history",
	Long: `Wipes both persisted collections atomically. Run numbering restarts
at 1 afterwards.`,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVar(&clearFlags.yes, "yes", false, "Skip the confirmation prompt")
}

func runClear(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if !clearFlags.yes {
		fmt.Fprint(out, "This deletes all runs and defects. Type 'yes' to continue: ")
		reader := bufio.NewReader(cmd.InOrStdin())
		line, _ := reader.ReadString('\n')
		if strings.TrimSpace(line) != "yes" {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	t, err := openTracker()
	if err != nil {
		return err
	}
	defer t.Close()

	if err := t.ClearAllData(); err != nil {
		return err
	}
	fmt.Fprintln(out, "All data cleared.")
	return nil
}
