package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"vigil/internal/display"
	"vigil/internal/track"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate defect statistics",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, _ []string) error {
	t, err := openTracker()
	if err != nil {
		return err
	}
	defer t.Close()

	s := t.DefectStats()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Defects: %d total, %d open, %d fixed\n", s.Total, s.Open, s.Fixed)

	fmt.Fprintf(out, "By severity:\n")
	for _, sev := range []track.Severity{track.SeverityCritical, track.SeverityHigh, track.SeverityMedium, track.SeverityLow} {
		fmt.Fprintf(out, "  %-8s %d\n", display.Severity(string(sev))+":", s.BySeverity[sev])
	}

	if len(s.ByCategory) > 0 {
		cats := make([]string, 0, len(s.ByCategory))
		for c := range s.ByCategory {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		fmt.Fprintf(out, "By category:\n")
		for _, c := range cats {
			fmt.Fprintf(out, "  %s: %d\n", c, s.ByCategory[c])
		}
	}
	return nil
}
