package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vigil/internal/display"
	"vigil/internal/format"
	"vigil/internal/track"
)

var defectsFlags struct {
	status   string
	markdown bool
}

var defectsCmd = &cobra.Command{
	Use:   "defects",
	Short: "List tracked defects",
	RunE:  runDefects,
}

func init() {
	f := defectsCmd.Flags()
	f.StringVar(&defectsFlags.status, "status", "all", "Filter: open, fixed, or all")
	f.BoolVar(&defectsFlags.markdown, "markdown", false, "Render as a Markdown table")
}

func runDefects(cmd *cobra.Command, _ []string) error {
	t, err := openTracker()
	if err != nil {
		return err
	}
	defer t.Close()

	var defects []*track.Defect
	switch defectsFlags.status {
	case "all":
		defects = t.AllDefects()
	case string(track.StatusOpen):
		defects = t.OpenDefects()
	case string(track.StatusFixed):
		defects = t.FixedDefects()
	default:
		return fmt.Errorf("unknown status %q (want open, fixed or all)", defectsFlags.status)
	}

	out := cmd.OutOrStdout()
	if len(defects) == 0 {
		fmt.Fprintln(out, "No defects tracked.")
		return nil
	}

	mode := format.ASCII
	if defectsFlags.markdown {
		mode = format.Markdown
	}
	tbl := format.NewTable(mode)
	tbl.Header("ID", "Test", "Category", "Severity", "Status", "First", "Last seen", "Fixed in", "Error")
	tbl.Columns(format.ColumnConfig{Number: 9, MaxWidth: 48})
	for _, d := range defects {
		name := d.TestName
		if name == "" {
			name = string(d.TestID)
		}
		fixedIn := "-"
		if d.FixedInRun > 0 {
			fixedIn = fmt.Sprintf("%d", d.FixedInRun)
		}
		tbl.Row(d.ID, format.Truncate(name, 40), d.Category,
			display.Severity(string(d.Severity)), display.Status(string(d.Status)),
			d.FirstFoundRun, d.LastSeenRun, fixedIn,
			format.Truncate(d.ErrorMessage, 48))
	}
	fmt.Fprintln(out, tbl.String())
	return nil
}
