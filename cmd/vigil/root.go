// vigil tracks defect lifecycles and run-over-run quality trends for an
// automated test suite.
//
// Usage:
//
//	vigil record  --results <file>... [--duration-ms N]
//	vigil runs    [--limit N]
//	vigil defects [--status open|fixed|all]
//	vigil stats
//	vigil trends  [--window N]
//	vigil history <test-id>
//	vigil clear   [--yes]
//	vigil serve
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	backend    string
	storePath  string
	logLevel   string
	logFormat  string
}

var rootCmd = &cobra.Command{
	Use:   "vigil",
	Short: "Defect lifecycle tracking and run-over-run test analytics",
	Long: "Vigil ingests per-test outcomes from successive suite executions and\n" +
		"maintains a durable defect catalog, a sealed run history, and trend\n" +
		"series for dashboard consumption.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.configPath, "config", "", "Config file path (default .vigil/config.yaml)")
	pf.StringVar(&rootFlags.backend, "backend", "", "Store backend: sqlite or file (default sqlite)")
	pf.StringVar(&rootFlags.storePath, "store", "", "Store path (default per backend)")
	pf.StringVar(&rootFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&rootFlags.logFormat, "log-format", "", "Log format: text or json")

	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(defectsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(trendsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
