// Package cli implements the custodia command tree.
package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-project/custodia/pkg/errclass"
	"github.com/custodia-project/custodia/pkg/logging"
	"github.com/custodia-project/custodia/pkg/report"
)

var (
	jsonOutput bool
	noColor    bool

	rootCmd = &cobra.Command{
		Use:   "custodia",
		Short: "Custodia - chain of custody for research documents",
		Long: `Custodia enforces a verifiable chain of custody for research documents:
an append-only ingestion manifest with a tamper-evident lockfile, a trusted
parse pipeline with PII quarantine, and citation validation of AI-drafted
responses against the manifest.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor || os.Getenv("NO_COLOR") != "" {
				report.DisableColor()
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command. Gate and validation failures exit 1; a
// missing or unreadable required input exits 2.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmtErr("%v", err)
		os.Exit(errclass.ExitCode(err))
	}
}

// outputJSON prints v as JSON if --json flag is set, otherwise does nothing.
func outputJSON(v any) error {
	if !jsonOutput {
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func configureLogging(level, format string) {
	logging.SetGlobal(logging.New(logging.ParseLevel(level), format))
}
