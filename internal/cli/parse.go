package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-project/custodia/internal/manifest"
	"github.com/custodia-project/custodia/internal/parse"
	"github.com/custodia-project/custodia/internal/pii"
	"github.com/custodia-project/custodia/internal/trust"
	"github.com/custodia-project/custodia/pkg/errclass"
	"github.com/custodia-project/custodia/pkg/model"
	"github.com/custodia-project/custodia/pkg/report"
)

var (
	parseManifest  string
	parseOutputDir string
	parseModeStr   string
	parseStrict    bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse an ingested document through the trust gates",
	Long: `Parse a document into schema-validated structured output.

The pipeline refuses to parse anything it cannot trust: the manifest
signature gate, the whole-ledger consistency check, the per-file content
hash, and the PII scan all run before any output is written. A document that
crosses the PII risk threshold is moved to quarantine and the run halts.

Examples:
  custodia parse report.txt
  custodia parse --mode compliance --output-dir out/ report.txt
  custodia parse --strict notes.md`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if parseManifest == "" {
			parseManifest = cfg.ManifestPath
		}
		if parseOutputDir == "" {
			parseOutputDir = cfg.ParsedDir
		}
		mode, err := model.ParseMode(parseModeStr)
		if err != nil {
			fmtErr("%v", err)
			os.Exit(errclass.ExitMissing)
		}
		if parseStrict {
			mode = model.ModeCompliance
		}

		path, err := filepath.Abs(args[0])
		if err != nil {
			exitErr(errclass.ErrInputMissing.WithMessagef("resolve %s: %v", args[0], err))
		}
		if _, err := os.Stat(path); err != nil {
			exitErr(errclass.ErrInputMissing.WithMessagef("file not found: %s", args[0]))
		}

		p := &parse.Pipeline{
			Store:         manifest.NewStore(parseManifest),
			Trust:         trust.NewEvaluator(trust.GPGSigner{}),
			Converter:     parse.NewTextConverter(),
			Risk:          pii.Policy{MediumThreshold: cfg.PII.MediumThreshold},
			QuarantineDir: cfg.QuarantineDir,
			OutputDir:     parseOutputDir,
		}

		res, runErr := p.Run(path, mode)

		if !jsonOutput && res != nil && res.SignatureState == model.SignatureUnsigned && runErr == nil {
			fmt.Println(report.Warning("Unsigned manifest",
				res.SignatureNote,
				"Research mode proceeds; the output is tagged UNSIGNED.",
				"Sign the manifest before any compliance-mode run."))
		}

		if runErr != nil {
			printParseFailure(res, runErr)
			os.Exit(errclass.ExitCode(runErr))
		}

		if jsonOutput {
			outputJSON(res)
			return
		}
		fmt.Printf("%s %s\n", report.OK("parsed"), filepath.Base(path))
		fmt.Printf("  signature: %s\n", res.SignatureState)
		fmt.Printf("  sha256:    %s\n", res.Entry.SHA256.Short())
		fmt.Printf("  elements:  %d\n", len(res.Document.Elements))
		fmt.Printf("  output:    %s\n", res.OutputPath)
	},
}

// printParseFailure renders the banner matching the failed gate.
func printParseFailure(res *parse.Result, err error) {
	if jsonOutput {
		outputJSON(map[string]any{"error": err.Error(), "result": res})
		return
	}

	switch {
	case errors.Is(err, errclass.ErrIntegrityBreach):
		fmt.Println(report.Critical("CHAIN OF CUSTODY BREACH",
			err.Error(),
			"The manifest no longer matches its lockfile. Halt and investigate",
			"before ingesting or parsing anything else."))
	case errors.Is(err, errclass.ErrProvenanceBreach):
		fmt.Println(report.Critical("PROVENANCE BREACH",
			err.Error(),
			"The file on disk is not the file that was ingested."))
	case errors.Is(err, errclass.ErrTrustFailure):
		fmt.Println(report.Critical("TRUST FAILURE", err.Error()))
	case errors.Is(err, errclass.ErrPrivacyRisk):
		lines := []string{err.Error()}
		if res != nil {
			for _, m := range res.Matches {
				lines = append(lines, fmt.Sprintf("  %-15s %-6s %s",
					m.PatternName, m.Confidence, m.MatchedText))
			}
			if res.QuarantinePath != "" {
				lines = append(lines, "moved to "+res.QuarantinePath)
			}
		}
		fmt.Println(report.Critical("DOCUMENT QUARANTINED", lines...))
	default:
		fmtErr("%v", err)
	}
}

func init() {
	parseCmd.Flags().StringVar(&parseManifest, "manifest", "", "manifest path (default from config)")
	parseCmd.Flags().StringVar(&parseOutputDir, "output-dir", "", "directory for parsed output (default from config)")
	parseCmd.Flags().StringVar(&parseModeStr, "mode", "research", "rigor mode: research or compliance")
	parseCmd.Flags().BoolVar(&parseStrict, "strict", false, "shorthand for --mode compliance")
	rootCmd.AddCommand(parseCmd)
}
