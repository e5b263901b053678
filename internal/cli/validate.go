package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-project/custodia/internal/auditlog"
	"github.com/custodia-project/custodia/internal/manifest"
	"github.com/custodia-project/custodia/internal/revision"
	"github.com/custodia-project/custodia/internal/validate"
	"github.com/custodia-project/custodia/pkg/errclass"
	"github.com/custodia-project/custodia/pkg/fsutil"
	"github.com/custodia-project/custodia/pkg/model"
	"github.com/custodia-project/custodia/pkg/report"
	"github.com/custodia-project/custodia/pkg/textutil"
)

var (
	validateInput     string
	validateManifest  string
	validateModeStr   string
	validateStrict    bool
	validateDraft     bool
	validateThreshold float64
	validateAuditLog  string
	validateJSONOut   string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate AI-drafted response text against the manifest",
	Long: `Validate response text: verify its citations against the manifest, score
citation density over detected claim sentences, and append the verdict to the
audit log.

The response is read from --input, or from stdin when --input is omitted.
Draft mode reports the analysis and exits successfully even on a failing
score; the audit log still records the computed verdict.

Examples:
  custodia validate --input response.txt
  custodia validate --mode compliance < response.txt
  custodia validate --draft --threshold 0.5 --input response.txt`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if validateManifest == "" {
			validateManifest = cfg.ManifestPath
		}
		if validateAuditLog == "" {
			validateAuditLog = cfg.AuditLogPath
		}
		mode, err := model.ParseMode(validateModeStr)
		if err != nil {
			fmtErr("%v", err)
			os.Exit(errclass.ExitMissing)
		}
		if validateStrict {
			mode = model.ModeCompliance
		}

		opts := validate.Options{Mode: mode, Draft: validateDraft}
		if cmd.Flags().Changed("threshold") {
			if validateThreshold < 0 || validateThreshold > 1 {
				fmtErr("threshold %.2f out of range [0.0, 1.0]", validateThreshold)
				os.Exit(errclass.ExitMissing)
			}
			t := validateThreshold
			opts.Threshold = &t
		} else {
			t := cfg.Thresholds.Research
			if mode == model.ModeCompliance {
				t = cfg.Thresholds.Compliance
			}
			opts.Threshold = &t
		}

		text, err := readResponse(validateInput)
		if err != nil {
			exitErr(err)
		}

		runner := &validate.Runner{
			Store:    manifest.NewStore(validateManifest),
			Audit:    auditlog.NewAppender(validateAuditLog),
			Revision: revision.GitQuerier{},
		}
		rep, runErr := runner.Run(text, opts)
		if rep == nil {
			exitErr(runErr)
		}

		if validateJSONOut != "" {
			if err := writeJSONReport(validateJSONOut, rep); err != nil {
				exitErr(err)
			}
		}
		if jsonOutput {
			outputJSON(rep)
		} else {
			printReport(rep)
		}

		if runErr != nil {
			os.Exit(errclass.ExitCode(runErr))
		}
	},
}

// readResponse loads the response text from a file or stdin.
func readResponse(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", errclass.ErrInputMissing.WithMessagef("read stdin: %v", err)
		}
		return textutil.Sanitize(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errclass.ErrInputMissing.WithMessagef("cannot read response: %v", err)
	}
	return textutil.Sanitize(data), nil
}

func writeJSONReport(path string, rep *validate.Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return fsutil.AtomicWrite(path, data, 0644)
}

func printReport(rep *validate.Report) {
	fmt.Println(report.Header(fmt.Sprintf("Citation validation  mode=%s  threshold=%.2f", rep.Mode.Label(rep.Draft), rep.Threshold)))
	fmt.Printf("revision: %s\n\n", rep.Revision)

	fmt.Println(report.Header("Citations"))
	if len(rep.Verified)+len(rep.Unverified) == 0 {
		fmt.Println(report.Dim("  none found"))
	}
	for _, c := range rep.Verified {
		fmt.Printf("  %s %-8s %s\n", report.OK("VERIFIED  "), c.Kind, c.Value)
	}
	for _, c := range rep.Unverified {
		fmt.Printf("  %s %-8s %s\n", report.Err("UNVERIFIED"), c.Kind, c.Value)
		fmt.Printf("    %s\n", report.Dim(c.Detail))
	}

	d := rep.Density
	fmt.Println()
	fmt.Println(report.Header("Claim analysis"))
	fmt.Printf("  sentences: %d   claims: %d   cited: %d   non-claim: %d\n",
		d.TotalSentences, d.ClaimCount(), d.CitedCount, d.NonClaimCount)
	if d.Density == nil {
		fmt.Printf("  density: %s (no claim sentences)\n", model.ScoreNA)
	} else {
		fmt.Printf("  density: %.4f\n", *d.Density)
	}

	if len(rep.FixIts) > 0 {
		fmt.Println()
		fmt.Println(report.Header("Uncited claims"))
		for i, f := range rep.FixIts {
			fmt.Printf("  %d. %s\n", i+1, f.Sentence)
			fmt.Printf("     flagged for %s\n", f.Triggers)
			fmt.Printf("     %s\n", report.Dim(f.SourceHint))
			fmt.Printf("     %s\n", report.Dim(f.ModeNote))
		}
	}

	fmt.Println()
	switch {
	case rep.Passed:
		fmt.Println(report.OK("PASS"))
	case rep.Draft:
		fmt.Println(report.Warning("DRAFT: would fail",
			"The computed verdict is FAIL and has been recorded in the audit log.",
			"Address the items above before a non-draft run."))
	default:
		fmt.Println(report.Err("FAIL"))
	}
}

func init() {
	validateCmd.Flags().StringVar(&validateInput, "input", "", "response text file (stdin when omitted)")
	validateCmd.Flags().StringVar(&validateManifest, "manifest", "", "manifest path (default from config)")
	validateCmd.Flags().StringVar(&validateModeStr, "mode", "research", "rigor mode: research or compliance")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "shorthand for --mode compliance")
	validateCmd.Flags().BoolVar(&validateDraft, "draft", false, "report without failing; verdict is still logged")
	validateCmd.Flags().Float64Var(&validateThreshold, "threshold", 0, "citation density threshold override in [0.0, 1.0]")
	validateCmd.Flags().StringVar(&validateAuditLog, "audit-log", "", "audit log path (default from config)")
	validateCmd.Flags().StringVar(&validateJSONOut, "json-report", "", "also write the full report as JSON to this path")
	rootCmd.AddCommand(validateCmd)
}
