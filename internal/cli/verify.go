package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-project/custodia/internal/manifest"
	"github.com/custodia-project/custodia/internal/trust"
	"github.com/custodia-project/custodia/pkg/errclass"
	"github.com/custodia-project/custodia/pkg/report"
)

var verifyManifest string

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the manifest and every ingested file",
	Long: `Verify the whole chain of custody: the lockfile against the manifest, the
detached signature state, and each ingested file against its recorded hash.

Examples:
  custodia verify
  custodia verify --manifest data/manifest.json --json`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if verifyManifest == "" {
			verifyManifest = cfg.ManifestPath
		}
		store := manifest.NewStore(verifyManifest)

		state, note := trust.NewEvaluator(trust.GPGSigner{}).Evaluate(store.Path())

		results, err := store.VerifyAll()
		if err != nil {
			if !jsonOutput {
				fmt.Println(report.Critical("CHAIN OF CUSTODY BREACH", err.Error()))
			}
			exitErr(err)
		}

		if jsonOutput {
			outputJSON(map[string]any{
				"signature":      state,
				"signature_note": note,
				"entries":        results,
			})
		} else {
			fmt.Printf("signature: %s %s\n", state, report.Dim("("+note+")"))
			for _, res := range results {
				status := report.OK("OK      ")
				switch {
				case res.Missing:
					status = report.Warn("MISSING ")
				case !res.Valid:
					status = report.Err("TAMPERED")
				}
				fmt.Printf("%s  %s  %s\n", status, res.Entry.SHA256.Short(), res.Entry.Filename)
				if res.Error != "" && !res.Missing {
					fmt.Printf("          %s\n", report.Dim(res.Error))
				}
			}
		}

		for _, res := range results {
			if !res.Valid && !res.Missing {
				os.Exit(errclass.ExitFailure)
			}
		}
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifyManifest, "manifest", "", "manifest path (default from config)")
	rootCmd.AddCommand(verifyCmd)
}
