package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-project/custodia/internal/manifest"
	"github.com/custodia-project/custodia/internal/revision"
	"github.com/custodia-project/custodia/internal/trust"
	"github.com/custodia-project/custodia/pkg/errclass"
	"github.com/custodia-project/custodia/pkg/model"
	"github.com/custodia-project/custodia/pkg/report"
)

var (
	ingestManifest string
	ingestNoSign   bool
	ingestSignKey  string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>...",
	Short: "Record documents in the provenance manifest",
	Long: `Record one or more documents in the append-only ingestion manifest.

Each file is hashed, stamped with the current code revision, and appended to
the manifest; the lockfile is rewritten to match. After a successful append
the manifest is re-signed when gpg is available.

Examples:
  custodia ingest report.pdf
  custodia ingest --manifest data/manifest.json notes.txt claims.csv
  custodia ingest --no-sign draft.md`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if ingestManifest == "" {
			ingestManifest = cfg.ManifestPath
		}
		store := manifest.NewStore(ingestManifest)
		querier := revision.GitQuerier{}

		type ingested struct {
			Entry          model.ManifestEntry  `json:"entry"`
			ManifestSHA256 model.HashValue      `json:"manifest_sha256"`
			Duplicate      *model.ManifestEntry `json:"duplicate_of,omitempty"`
		}
		var results []ingested

		for _, path := range args {
			abs, err := filepath.Abs(path)
			if err != nil {
				exitErr(errclass.ErrInputMissing.WithMessagef("resolve %s: %v", path, err))
			}
			sum, err := manifest.FileSHA256(abs)
			if err != nil {
				exitErr(errclass.ErrInputMissing.WithMessagef("cannot read %s: %v", path, err))
			}

			entry := model.ManifestEntry{
				Filename:   filepath.Base(abs),
				SHA256:     sum,
				IngestedAt: time.Now().UTC(),
				SourcePath: abs,
				GitCommit:  querier.Current(),
			}
			res, err := store.Append(entry)
			if err != nil {
				exitErr(err)
			}
			results = append(results, ingested{
				Entry:          res.Entry,
				ManifestSHA256: res.ManifestSHA256,
				Duplicate:      res.Duplicate,
			})

			if !jsonOutput {
				fmt.Printf("%s %s  sha256=%s  commit=%s\n",
					report.OK("ingested"), entry.Filename, sum.Short(), shortCommit(entry.GitCommit))
				if res.Duplicate != nil {
					fmt.Println(report.Warning("Duplicate content",
						fmt.Sprintf("identical bytes already ingested as %q on %s",
							res.Duplicate.Filename, res.Duplicate.IngestedAt.Format(time.RFC3339))))
				}
			}
		}

		if !ingestNoSign {
			signManifest(store.Path())
		}

		if jsonOutput {
			outputJSON(results)
		}
	},
}

// signManifest re-signs the manifest after an append. Signing problems never
// fail the ingestion; they leave the manifest UNSIGNED and are surfaced as
// warnings.
func signManifest(manifestPath string) {
	signer := trust.GPGSigner{}
	if !signer.IsAvailable() {
		if !jsonOutput {
			fmt.Println(report.Warn("gpg not installed; manifest left unsigned"))
		}
		return
	}
	if err := signer.Sign(manifestPath, ingestSignKey); err != nil {
		if !jsonOutput {
			fmt.Println(report.Warning("Signing failed",
				err.Error(),
				"The manifest is recorded but unsigned. Compliance-mode parses will refuse it."))
		}
		return
	}
	if !jsonOutput {
		fmt.Printf("%s %s\n", report.OK("signed"), trust.SigPath(manifestPath))
	}
}

func shortCommit(c string) string {
	if c == revision.NoCommit {
		return c
	}
	if len(c) > 12 {
		return c[:12]
	}
	return c
}

func init() {
	ingestCmd.Flags().StringVar(&ingestManifest, "manifest", "", "manifest path (default from config)")
	ingestCmd.Flags().BoolVar(&ingestNoSign, "no-sign", false, "skip manifest signing after ingestion")
	ingestCmd.Flags().StringVar(&ingestSignKey, "sign-key", "", "gpg key id to sign with (default key when empty)")
	rootCmd.AddCommand(ingestCmd)
}
