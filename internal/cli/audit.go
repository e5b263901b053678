package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-project/custodia/internal/auditlog"
	"github.com/custodia-project/custodia/pkg/report"
)

var auditLogPath string

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show the validation audit trail",
	Long: `Print the append-only audit log of validation runs.

Examples:
  custodia audit
  custodia audit --json`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if auditLogPath == "" {
			auditLogPath = cfg.AuditLogPath
		}

		rows, err := auditlog.NewAppender(auditLogPath).Rows()
		if err != nil {
			exitErr(err)
		}

		if jsonOutput {
			type row struct {
				Timestamp string `json:"timestamp"`
				Revision  string `json:"revision"`
				Mode      string `json:"mode"`
				Score     string `json:"citation_score"`
				Status    string `json:"status"`
			}
			out := make([]row, 0, len(rows))
			for _, r := range rows {
				if len(r) < 5 {
					continue
				}
				out = append(out, row{r[0], r[1], r[2], r[3], r[4]})
			}
			outputJSON(out)
			return
		}

		if len(rows) == 0 {
			fmt.Println(report.Dim("audit log is empty"))
			return
		}
		for _, r := range rows {
			if len(r) < 5 {
				continue
			}
			status := report.OK(r[4])
			if r[4] == "FAIL" {
				status = report.Err(r[4])
			}
			fmt.Printf("%s  %-12.12s  %-18s  %6s  %s\n", r[0], r[1], r[2], r[3], status)
		}
	},
}

func init() {
	auditCmd.Flags().StringVar(&auditLogPath, "audit-log", "", "audit log path (default from config)")
	rootCmd.AddCommand(auditCmd)
}
