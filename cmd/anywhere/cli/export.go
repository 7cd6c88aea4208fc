package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/export"
	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/taxreceipt"
)

var exportCmd = &cobra.Command{
	Use:   "export-tax-receipts",
	Short: "Export a monthly tax receipt workbook",
	Long: `Aggregates the month's tax receipts per product type and writes an
xlsx workbook for the accounting team.`,
	Example: `  anywhere export-tax-receipts --month 2026-05

  anywhere export-tax-receipts --month 2026-05 --out /tmp/may.xlsx`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("month", "", "Month to export (YYYY-MM, default: current month)")
	exportCmd.Flags().String("out", "", "Output path (default: tax-receipts-YYYY-MM.xlsx)")
}

func runExport(cmd *cobra.Command, args []string) error {
	monthStr, _ := cmd.Flags().GetString("month")
	outPath, _ := cmd.Flags().GetString("out")

	month := time.Now().UTC()
	if monthStr != "" {
		parsed, err := time.Parse("2006-01", monthStr)
		if err != nil {
			return fmt.Errorf("invalid --month %q (expected YYYY-MM)", monthStr)
		}
		month = parsed
	}
	if outPath == "" {
		outPath = fmt.Sprintf("tax-receipts-%s.xlsx", month.Format("2006-01"))
	}

	return withRuntime(cmd.Context(), func(ctx context.Context, rt *runtime) error {
		svc := taxreceipt.NewService(taxreceipt.NewRepository(rt.pool))
		report, err := svc.MonthlyReport(ctx, month)
		if err != nil {
			return err
		}

		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := export.WriteTaxReceiptWorkbook(f, report); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Wrote %s: %d product types, total %s, tax %s\n",
			outPath, len(report.Lines), report.GrandTotal.StringFixed(2), report.GrandTax.StringFixed(2))
		return nil
	})
}
