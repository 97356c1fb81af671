// Package cmd - export command
package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"transfer-cost/core/output"
	"transfer-cost/internal/errors"
)

// newExportCmd writes the breakdown to a spreadsheet
func newExportCmd() *cobra.Command {
	var (
		flags quoteFlags
		out   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the transfer cost breakdown to an xlsx document",
		Long: `Write the breakdown, the inputs that produced it and the estimate
disclaimer to a spreadsheet.

Examples:
  transfer-cost export --amount 3000000 --sub-type F --duty-type C --date after --out quote.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			quote, err := flags.quote()
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := (output.XLSXFormatter{}).Render(&buf, quote); err != nil {
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
				return errors.Export("write "+out, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (total %s)\n", out, output.Money(quote.Currency, quote.Breakdown.Total))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "transfer-costs.xlsx", "output file")
	return cmd
}
