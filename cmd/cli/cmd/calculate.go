// Package cmd - calculate command
package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"transfer-cost/api/envelope"
	"transfer-cost/core/cost"
	"transfer-cost/core/output"
	"transfer-cost/core/pricing"
	"transfer-cost/internal/config"
	"transfer-cost/internal/errors"
	"transfer-cost/internal/logging"
)

// quoteFlags are the request flags shared by calculate and export
type quoteFlags struct {
	amount       string
	subType      string
	dutyType     string
	date         string
	transferDate string
}

func (f *quoteFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "purchase price, e.g. 1200000")
	cmd.Flags().StringVarP(&f.subType, "sub-type", "s", "", "property type: S (sectional) or F (freehold)")
	cmd.Flags().StringVarP(&f.dutyType, "duty-type", "t", "", "duty type: N (residential), A (agricultural) or C (commercial)")
	cmd.Flags().StringVar(&f.date, "date", "", `rate table selector: "before" the cutover, anything else is after`)
	cmd.Flags().StringVar(&f.transferDate, "transfer-date", "", "transfer date (YYYY-MM-DD), selects the rate table instead of --date")
}

// quote validates the flags and prices the request
func (f *quoteFlags) quote() (*output.Quote, error) {
	date := f.date
	if f.transferDate != "" {
		t, err := time.Parse("2006-01-02", f.transferDate)
		if err != nil {
			return nil, errors.Validation(fmt.Sprintf("Invalid transfer date %q: expected YYYY-MM-DD", f.transferDate))
		}
		date = pricing.RegimeForDate(t).String()
	}

	env, err := envelope.NewNormalizer().Normalize(envelope.FromFlags(f.amount, f.subType, f.dutyType, date))
	if err != nil {
		return nil, err
	}

	engine := cost.NewEngine()
	table, err := engine.Table(env.Request.Regime)
	if err != nil {
		return nil, err
	}
	breakdown, err := engine.Calculate(env.Request)
	if err != nil {
		return nil, err
	}

	logging.Debug("calculated transfer cost",
		zap.String("input_hash", env.ShortHash()),
		zap.String("rate_table", table.ID()),
		zap.String("total", breakdown.Total.StringFixed(2)),
	)

	return &output.Quote{
		ID:          uuid.NewString(),
		Request:     env.Request,
		Breakdown:   breakdown,
		RateTable:   table.ID(),
		Currency:    config.Get().Output.Currency,
		InputHash:   env.InputHash,
		GeneratedAt: env.NormalizedAt,
	}, nil
}

// newCalculateCmd represents the calculate command
func newCalculateCmd() *cobra.Command {
	var (
		flags  quoteFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate the transfer cost breakdown for a property",
		Long: `Calculate transfer fees, VAT, transfer duty, stamp duty, the deeds office
fee and sundries for one property transfer.

Examples:
  transfer-cost calculate --amount 1200000 --sub-type S --duty-type N --date after
  transfer-cost calculate -a 450000 -s F -t N --transfer-date 2024-09-30 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				format = config.Get().Output.DefaultFormat
			}
			if output.Format(format) == output.FormatXLSX {
				return errors.Validation("xlsx output is written by the export command")
			}

			formatter, err := output.DefaultRegistry().Get(output.Format(format))
			if err != nil {
				return err
			}

			quote, err := flags.quote()
			if err != nil {
				return err
			}
			return formatter.Render(cmd.OutOrStdout(), quote)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "cli", "output format (cli, json, markdown)")
	return cmd
}
