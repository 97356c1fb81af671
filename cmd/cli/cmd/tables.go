// Package cmd - tables command
package cmd

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"transfer-cost/core/output"
	"transfer-cost/core/pricing"
	"transfer-cost/core/pricing/primitives"
	"transfer-cost/core/types"
	"transfer-cost/internal/config"
)

var hundred = decimal.NewFromInt(100)

// newTablesCmd lists the rate tables
func newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the statutory rate tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			currency := config.Get().Output.Currency
			for i, table := range pricing.Tables() {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				printTable(cmd.OutOrStdout(), table, currency)
			}
			return nil
		},
	}
}

func printTable(w io.Writer, t *pricing.RateTable, currency string) {
	fmt.Fprintf(w, "%s  %s\n", t.ID(), t.Effective())
	fmt.Fprintf(w, "  VAT on fees: %s%%   Sundries: %s\n", t.VATRate().Mul(hundred).String(), output.Money(currency, t.Sundries()))

	for _, sub := range []types.SubType{types.SubTypeSectional, types.SubTypeFreehold} {
		fee, _ := t.OfficeFee(sub)
		fmt.Fprintf(w, "  Deeds office fee (%s): %s\n", sub.Label(), output.Money(currency, fee))
	}

	for _, sub := range []types.SubType{types.SubTypeSectional, types.SubTypeFreehold} {
		if s, ok := t.TransferFees(sub); ok {
			printSchedule(w, "Transfer fees, "+sub.Label(), s, currency)
		}
	}
	for _, duty := range []types.DutyType{types.DutyTypeResidential, types.DutyTypeAgricultural, types.DutyTypeCommercial} {
		if s, ok := t.Duty(duty); ok {
			printSchedule(w, "Transfer duty, "+duty.Label(), s, currency)
		}
		if s, ok := t.StampDuty(duty); ok {
			printSchedule(w, "Stamp duty, "+duty.Label(), s, currency)
		}
	}
}

func printSchedule(w io.Writer, title string, s primitives.Schedule, currency string) {
	fmt.Fprintf(w, "  %s\n", title)
	for _, b := range s {
		fmt.Fprintf(w, "    %-28s %s\n", describeLimit(b, currency), describeCharge(b, currency))
	}
}

func describeLimit(b primitives.Bracket, currency string) string {
	switch {
	case b.Unlimited():
		return "any higher amount"
	case b.Bound == primitives.Inclusive:
		return "up to " + output.Money(currency, b.UpTo)
	default:
		return "below " + output.Money(currency, b.UpTo)
	}
}

func describeCharge(b primitives.Bracket, currency string) string {
	base := output.Money(currency, b.Base)
	switch {
	case !b.Step.IsZero():
		return fmt.Sprintf("%s + %s per %s above %s", base, output.Money(currency, b.Rate), output.Money(currency, b.Step), output.Money(currency, b.Floor))
	case !b.Rate.IsZero():
		return fmt.Sprintf("%s + %s%% above %s", base, b.Rate.Mul(hundred).String(), output.Money(currency, b.Floor))
	default:
		return base
	}
}
