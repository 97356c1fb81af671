package output

import (
	"fmt"
	"io"
	"strings"
)

// MarkdownFormatter renders a markdown report suitable for tickets and emails
type MarkdownFormatter struct{}

// Format implements Formatter
func (MarkdownFormatter) Format() Format { return FormatMarkdown }

// ContentType implements Formatter
func (MarkdownFormatter) ContentType() string { return "text/markdown; charset=utf-8" }

// Render implements Formatter
func (MarkdownFormatter) Render(w io.Writer, q *Quote) error {
	var b strings.Builder

	b.WriteString("## Transfer Cost Estimate\n\n")
	fmt.Fprintf(&b, "- **Purchase price:** %s\n", Money(q.Currency, q.Request.Amount))
	fmt.Fprintf(&b, "- **Property type:** %s\n", q.Request.SubType.Label())
	fmt.Fprintf(&b, "- **Duty type:** %s\n", q.Request.DutyType.Label())
	fmt.Fprintf(&b, "- **Transfer date:** %s\n\n", q.Request.Regime.Label())

	b.WriteString("| Item | Amount |\n")
	b.WriteString("|------|-------:|\n")
	for _, line := range q.Breakdown.Lines() {
		if line.Key == "total" {
			fmt.Fprintf(&b, "| **%s** | **%s** |\n", line.Label, Money(q.Currency, line.Amount))
			continue
		}
		fmt.Fprintf(&b, "| %s | %s |\n", line.Label, Money(q.Currency, line.Amount))
	}

	fmt.Fprintf(&b, "\n_Quote `%s`, rate table `%s`_\n\n", q.ID, q.RateTable)
	fmt.Fprintf(&b, "> %s\n", Disclaimer)

	_, err := io.WriteString(w, b.String())
	return err
}
