package output

import (
	"fmt"
	"io"
	"strings"
)

const boxWidth = 73

// CLIFormatter renders a boxed table for terminals
type CLIFormatter struct{}

// Format implements Formatter
func (CLIFormatter) Format() Format { return FormatCLI }

// ContentType implements Formatter
func (CLIFormatter) ContentType() string { return "text/plain; charset=utf-8" }

// Render implements Formatter
func (CLIFormatter) Render(w io.Writer, q *Quote) error {
	p := &boxPrinter{w: w}

	p.rule("┌", "┐")
	p.centered("TRANSFER COST ESTIMATE")
	p.rule("├", "┤")
	p.row("Purchase price", Money(q.Currency, q.Request.Amount))
	p.row("Property type", q.Request.SubType.Label())
	p.row("Duty type", q.Request.DutyType.Label())
	p.row("Transfer date", q.Request.Regime.Label())
	p.rule("├", "┤")

	lines := q.Breakdown.Lines()
	for _, line := range lines[:len(lines)-1] {
		p.row(line.Label, Money(q.Currency, line.Amount))
	}

	total := lines[len(lines)-1]
	p.rule("├", "┤")
	p.row(strings.ToUpper(total.Label), Money(q.Currency, total.Amount))
	p.rule("└", "┘")

	p.line("Quote: " + q.ID)
	p.line("Rate table: " + q.RateTable)
	p.line(Disclaimer)
	return p.err
}

type boxPrinter struct {
	w   io.Writer
	err error
}

func (p *boxPrinter) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *boxPrinter) rule(left, right string) {
	p.printf("%s%s%s\n", left, strings.Repeat("─", boxWidth), right)
}

func (p *boxPrinter) centered(title string) {
	pad := boxWidth - len(title)
	p.printf("│%s%s%s│\n", strings.Repeat(" ", pad/2), title, strings.Repeat(" ", pad-pad/2))
}

func (p *boxPrinter) row(label, value string) {
	p.printf("│ %-30s %40s │\n", truncate(label, 30), truncate(value, 40))
}

func (p *boxPrinter) line(text string) {
	p.printf("%s\n", text)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
