// Package output provides output formatting interfaces.
// This package produces human and machine-readable quotes.
package output

import (
	"fmt"
	"io"
	"math/big"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"transfer-cost/core/types"
	"transfer-cost/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatMarkdown is a markdown report
	FormatMarkdown Format = "markdown"

	// FormatXLSX is a downloadable spreadsheet
	FormatXLSX Format = "xlsx"
)

// Disclaimer accompanies every rendered quote
const Disclaimer = "This is an estimate only. Final costs are confirmed by the conveyancer at registration."

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// ContentType is the MIME type of the rendered output
	ContentType() string

	// Render produces output for the given quote
	Render(w io.Writer, quote *Quote) error
}

// Quote is a computed breakdown together with the inputs that produced it
type Quote struct {
	// ID is a unique reference for this quote
	ID string `json:"id"`

	// Request is the validated request
	Request types.CostRequest `json:"request"`

	// Breakdown is the computed cost
	Breakdown types.CostBreakdown `json:"breakdown"`

	// RateTable identifies the rate table used
	RateTable string `json:"rate_table"`

	// Currency is the symbol printed before amounts
	Currency string `json:"currency"`

	// InputHash is the hash of the normalized request
	InputHash string `json:"input_hash,omitempty"`

	// GeneratedAt is when the quote was produced
	GeneratedAt time.Time `json:"generated_at"`
}

// Money renders an amount with thousands separators and two decimals
func Money(currency string, amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}

	whole, cents, _ := strings.Cut(fixed, ".")
	if n, ok := new(big.Int).SetString(whole, 10); ok {
		whole = humanize.BigComma(n)
	}

	text := sign + whole + "." + cents
	if currency == "" {
		return text
	}
	return currency + " " + text
}

// Registry manages formatter registration
type Registry struct {
	mu         sync.RWMutex
	formatters map[Format]Formatter
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{formatters: make(map[Format]Formatter)}
}

// Register adds a formatter to the registry
func (r *Registry) Register(formatter Formatter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formatters[formatter.Format()]; exists {
		return errors.Newf(errors.TypeConfig, "formatter already registered: %s", formatter.Format())
	}
	r.formatters[formatter.Format()] = formatter
	return nil
}

// Get returns a formatter for a format type
func (r *Registry) Get(format Format) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.formatters[format]
	if !ok {
		return nil, errors.Newf(errors.TypeValidation, "unknown output format %q (supported: %s)", format, strings.Join(r.names(), ", "))
	}
	return f, nil
}

// All returns all registered formatters sorted by format
func (r *Registry) All() []Formatter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Formatter, 0, len(r.formatters))
	for _, name := range r.names() {
		result = append(result, r.formatters[Format(name)])
	}
	return result
}

func (r *Registry) names() []string {
	names := make([]string, 0, len(r.formatters))
	for f := range r.formatters {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns a registry holding every built-in formatter
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		for _, f := range []Formatter{CLIFormatter{}, JSONFormatter{Indent: true}, MarkdownFormatter{}, XLSXFormatter{}} {
			if err := defaultRegistry.Register(f); err != nil {
				panic(fmt.Sprintf("register %s formatter: %v", f.Format(), err))
			}
		}
	})
	return defaultRegistry
}
