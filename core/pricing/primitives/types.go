// Package primitives - Centralized bracket math
// Rate tables declare brackets, they do not do math.
// All fee and duty arithmetic flows through these primitives.
package primitives

import "github.com/shopspring/decimal"

// Bound controls whether a bracket's upper limit belongs to the bracket
type Bound int

const (
	// Exclusive brackets cover amount < UpTo
	Exclusive Bound = iota

	// Inclusive brackets cover amount <= UpTo
	Inclusive
)

// Bracket is a contiguous amount range with its own base value and marginal rate.
//
// Without a Step the bracket is marginal:
//
//	value = Base + Rate * (amount - Floor)
//
// With a Step the bracket charges Rate per started increment above Floor:
//
//	value = Base + ceil((amount - Floor) / Step) * Rate
type Bracket struct {
	UpTo  decimal.Decimal // Upper limit (zero = unlimited)
	Bound Bound
	Floor decimal.Decimal
	Base  decimal.Decimal
	Rate  decimal.Decimal
	Step  decimal.Decimal
}

// Unlimited reports whether the bracket has no upper limit
func (b Bracket) Unlimited() bool {
	return b.UpTo.IsZero()
}

// Contains reports whether amount falls inside the upper limit of the bracket
func (b Bracket) Contains(amount decimal.Decimal) bool {
	if b.Unlimited() {
		return true
	}
	if b.Bound == Inclusive {
		return amount.LessThanOrEqual(b.UpTo)
	}
	return amount.LessThan(b.UpTo)
}

// Schedule is an ordered list of brackets, lowest first.
// The last bracket should be unlimited.
type Schedule []Bracket
