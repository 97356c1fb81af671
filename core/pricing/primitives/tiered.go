// Package primitives - Tiered bracket primitives
// Handles flat, stepped and marginal brackets
package primitives

import "github.com/shopspring/decimal"

// Flat creates a bracket that charges a fixed amount
func Flat(upTo int64, bound Bound, amount int64) Bracket {
	return Bracket{
		UpTo:  decimal.NewFromInt(upTo),
		Bound: bound,
		Base:  decimal.NewFromInt(amount),
	}
}

// Stepped creates a bracket charging rate per started step above floor
func Stepped(upTo int64, bound Bound, floor, base, step, rate int64) Bracket {
	return Bracket{
		UpTo:  decimal.NewFromInt(upTo),
		Bound: bound,
		Floor: decimal.NewFromInt(floor),
		Base:  decimal.NewFromInt(base),
		Step:  decimal.NewFromInt(step),
		Rate:  decimal.NewFromInt(rate),
	}
}

// Marginal creates a bracket charging a percentage of the slice above floor.
// rate is expressed as a decimal string, e.g. "0.05".
func Marginal(upTo int64, bound Bound, floor, base int64, rate string) Bracket {
	return Bracket{
		UpTo:  decimal.NewFromInt(upTo),
		Bound: bound,
		Floor: decimal.NewFromInt(floor),
		Base:  decimal.NewFromInt(base),
		Rate:  decimal.RequireFromString(rate),
	}
}

// Apply evaluates the bracket for an amount.
// The amount is assumed to fall inside the bracket.
func (b Bracket) Apply(amount decimal.Decimal) decimal.Decimal {
	above := amount.Sub(b.Floor)
	if b.Step.IsZero() {
		if b.Rate.IsZero() {
			return b.Base
		}
		return b.Base.Add(above.Mul(b.Rate))
	}

	steps := above.Div(b.Step).Ceil()
	return b.Base.Add(steps.Mul(b.Rate))
}

// Find returns the first bracket containing amount
func (s Schedule) Find(amount decimal.Decimal) (Bracket, bool) {
	for _, bracket := range s {
		if bracket.Contains(amount) {
			return bracket, true
		}
	}
	return Bracket{}, false
}

// Calculate computes the schedule value for an amount.
// Amounts beyond a bounded last bracket evaluate to zero.
func (s Schedule) Calculate(amount decimal.Decimal) decimal.Decimal {
	bracket, ok := s.Find(amount)
	if !ok {
		return decimal.Zero
	}
	return bracket.Apply(amount)
}

// Clone returns a copy of the schedule
func (s Schedule) Clone() Schedule {
	out := make(Schedule, len(s))
	copy(out, s)
	return out
}

// FloorCents truncates to 2 decimal places towards negative infinity
// and clamps at zero.
func FloorCents(value decimal.Decimal) decimal.Decimal {
	floored := value.RoundFloor(2)
	if floored.IsNegative() {
		return decimal.Zero
	}
	return floored
}

// RoundCents rounds half away from zero to 2 decimal places
func RoundCents(value decimal.Decimal) decimal.Decimal {
	return value.Round(2)
}
