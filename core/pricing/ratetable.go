// Package pricing holds the statutory rate tables.
// Tables are fixed at build time and never mutated; callers only read them
// through lookup methods.
package pricing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"transfer-cost/core/pricing/primitives"
	"transfer-cost/core/types"
	"transfer-cost/internal/errors"
)

// Cutover is the date the post-cutover rates came into force
var Cutover = time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC)

// RateTable is one versioned set of fee and duty brackets
type RateTable struct {
	id           string
	regime       types.Regime
	effective    string
	transferFees map[types.SubType]primitives.Schedule
	duty         map[types.DutyType]primitives.Schedule
	stampDuty    map[types.DutyType]primitives.Schedule
	officeFees   map[types.SubType]decimal.Decimal
	sundries     decimal.Decimal
	vatRate      decimal.Decimal
}

// ID returns the table identifier, e.g. "post-2024-10-01"
func (t *RateTable) ID() string {
	return t.id
}

// Regime returns the regime the table belongs to
func (t *RateTable) Regime() types.Regime {
	return t.regime
}

// Effective describes when the table applies
func (t *RateTable) Effective() string {
	return t.effective
}

// TransferFees returns a copy of the fee schedule for a sub-type
func (t *RateTable) TransferFees(sub types.SubType) (primitives.Schedule, bool) {
	s, ok := t.transferFees[sub]
	return s.Clone(), ok
}

// Duty returns a copy of the transfer duty schedule for a duty type
func (t *RateTable) Duty(duty types.DutyType) (primitives.Schedule, bool) {
	s, ok := t.duty[duty]
	return s.Clone(), ok
}

// StampDuty returns a copy of the stamp duty schedule for a duty type
func (t *RateTable) StampDuty(duty types.DutyType) (primitives.Schedule, bool) {
	s, ok := t.stampDuty[duty]
	return s.Clone(), ok
}

// OfficeFee returns the deeds office fee for a sub-type
func (t *RateTable) OfficeFee(sub types.SubType) (decimal.Decimal, bool) {
	fee, ok := t.officeFees[sub]
	return fee, ok
}

// Sundries returns the flat sundries, postages and VAT charge
func (t *RateTable) Sundries() decimal.Decimal {
	return t.sundries
}

// VATRate returns the VAT rate applied to the transfer fee
func (t *RateTable) VATRate() decimal.Decimal {
	return t.vatRate
}

// ForRegime returns the table in force for a regime
func ForRegime(regime types.Regime) (*RateTable, error) {
	switch regime {
	case types.RegimePreCutover:
		return preCutover, nil
	case types.RegimePostCutover:
		return postCutover, nil
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unknown regime %q", regime))
	}
}

// Tables returns both tables, oldest first
func Tables() []*RateTable {
	return []*RateTable{preCutover, postCutover}
}

// RegimeForDate selects the regime for a transfer date.
// Dates on or after the cutover use the post-cutover table.
func RegimeForDate(date time.Time) types.Regime {
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if day.Before(Cutover) {
		return types.RegimePreCutover
	}
	return types.RegimePostCutover
}
