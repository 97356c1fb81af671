// Package cost provides the transfer cost engine.
// The engine is a pure function of the request and the fixed rate tables.
package cost

import (
	"fmt"

	"github.com/shopspring/decimal"

	"transfer-cost/core/pricing"
	"transfer-cost/core/pricing/primitives"
	"transfer-cost/core/types"
	"transfer-cost/internal/errors"
)

// TableSource resolves the rate table for a regime
type TableSource func(types.Regime) (*pricing.RateTable, error)

// Engine computes transfer cost breakdowns
type Engine struct {
	tables TableSource
}

// NewEngine creates an engine backed by the statutory rate tables
func NewEngine() *Engine {
	return &Engine{tables: pricing.ForRegime}
}

// NewEngineWithTables creates an engine with a custom table source
func NewEngineWithTables(tables TableSource) *Engine {
	return &Engine{tables: tables}
}

var defaultEngine = NewEngine()

// Compute calculates a breakdown using the statutory rate tables
func Compute(req types.CostRequest) (types.CostBreakdown, error) {
	return defaultEngine.Calculate(req)
}

// Table returns the rate table the engine uses for a regime
func (e *Engine) Table(regime types.Regime) (*pricing.RateTable, error) {
	return e.tables(regime)
}

// Calculate produces the cost breakdown for a request
func (e *Engine) Calculate(req types.CostRequest) (types.CostBreakdown, error) {
	if err := checkContract(req); err != nil {
		return types.CostBreakdown{}, err
	}

	table, err := e.tables(req.Regime)
	if err != nil {
		return types.CostBreakdown{}, err
	}

	feeSchedule, ok := table.TransferFees(req.SubType)
	if !ok {
		return types.CostBreakdown{}, missingSchedule(table, "transfer fee", req.SubType.String())
	}
	dutySchedule, ok := table.Duty(req.DutyType)
	if !ok {
		return types.CostBreakdown{}, missingSchedule(table, "transfer duty", req.DutyType.String())
	}
	stampSchedule, ok := table.StampDuty(req.DutyType)
	if !ok {
		return types.CostBreakdown{}, missingSchedule(table, "stamp duty", req.DutyType.String())
	}
	office, ok := table.OfficeFee(req.SubType)
	if !ok {
		return types.CostBreakdown{}, missingSchedule(table, "office fee", req.SubType.String())
	}

	fee := feeSchedule.Calculate(req.Amount)
	vat := fee.Mul(table.VATRate())

	// Duty and stamp duty are floored to the cent; everything else is rounded.
	duty := primitives.FloorCents(dutySchedule.Calculate(req.Amount))
	stamp := primitives.FloorCents(stampSchedule.Calculate(req.Amount))
	sundries := table.Sundries()

	total := decimal.Sum(fee, vat, duty, stamp, office, sundries)

	return types.CostBreakdown{
		TransferFee:  primitives.RoundCents(fee),
		VAT:          primitives.RoundCents(vat),
		TransferDuty: duty,
		StampDuty:    stamp,
		OfficeFee:    primitives.RoundCents(office),
		Sundries:     primitives.RoundCents(sundries),
		Total:        primitives.RoundCents(total),
	}, nil
}

func checkContract(req types.CostRequest) error {
	if !req.Amount.IsPositive() {
		return errors.InvalidInput(fmt.Sprintf("amount must be positive, got %s", req.Amount))
	}
	if !req.SubType.IsValid() {
		return errors.InvalidInput(fmt.Sprintf("unknown sub_type %q", req.SubType))
	}
	if !req.DutyType.IsValid() {
		return errors.InvalidInput(fmt.Sprintf("unknown dutytype %q", req.DutyType))
	}
	if !req.Regime.IsValid() {
		return errors.InvalidInput(fmt.Sprintf("unknown regime %q", req.Regime))
	}
	return nil
}

func missingSchedule(table *pricing.RateTable, kind, key string) error {
	return errors.Newf(errors.TypeInternal, "rate table %s has no %s schedule for %s", table.ID(), kind, key)
}
