// Package api - API types for the transfer cost endpoints
// These types define the contract for everything except POST /calculate,
// whose response body is types.CostBreakdown.
package api

import (
	"github.com/shopspring/decimal"

	"transfer-cost/core/pricing"
	"transfer-cost/core/pricing/primitives"
	"transfer-cost/core/types"
)

// Error codes returned in ErrorResponse.Code
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeInternal   = "INTERNAL_ERROR"
)

// MsgInternal is the only message an internal failure exposes
const MsgInternal = "Internal server error"

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Time    string `json:"time"`
}

// VersionResponse is returned by GET /version
type VersionResponse struct {
	Version    string `json:"version"`
	Engine     string `json:"engine"`
	APIVersion string `json:"api_version"`
}

// RateTablesResponse is returned by GET /rate-tables
type RateTablesResponse struct {
	Tables []RateTableView `json:"tables"`
}

// RateTableView is a read-only rendering of one rate table
type RateTableView struct {
	ID           string                     `json:"id"`
	Regime       types.Regime               `json:"regime"`
	Effective    string                     `json:"effective"`
	VATRate      decimal.Decimal            `json:"vat_rate"`
	Sundries     decimal.Decimal            `json:"sundries"`
	OfficeFees   map[string]decimal.Decimal `json:"office_fees"`
	TransferFees map[string][]BracketView   `json:"transfer_fees"`
	TransferDuty map[string][]BracketView   `json:"transfer_duty"`
	StampDuty    map[string][]BracketView   `json:"stamp_duty"`
}

// BracketView is a single bracket. UpTo is omitted for the unlimited bracket.
type BracketView struct {
	UpTo      *decimal.Decimal `json:"up_to,omitempty"`
	Inclusive bool             `json:"inclusive"`
	Floor     decimal.Decimal  `json:"floor"`
	Base      decimal.Decimal  `json:"base"`
	Rate      decimal.Decimal  `json:"rate"`
	Step      *decimal.Decimal `json:"step,omitempty"`
}

var (
	subTypes  = []types.SubType{types.SubTypeSectional, types.SubTypeFreehold}
	dutyTypes = []types.DutyType{types.DutyTypeResidential, types.DutyTypeAgricultural, types.DutyTypeCommercial}
)

func newRateTableView(t *pricing.RateTable) RateTableView {
	view := RateTableView{
		ID:           t.ID(),
		Regime:       t.Regime(),
		Effective:    t.Effective(),
		VATRate:      t.VATRate(),
		Sundries:     t.Sundries(),
		OfficeFees:   make(map[string]decimal.Decimal),
		TransferFees: make(map[string][]BracketView),
		TransferDuty: make(map[string][]BracketView),
		StampDuty:    make(map[string][]BracketView),
	}

	for _, sub := range subTypes {
		if fee, ok := t.OfficeFee(sub); ok {
			view.OfficeFees[sub.String()] = fee
		}
		if s, ok := t.TransferFees(sub); ok {
			view.TransferFees[sub.String()] = bracketViews(s)
		}
	}
	for _, duty := range dutyTypes {
		if s, ok := t.Duty(duty); ok {
			view.TransferDuty[duty.String()] = bracketViews(s)
		}
		if s, ok := t.StampDuty(duty); ok {
			view.StampDuty[duty.String()] = bracketViews(s)
		}
	}
	return view
}

func bracketViews(s primitives.Schedule) []BracketView {
	views := make([]BracketView, 0, len(s))
	for _, b := range s {
		v := BracketView{
			Inclusive: b.Bound == primitives.Inclusive,
			Floor:     b.Floor,
			Base:      b.Base,
			Rate:      b.Rate,
		}
		if !b.Unlimited() {
			upTo := b.UpTo
			v.UpTo = &upTo
		}
		if !b.Step.IsZero() {
			step := b.Step
			v.Step = &step
		}
		views = append(views, v)
	}
	return views
}
