// Package types - Cost request and breakdown types
package types

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CostRequest is a validated request for a transfer cost breakdown
type CostRequest struct {
	// Amount is the property value, always > 0
	Amount decimal.Decimal `json:"amount"`

	// SubType is the property category
	SubType SubType `json:"sub_type"`

	// DutyType selects the duty bracket table
	DutyType DutyType `json:"dutytype"`

	// Regime selects the rate table in force
	Regime Regime `json:"date"`
}

// CostBreakdown is the computed cost of a transfer.
// All fields are non-negative and rounded to 2 decimal places.
type CostBreakdown struct {
	TransferFee  decimal.Decimal
	VAT          decimal.Decimal
	TransferDuty decimal.Decimal
	StampDuty    decimal.Decimal
	OfficeFee    decimal.Decimal
	Sundries     decimal.Decimal
	Total        decimal.Decimal
}

// breakdownWire is the JSON shape consumed by the calculator widget
type breakdownWire struct {
	TransferFees        float64 `json:"transferFees"`
	VATOnFees           float64 `json:"vatOnFees"`
	TransferDuty        float64 `json:"transferDuty"`
	StampDuty           float64 `json:"stampDuty"`
	DeedsOfficeFee      float64 `json:"deedsOfficeFee"`
	SundriesPostagesVAT float64 `json:"sundriesPostagesVAT"`
	Total               float64 `json:"total"`
}

// MarshalJSON encodes every field as a JSON number with at most 2 decimals
func (b CostBreakdown) MarshalJSON() ([]byte, error) {
	return json.Marshal(breakdownWire{
		TransferFees:        b.TransferFee.Round(2).InexactFloat64(),
		VATOnFees:           b.VAT.Round(2).InexactFloat64(),
		TransferDuty:        b.TransferDuty.Round(2).InexactFloat64(),
		StampDuty:           b.StampDuty.Round(2).InexactFloat64(),
		DeedsOfficeFee:      b.OfficeFee.Round(2).InexactFloat64(),
		SundriesPostagesVAT: b.Sundries.Round(2).InexactFloat64(),
		Total:               b.Total.Round(2).InexactFloat64(),
	})
}

// UnmarshalJSON decodes the widget JSON shape
func (b *CostBreakdown) UnmarshalJSON(data []byte) error {
	var w breakdownWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*b = CostBreakdown{
		TransferFee:  decimal.NewFromFloat(w.TransferFees),
		VAT:          decimal.NewFromFloat(w.VATOnFees),
		TransferDuty: decimal.NewFromFloat(w.TransferDuty),
		StampDuty:    decimal.NewFromFloat(w.StampDuty),
		OfficeFee:    decimal.NewFromFloat(w.DeedsOfficeFee),
		Sundries:     decimal.NewFromFloat(w.SundriesPostagesVAT),
		Total:        decimal.NewFromFloat(w.Total),
	}
	return nil
}

// LineItem is a labelled component of a breakdown
type LineItem struct {
	Key    string
	Label  string
	Amount decimal.Decimal
}

// Lines returns the breakdown components in display order, total last
func (b CostBreakdown) Lines() []LineItem {
	return []LineItem{
		{Key: "transferFees", Label: "Transfer Fees", Amount: b.TransferFee},
		{Key: "vatOnFees", Label: "VAT on Fees", Amount: b.VAT},
		{Key: "transferDuty", Label: "Transfer Duty", Amount: b.TransferDuty},
		{Key: "stampDuty", Label: "Stamp Duty", Amount: b.StampDuty},
		{Key: "deedsOfficeFee", Label: "Deeds Office Fee", Amount: b.OfficeFee},
		{Key: "sundriesPostagesVAT", Label: "Sundries/Postages/VAT", Amount: b.Sundries},
		{Key: "total", Label: "Total Cost", Amount: b.Total},
	}
}

// ComponentSum adds the six components, excluding Total
func (b CostBreakdown) ComponentSum() decimal.Decimal {
	return decimal.Sum(b.TransferFee, b.VAT, b.TransferDuty, b.StampDuty, b.OfficeFee, b.Sundries)
}
