// Package types defines core domain types shared across all layers.
// This package contains NO business logic - only type definitions.
package types

// SubType identifies the property category
type SubType string

const (
	// SubTypeSectional is a unit in a sectional title scheme
	SubTypeSectional SubType = "S"

	// SubTypeFreehold is a free-standing erf
	SubTypeFreehold SubType = "F"
)

// String returns the string representation
func (s SubType) String() string {
	return string(s)
}

// Label returns a human-readable label
func (s SubType) Label() string {
	switch s {
	case SubTypeSectional:
		return "Sectional Title"
	case SubTypeFreehold:
		return "Freehold"
	default:
		return "Unknown"
	}
}

// IsValid checks if the sub-type is known
func (s SubType) IsValid() bool {
	switch s {
	case SubTypeSectional, SubTypeFreehold:
		return true
	default:
		return false
	}
}

// DutyType identifies the buyer or transaction category
type DutyType string

const (
	DutyTypeResidential  DutyType = "N"
	DutyTypeAgricultural DutyType = "A"
	DutyTypeCommercial   DutyType = "C"
)

// String returns the string representation
func (d DutyType) String() string {
	return string(d)
}

// Label returns a human-readable label
func (d DutyType) Label() string {
	switch d {
	case DutyTypeResidential:
		return "Normal/Residential"
	case DutyTypeAgricultural:
		return "Agricultural"
	case DutyTypeCommercial:
		return "Commercial"
	default:
		return "Unknown"
	}
}

// IsValid checks if the duty type is known
func (d DutyType) IsValid() bool {
	switch d {
	case DutyTypeResidential, DutyTypeAgricultural, DutyTypeCommercial:
		return true
	default:
		return false
	}
}

// Regime identifies the statutory rate table in force
type Regime string

const (
	// RegimePreCutover applies to transfers before 1 October 2024
	RegimePreCutover Regime = "before"

	// RegimePostCutover applies to transfers from 1 October 2024 onwards
	RegimePostCutover Regime = "after"
)

// String returns the string representation
func (r Regime) String() string {
	return string(r)
}

// Label returns a human-readable label
func (r Regime) Label() string {
	switch r {
	case RegimePreCutover:
		return "Before 1 October 2024"
	case RegimePostCutover:
		return "From 1 October 2024 onwards"
	default:
		return "Unknown"
	}
}

// IsValid checks if the regime is known
func (r Regime) IsValid() bool {
	return r == RegimePreCutover || r == RegimePostCutover
}

// ParseRegime maps the request date selector to a regime.
// Only "before" selects the pre-cutover table; every other value is post-cutover.
func ParseRegime(date string) Regime {
	if date == string(RegimePreCutover) {
		return RegimePreCutover
	}
	return RegimePostCutover
}
