package pricing

import (
	"github.com/shopspring/decimal"

	p "transfer-cost/core/pricing/primitives"
	"transfer-cost/core/types"
)

// Conveyancing fees are the same in both regimes.
var (
	sectionalFees = p.Schedule{
		p.Flat(100_000, p.Exclusive, 3000),
		p.Flat(300_000, p.Exclusive, 4500),
		p.Flat(500_000, p.Exclusive, 6000),
		p.Flat(600_000, p.Exclusive, 6800),
		p.Stepped(1_000_000, p.Exclusive, 600_000, 10260, 100_000, 1200),
		p.Stepped(5_000_000, p.Exclusive, 1_000_000, 16260, 200_000, 1200),
		p.Stepped(0, p.Exclusive, 5_000_000, 40260, 500_000, 1600),
	}

	freeholdFees = p.Schedule{
		p.Flat(500_000, p.Exclusive, 5000),
		p.Flat(600_000, p.Exclusive, 6800),
		p.Stepped(1_000_000, p.Exclusive, 600_000, 11160, 100_000, 1540),
		p.Stepped(5_000_000, p.Exclusive, 1_000_000, 18860, 200_000, 1540),
		p.Stepped(0, p.Exclusive, 5_000_000, 49660, 500_000, 1925),
	}
)

var (
	residentialDutyPre = p.Schedule{
		p.Flat(600_000, p.Inclusive, 0),
		p.Marginal(1_000_000, p.Exclusive, 600_000, 0, "0.01"),
		p.Marginal(2_000_000, p.Exclusive, 1_000_000, 4000, "0.05"),
		p.Marginal(0, p.Exclusive, 2_000_000, 54000, "0.08"),
	}

	residentialDutyPost = p.Schedule{
		p.Flat(1_100_000, p.Inclusive, 0),
		p.Marginal(1_580_000, p.Exclusive, 1_100_000, 0, "0.01"),
		p.Marginal(3_150_000, p.Exclusive, 1_580_000, 4800, "0.05"),
		p.Marginal(12_100_000, p.Exclusive, 3_150_000, 83300, "0.08"),
		p.Marginal(0, p.Exclusive, 12_100_000, 799300, "0.11"),
	}

	agriculturalDuty = p.Schedule{
		p.Flat(1_500_000, p.Exclusive, 0),
		p.Marginal(2_500_000, p.Exclusive, 1_500_000, 0, "0.01"),
		p.Marginal(0, p.Exclusive, 2_500_000, 10000, "0.03"),
	}

	commercialDuty = p.Schedule{
		p.Marginal(0, p.Exclusive, 0, 0, "0.12"),
	}
)

// The stamp duty threshold stays at 1 100 000 in both regimes.
var (
	stampDutyThreshold = p.Schedule{
		p.Flat(1_100_000, p.Inclusive, 0),
		p.Stepped(0, p.Exclusive, 1_100_000, 0, 1000, 10),
	}

	stampDutyCommercial = p.Schedule{
		p.Stepped(0, p.Exclusive, 0, 0, 1000, 12),
	}
)

var preCutover = &RateTable{
	id:        "pre-2024-10-01",
	regime:    types.RegimePreCutover,
	effective: "Prior to 1 October 2024",
	transferFees: map[types.SubType]p.Schedule{
		types.SubTypeSectional: sectionalFees,
		types.SubTypeFreehold:  freeholdFees,
	},
	duty: map[types.DutyType]p.Schedule{
		types.DutyTypeResidential:  residentialDutyPre,
		types.DutyTypeAgricultural: agriculturalDuty,
		types.DutyTypeCommercial:   commercialDuty,
	},
	stampDuty: map[types.DutyType]p.Schedule{
		types.DutyTypeResidential:  stampDutyThreshold,
		types.DutyTypeAgricultural: stampDutyThreshold,
		types.DutyTypeCommercial:   stampDutyCommercial,
	},
	officeFees: map[types.SubType]decimal.Decimal{
		types.SubTypeSectional: decimal.NewFromInt(250),
		types.SubTypeFreehold:  decimal.NewFromInt(345),
	},
	sundries: decimal.NewFromInt(1265),
	vatRate:  decimal.RequireFromString("0.15"),
}

var postCutover = &RateTable{
	id:        "post-2024-10-01",
	regime:    types.RegimePostCutover,
	effective: "From 1 October 2024 onwards",
	transferFees: map[types.SubType]p.Schedule{
		types.SubTypeSectional: sectionalFees,
		types.SubTypeFreehold:  freeholdFees,
	},
	duty: map[types.DutyType]p.Schedule{
		types.DutyTypeResidential:  residentialDutyPost,
		types.DutyTypeAgricultural: agriculturalDuty,
		types.DutyTypeCommercial:   commercialDuty,
	},
	stampDuty: map[types.DutyType]p.Schedule{
		types.DutyTypeResidential:  stampDutyThreshold,
		types.DutyTypeAgricultural: stampDutyThreshold,
		types.DutyTypeCommercial:   stampDutyCommercial,
	},
	officeFees: map[types.SubType]decimal.Decimal{
		types.SubTypeSectional: decimal.NewFromInt(400),
		types.SubTypeFreehold:  decimal.NewFromInt(345),
	},
	sundries: decimal.NewFromInt(1265),
	vatRate:  decimal.RequireFromString("0.15"),
}
