package domain

// AdminFeeTier is one band of a balance-tiered administration fee schedule.
// Rate is a percentage applied to the balance falling inside the band.
type AdminFeeTier struct {
	MinBalance float64 `json:"min_bal"`
	MaxBalance float64 `json:"max_bal"`
	Rate       float64 `json:"rate"`
}

// FeeRow is one fund's fee schedule for a given age band, as loaded from the
// fund reference table. Read-only to the core.
type FeeRow struct {
	FundName      string
	AgeMin        int
	AgeMax        int
	InvestmentPct float64        // % of balance per year
	AdminTiers    []AdminFeeTier // ordered by MinBalance ascending
	MemberFee     float64        // flat dollars per year
}

// AppliesTo reports whether this row covers the given age.
func (r FeeRow) AppliesTo(age int) bool {
	return age >= r.AgeMin && age <= r.AgeMax
}
