// Package finance implements the deterministic calculation engine: income
// tax, superannuation balance projection, fee breakdowns, retirement
// drawdown, and the age-pension means test. Every function here is pure and
// CPU-bound; dialogue state never reaches this package.
package finance

// EconomicAssumptions are the default rates used by projections.
type EconomicAssumptions struct {
	WageGrowthPct           float64
	EmployerContributionPct float64
	InvestmentReturnPct     float64
	InflationPct            float64

	// RetirementReturnPct is the assumed return during the drawdown phase,
	// typically lower than the accumulation-phase return.
	RetirementReturnPct float64
}

// DefaultAssumptions returns the standard economic assumptions.
func DefaultAssumptions() EconomicAssumptions {
	return EconomicAssumptions{
		WageGrowthPct:           3.0,
		EmployerContributionPct: 12.0,
		InvestmentReturnPct:     8.0,
		InflationPct:            2.5,
		RetirementReturnPct:     6.0,
	}
}

// ContributionsTaxFactor models the 15% tax on employer contributions.
const ContributionsTaxFactor = 0.85

// ASFAStandard is a published reference annual retirement income benchmark.
type ASFAStandard struct {
	Label        string
	AnnualAmount float64
}

// ASFAStandards maps retirement income option keys to benchmark amounts.
var ASFAStandards = map[string]ASFAStandard{
	"modest_single":      {Label: "Modest (single)", AnnualAmount: 32930},
	"modest_couple":      {Label: "Modest (couple)", AnnualAmount: 47475},
	"comfortable_single": {Label: "Comfortable (single)", AnnualAmount: 51805},
	"comfortable_couple": {Label: "Comfortable (couple)", AnnualAmount: 72970},
}
