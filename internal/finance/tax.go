package finance

// taxBracket is one band of the Australian resident marginal tax table.
// Base is the cumulative tax owed at Lower-1 dollars of income.
type taxBracket struct {
	Lower float64
	Upper float64
	Rate  float64
	Base  float64
}

// 2024-25 resident brackets.
var taxBrackets = []taxBracket{
	{Lower: 0, Upper: 18_200, Rate: 0, Base: 0},
	{Lower: 18_201, Upper: 45_000, Rate: 0.16, Base: 0},
	{Lower: 45_001, Upper: 135_000, Rate: 0.30, Base: 4_288},
	{Lower: 135_001, Upper: 190_000, Rate: 0.37, Base: 31_288},
	{Lower: 190_001, Upper: 0, Rate: 0.45, Base: 51_638},
}

const medicareLevyRate = 0.02

// sapto eligibility is approximated by age >= 67 alone. This ignores
// relationship status and the actual pension eligibility rules.
const saptoEligibilityAge = 67

// NetOfSuper back-calculates base income when the stated amount includes
// employer super contributions.
func NetOfSuper(income float64, superIncluded bool, employerRatePct float64) float64 {
	if superIncluded {
		return income / (1 + employerRatePct/100)
	}
	return income
}

// AfterTaxIncome computes annual income after tax under the fixed bracket
// table, the Medicare levy, the Low Income Tax Offset, and (from age 67) the
// Seniors and Pensioners Tax Offset. Total tax never goes below zero.
func AfterTaxIncome(income float64, age int) float64 {
	return income - TotalTax(income, age)
}

// TotalTax computes the total annual tax on the given income.
func TotalTax(income float64, age int) float64 {
	if income <= 0 {
		return 0
	}

	tax := bracketTax(income)
	tax += income * medicareLevyRate
	tax -= lowIncomeTaxOffset(income)
	if age >= saptoEligibilityAge {
		tax -= seniorsOffset(income)
	}
	if tax < 0 {
		return 0
	}
	return tax
}

func bracketTax(income float64) float64 {
	for i := len(taxBrackets) - 1; i >= 0; i-- {
		b := taxBrackets[i]
		if income >= b.Lower {
			return b.Base + (income-(b.Lower-1))*b.Rate
		}
	}
	return 0
}

// lowIncomeTaxOffset tapers from $700 to zero across two bands, reaching
// zero at $66,667.
func lowIncomeTaxOffset(income float64) float64 {
	switch {
	case income <= 37_500:
		return 700
	case income <= 45_000:
		return 700 - (income-37_500)*0.05
	case income <= 66_667:
		return 325 - (income-45_000)*0.015
	default:
		return 0
	}
}

// seniorsOffset tapers from $2,230 to zero between $32,279 and $50,119.
func seniorsOffset(income float64) float64 {
	switch {
	case income <= 32_279:
		return 2_230
	case income <= 50_119:
		return 2_230 - (income-32_279)*0.125
	default:
		return 0
	}
}
