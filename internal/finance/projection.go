package finance

import (
	"math"

	"github.com/moneymentor/advisor/internal/domain"
)

// ProjectionInput parameterizes an accumulation-phase balance projection.
type ProjectionInput struct {
	CurrentAge    int
	RetirementAge int
	StartBalance  float64

	// NetIncome is annual salary net of super (the contribution base).
	NetIncome float64

	WageGrowthPct   float64
	EmployerRatePct float64
	InvestReturnPct float64
	InflationPct    float64

	// FeeRow, when set, is repriced against the current balance every month
	// so tiered fee structures drift as the balance grows.
	FeeRow *domain.FeeRow
}

// ProjectBalance simulates the superannuation balance month by month until
// retirement and returns the final balance in today's dollars.
//
// Each month: the salary for the elapsed whole years compounds at wage
// growth, the employer contributes employerRate% less 15% contributions tax,
// the fund's annual fee (recomputed on the current balance) is deducted
// pro-rata, and the remainder grows at the net-of-inflation monthly return.
func ProjectBalance(in ProjectionInput) float64 {
	totalMonths := (in.RetirementAge - in.CurrentAge) * 12
	if totalMonths <= 0 {
		return in.StartBalance
	}

	monthlyReturn := netMonthlyReturn(in.InvestReturnPct, in.InflationPct)
	balance := in.StartBalance

	for month := 1; month <= totalMonths; month++ {
		yearsElapsed := (month - 1) / 12
		annualSalary := in.NetIncome * math.Pow(1+in.WageGrowthPct/100, float64(yearsElapsed))
		contribution := annualSalary * in.EmployerRatePct / 100 * ContributionsTaxFactor / 12

		var monthlyFee float64
		if in.FeeRow != nil {
			monthlyFee = ComputeFeeBreakdown(*in.FeeRow, balance).Total / 12
		}

		balance = (balance + contribution - monthlyFee) * (1 + monthlyReturn)
	}

	return balance
}

// netMonthlyReturn converts annual gross return and inflation percentages
// into a compounding monthly real return.
func netMonthlyReturn(investReturnPct, inflationPct float64) float64 {
	netAnnual := investReturnPct - inflationPct
	return math.Pow(1+netAnnual/100, 1.0/12) - 1
}
