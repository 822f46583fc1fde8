package finance

import "github.com/moneymentor/advisor/internal/domain"

// DepletionNever is the sentinel returned by Drawdown when the balance
// outlives the 1,200-month simulation horizon. It is a distinguished
// out-of-band marker, not a real age; callers must special-case it before
// presenting a depletion age.
const DepletionNever = 200

// drawdownHorizonMonths caps the simulation at 100 years past retirement.
const drawdownHorizonMonths = 1_200

// DrawdownInput parameterizes a retirement-phase depletion simulation.
type DrawdownInput struct {
	Balance       float64
	RetirementAge int

	// AnnualIncome is the yearly amount withdrawn, spread evenly per month.
	AnnualIncome float64

	InvestReturnPct float64
	InflationPct    float64

	// FeeRow, when set, keeps charging fund fees on the remaining balance.
	FeeRow *domain.FeeRow
}

// Drawdown simulates monthly withdrawals against investment growth and
// returns the whole-year age at which the balance runs out, or
// DepletionNever if it survives the full horizon.
func Drawdown(in DrawdownInput) int {
	monthlyReturn := netMonthlyReturn(in.InvestReturnPct, in.InflationPct)
	monthlyIncome := in.AnnualIncome / 12
	balance := in.Balance

	for month := 1; month <= drawdownHorizonMonths; month++ {
		var monthlyFee float64
		if in.FeeRow != nil {
			monthlyFee = ComputeFeeBreakdown(*in.FeeRow, balance).Total / 12
		}

		balance = (balance - monthlyIncome - monthlyFee) * (1 + monthlyReturn)
		if balance <= 0 {
			return in.RetirementAge + month/12
		}
	}

	return DepletionNever
}
