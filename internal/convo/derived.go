package convo

import (
	"context"

	"github.com/moneymentor/advisor/internal/domain"
	"github.com/moneymentor/advisor/internal/finance"
	"github.com/moneymentor/advisor/internal/funds"
)

// recomputeDerived refreshes every derived slot whose prerequisites are
// present. Derived slots are outputs only; an incomplete prerequisite
// set simply leaves the slot untouched.
func (m *Machine) recomputeDerived(ctx context.Context, sl *domain.Slots) {
	if domain.HasPositive(sl.CurrentIncome) && sl.SuperIncluded != nil {
		net := finance.NetOfSuper(*sl.CurrentIncome, *sl.SuperIncluded, m.assume.EmployerContributionPct)
		sl.IncomeNetOfSuper = &net
	}

	if sl.IncomeNetOfSuper != nil && hasAgeVal(sl.CurrentAge) {
		after := finance.AfterTaxIncome(*sl.IncomeNetOfSuper, *sl.CurrentAge)
		sl.AfterTaxIncome = &after
	}

	if hasAgeVal(sl.CurrentAge) && sl.HasRetirementAge() &&
		domain.HasPositive(sl.CurrentBalance) && sl.IncomeNetOfSuper != nil &&
		sl.CurrentFund != nil && *sl.CurrentFund != "" {
		balance := m.projectedRetirementBalance(ctx, *sl)
		sl.RetirementBalance = &balance
	}

	if domain.HasPositive(sl.RetirementBalance) && sl.HasRetirementAge() {
		if income := m.annualRetirementIncome(*sl); income > 0 {
			age := finance.Drawdown(finance.DrawdownInput{
				Balance:         *sl.RetirementBalance,
				RetirementAge:   *sl.RetirementAge,
				AnnualIncome:    income,
				InvestReturnPct: m.assume.RetirementReturnPct,
				InflationPct:    m.assume.InflationPct,
				FeeRow:          m.feeRowOrNil(ctx, sl.CurrentFund, *sl.RetirementAge),
			})
			sl.RetirementDrawdownAge = &age
		}
	}
}

// projectedRetirementBalance runs the full monthly projection when the
// fund's fee row is known, and a simple compound-growth estimate when it
// is not, so a fund outside the fee table never blocks the pipeline.
func (m *Machine) projectedRetirementBalance(ctx context.Context, sl domain.Slots) float64 {
	row := m.feeRowOrNil(ctx, sl.CurrentFund, *sl.CurrentAge)
	if row == nil {
		netAnnual := (m.assume.InvestmentReturnPct - m.assume.InflationPct) / 100
		years := *sl.RetirementAge - *sl.CurrentAge
		balance := *sl.CurrentBalance
		for i := 0; i < years; i++ {
			balance *= 1 + netAnnual
		}
		return balance
	}

	return finance.ProjectBalance(finance.ProjectionInput{
		CurrentAge:      *sl.CurrentAge,
		RetirementAge:   *sl.RetirementAge,
		StartBalance:    *sl.CurrentBalance,
		NetIncome:       *sl.IncomeNetOfSuper,
		WageGrowthPct:   m.assume.WageGrowthPct,
		EmployerRatePct: m.assume.EmployerContributionPct,
		InvestReturnPct: m.assume.InvestmentReturnPct,
		InflationPct:    m.assume.InflationPct,
		FeeRow:          row,
	})
}

// annualRetirementIncome resolves the drawdown income from the selected
// option, an ASFA benchmark, or an explicit custom amount. Zero means
// not yet resolvable.
func (m *Machine) annualRetirementIncome(sl domain.Slots) float64 {
	if sl.RetirementIncomeOption != nil {
		switch *sl.RetirementIncomeOption {
		case domain.IncomeSameAsCurrent:
			if sl.AfterTaxIncome != nil {
				return *sl.AfterTaxIncome
			}
			return 0
		case domain.IncomeCustom:
			if domain.HasPositive(sl.RetirementIncome) {
				return *sl.RetirementIncome
			}
			return 0
		default:
			if std, ok := finance.ASFAStandards[string(*sl.RetirementIncomeOption)]; ok {
				return std.AnnualAmount
			}
		}
	}
	if domain.HasPositive(sl.RetirementIncome) {
		return *sl.RetirementIncome
	}
	return 0
}

// feeRowOrNil resolves the fee row for a fund name at an age, going
// through the fuzzy matcher. Nil when the fund is unknown.
func (m *Machine) feeRowOrNil(ctx context.Context, fund *string, age int) *domain.FeeRow {
	if fund == nil || *fund == "" {
		return nil
	}
	name, ok := m.matcher.Match(ctx, *fund)
	if !ok {
		return nil
	}
	row, err := m.table.FeeRowFor(name, age)
	if err != nil {
		return nil
	}
	return &row
}

// feeRowFor is the strict variant used at dispatch, where an unknown
// fund becomes an explanatory answer instead of a silent nil.
func (m *Machine) feeRowFor(ctx context.Context, fund string, age int) (domain.FeeRow, string, error) {
	name, ok := m.matcher.Match(ctx, fund)
	if !ok {
		return domain.FeeRow{}, "", funds.ErrFundNotFound
	}
	row, err := m.table.FeeRowFor(name, age)
	if err != nil {
		return domain.FeeRow{}, "", err
	}
	return row, name, nil
}

func hasAgeVal(p *int) bool {
	return p != nil && *p > 0
}
