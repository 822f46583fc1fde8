package convo

import (
	"context"
	"sort"
	"strings"

	"github.com/moneymentor/advisor/internal/domain"
	"github.com/moneymentor/advisor/internal/finance"
)

// FundFee is one fund's annual fee position on a given balance.
type FundFee struct {
	Name         string
	Breakdown    finance.FeeBreakdown
	PctOfBalance float64
}

// ProjectionPayload is the structured answer for project_balance.
type ProjectionPayload struct {
	CurrentAge       int
	RetirementAge    int
	StartBalance     float64
	NetIncome        float64
	FundName         string
	ProjectedBalance float64
	Assumptions      finance.EconomicAssumptions
}

// FeeComparisonPayload is the answer for compare_fees_nominated.
type FeeComparisonPayload struct {
	Balance   float64
	Current   FundFee
	Nominated FundFee
}

// FeeRankingPayload is the answer for compare_fees_all: every
// applicable fund ranked cheapest first.
type FeeRankingPayload struct {
	Balance     float64
	Funds       []FundFee
	CurrentFund string
	CurrentRank int // 0 when the current fund is not in the ranking
}

// CheapestPayload is the answer for find_cheapest.
type CheapestPayload struct {
	Compared int
	Balance  float64
	Fund     FundFee
}

// CompareProjectionPayload is the answer for compare_balance_projection.
type CompareProjectionPayload struct {
	Current   ProjectionPayload
	Nominated ProjectionPayload
}

// OutcomePayload is the answer for retirement_outcome.
type OutcomePayload struct {
	RetirementBalance float64
	RetirementAge     int
	AnnualIncome      float64
	IncomeLabel       string
	DepletionAge      int
	NeverDepletes     bool
}

// PensionPayload is the answer for calculate_age_pension.
type PensionPayload struct {
	Input  finance.PensionInput
	Result finance.PensionResult
}

// FundNotFoundPayload is the explanatory short-circuit when a fund
// cannot be matched against the fee table. The session continues.
type FundNotFoundPayload struct {
	Name string
}

// UnknownPayload is returned when no recognizable intent is active.
type UnknownPayload struct{}

// dispatch runs the intent handler. The resolver guarantees every
// required slot is present before this is reached; missing-slot panics
// here would be programming defects, not runtime cases.
func (m *Machine) dispatch(ctx context.Context, intent domain.Intent, sl domain.Slots) any {
	switch intent {
	case domain.IntentProjectBalance:
		return m.handleProjectBalance(ctx, sl)
	case domain.IntentCompareFeesNominated:
		return m.handleCompareFeesNominated(ctx, sl)
	case domain.IntentCompareFeesAll:
		return m.handleCompareFeesAll(ctx, sl)
	case domain.IntentFindCheapest:
		return m.handleFindCheapest(sl)
	case domain.IntentCompareProjection:
		return m.handleCompareProjection(ctx, sl)
	case domain.IntentRetirementOutcome:
		return m.handleRetirementOutcome(ctx, sl)
	case domain.IntentAgePension:
		return m.handleAgePension(sl)
	default:
		return UnknownPayload{}
	}
}

func (m *Machine) handleProjectBalance(ctx context.Context, sl domain.Slots) any {
	row, name, err := m.feeRowFor(ctx, *sl.CurrentFund, *sl.CurrentAge)
	if err != nil {
		return FundNotFoundPayload{Name: *sl.CurrentFund}
	}

	netIncome := *sl.CurrentIncome
	if sl.IncomeNetOfSuper != nil {
		netIncome = *sl.IncomeNetOfSuper
	}

	return ProjectionPayload{
		CurrentAge:    *sl.CurrentAge,
		RetirementAge: *sl.RetirementAge,
		StartBalance:  *sl.CurrentBalance,
		NetIncome:     netIncome,
		FundName:      name,
		ProjectedBalance: finance.ProjectBalance(finance.ProjectionInput{
			CurrentAge:      *sl.CurrentAge,
			RetirementAge:   *sl.RetirementAge,
			StartBalance:    *sl.CurrentBalance,
			NetIncome:       netIncome,
			WageGrowthPct:   m.assume.WageGrowthPct,
			EmployerRatePct: m.assume.EmployerContributionPct,
			InvestReturnPct: m.assume.InvestmentReturnPct,
			InflationPct:    m.assume.InflationPct,
			FeeRow:          &row,
		}),
		Assumptions: m.assume,
	}
}

func (m *Machine) handleCompareFeesNominated(ctx context.Context, sl domain.Slots) any {
	balance := *sl.CurrentBalance

	currentRow, currentName, err := m.feeRowFor(ctx, *sl.CurrentFund, *sl.CurrentAge)
	if err != nil {
		return FundNotFoundPayload{Name: *sl.CurrentFund}
	}
	nominatedRow, nominatedName, err := m.feeRowFor(ctx, *sl.NominatedFund, *sl.CurrentAge)
	if err != nil {
		return FundNotFoundPayload{Name: *sl.NominatedFund}
	}

	return FeeComparisonPayload{
		Balance:   balance,
		Current:   fundFee(currentName, currentRow, balance),
		Nominated: fundFee(nominatedName, nominatedRow, balance),
	}
}

func (m *Machine) handleCompareFeesAll(ctx context.Context, sl domain.Slots) any {
	balance := *sl.CurrentBalance
	ranked := m.rankFunds(*sl.CurrentAge, balance)
	if len(ranked) == 0 {
		return FundNotFoundPayload{Name: *sl.CurrentFund}
	}

	currentName := *sl.CurrentFund
	if matched, ok := m.matcher.Match(ctx, currentName); ok {
		currentName = matched
	}
	rank := 0
	for i, f := range ranked {
		if strings.EqualFold(f.Name, currentName) {
			rank = i + 1
			break
		}
	}

	return FeeRankingPayload{
		Balance:     balance,
		Funds:       ranked,
		CurrentFund: currentName,
		CurrentRank: rank,
	}
}

func (m *Machine) handleFindCheapest(sl domain.Slots) any {
	balance := *sl.CurrentBalance
	ranked := m.rankFunds(*sl.CurrentAge, balance)
	if len(ranked) == 0 {
		return FundNotFoundPayload{Name: "any fund"}
	}
	return CheapestPayload{
		Compared: len(ranked),
		Balance:  balance,
		Fund:     ranked[0],
	}
}

func (m *Machine) handleCompareProjection(ctx context.Context, sl domain.Slots) any {
	current := m.handleProjectBalance(ctx, sl)
	currentProj, ok := current.(ProjectionPayload)
	if !ok {
		return current
	}

	nominatedSlots := sl
	nominatedSlots.CurrentFund = sl.NominatedFund
	nominated := m.handleProjectBalance(ctx, nominatedSlots)
	nominatedProj, ok := nominated.(ProjectionPayload)
	if !ok {
		return nominated
	}

	return CompareProjectionPayload{Current: currentProj, Nominated: nominatedProj}
}

func (m *Machine) handleRetirementOutcome(ctx context.Context, sl domain.Slots) any {
	// Derived recompute has already run this turn, but a fund outside
	// the fee table leaves retirement_balance unset until the simple
	// estimate path fills it.
	if sl.RetirementBalance == nil {
		balance := m.projectedRetirementBalance(ctx, sl)
		sl.RetirementBalance = &balance
	}

	income := m.annualRetirementIncome(sl)
	age := finance.Drawdown(finance.DrawdownInput{
		Balance:         *sl.RetirementBalance,
		RetirementAge:   *sl.RetirementAge,
		AnnualIncome:    income,
		InvestReturnPct: m.assume.RetirementReturnPct,
		InflationPct:    m.assume.InflationPct,
		FeeRow:          m.feeRowOrNil(ctx, sl.CurrentFund, *sl.RetirementAge),
	})

	return OutcomePayload{
		RetirementBalance: *sl.RetirementBalance,
		RetirementAge:     *sl.RetirementAge,
		AnnualIncome:      income,
		IncomeLabel:       incomeLabel(sl),
		DepletionAge:      age,
		NeverDepletes:     age == finance.DepletionNever,
	}
}

func (m *Machine) handleAgePension(sl domain.Slots) any {
	// The super balance stands in for both asset figures: non-super
	// assets are never collected, so the means test sees super only.
	input := finance.PensionInput{
		Status:          *sl.RelationshipStatus,
		OwnsHome:        *sl.OwnsHome,
		Age:             *sl.CurrentAge,
		TotalAssets:     *sl.CurrentBalance,
		FinancialAssets: *sl.CurrentBalance,
	}
	if domain.HasPositive(sl.CurrentIncome) {
		input.EmploymentIncome = *sl.CurrentIncome
	}

	return PensionPayload{
		Input:  input,
		Result: finance.AgePension(input, m.pension),
	}
}

// rankFunds fee-ranks every fund applicable at the age, cheapest first.
func (m *Machine) rankFunds(age int, balance float64) []FundFee {
	rows := m.table.RowsFor(age)
	ranked := make([]FundFee, 0, len(rows))
	for _, row := range rows {
		ranked = append(ranked, fundFee(row.FundName, row, balance))
	}
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].Breakdown.Total < ranked[j].Breakdown.Total
	})
	return ranked
}

func fundFee(name string, row domain.FeeRow, balance float64) FundFee {
	breakdown := finance.ComputeFeeBreakdown(row, balance)
	pct := 0.0
	if balance > 0 {
		pct = breakdown.Total / balance * 100
	}
	return FundFee{Name: name, Breakdown: breakdown, PctOfBalance: pct}
}

func incomeLabel(sl domain.Slots) string {
	if sl.RetirementIncomeOption == nil {
		return "custom amount"
	}
	switch *sl.RetirementIncomeOption {
	case domain.IncomeSameAsCurrent:
		return "same as your current after-tax income"
	case domain.IncomeCustom:
		return "custom amount"
	default:
		if std, ok := finance.ASFAStandards[string(*sl.RetirementIncomeOption)]; ok {
			return std.Label + " ASFA standard"
		}
		return string(*sl.RetirementIncomeOption)
	}
}
