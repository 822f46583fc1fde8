package finance

import "github.com/moneymentor/advisor/internal/domain"

// PensionParams holds the age-pension means-test settings.
// Amounts are fortnightly unless noted.
type PensionParams struct {
	MaxPensionSingle float64
	MaxPensionCouple float64 // combined

	// Deeming: financial assets below the threshold are deemed to earn the
	// lower rate, the remainder the upper rate. Rates are annual percents.
	DeemingThresholdSingle float64
	DeemingThresholdCouple float64
	DeemingLowerPct        float64
	DeemingUpperPct        float64

	// Income test.
	IncomeFreeAreaSingle float64
	IncomeFreeAreaCouple float64
	IncomeTaperRate      float64 // reduction per dollar over the free area

	// Assets test thresholds by homeowner status and relationship status.
	AssetsThresholdHomeSingle    float64
	AssetsThresholdHomeCouple    float64
	AssetsThresholdNonHomeSingle float64
	AssetsThresholdNonHomeCouple float64

	// AssetsTaperPer1000 is the fortnightly reduction per $1,000 of
	// assessable assets over the threshold.
	AssetsTaperPer1000 float64
}

// DefaultPensionParams returns the standard means-test settings.
func DefaultPensionParams() PensionParams {
	return PensionParams{
		MaxPensionSingle: 1_144.40,
		MaxPensionCouple: 1_725.20,

		DeemingThresholdSingle: 62_600,
		DeemingThresholdCouple: 103_800,
		DeemingLowerPct:        0.25,
		DeemingUpperPct:        2.25,

		IncomeFreeAreaSingle: 212,
		IncomeFreeAreaCouple: 372,
		IncomeTaperRate:      0.50,

		AssetsThresholdHomeSingle:    314_000,
		AssetsThresholdHomeCouple:    470_000,
		AssetsThresholdNonHomeSingle: 566_000,
		AssetsThresholdNonHomeCouple: 722_000,

		AssetsTaperPer1000: 3.00,
	}
}

// PensionInput describes one household for the means test.
type PensionInput struct {
	Status   domain.RelationshipStatus
	OwnsHome bool
	Age      int

	TotalAssets      float64 // assessable assets, excluding the family home
	FinancialAssets  float64 // subject to deeming
	EmploymentIncome float64 // annual
}

// PensionResult is the outcome of the two means tests.
type PensionResult struct {
	DeemedIncomeAnnual float64
	IncomeTestAnnual   float64
	AssetsTestAnnual   float64
	AnnualPension      float64
	MaxAnnual          float64
}

// AgePension runs both means tests and pays the lower result:
// annual pension = min(income test, assets test), annualized at 26
// fortnights per year.
func AgePension(in PensionInput, p PensionParams) PensionResult {
	maxFortnightly := p.MaxPensionSingle
	incomeFreeArea := p.IncomeFreeAreaSingle
	if in.Status == domain.StatusCouple {
		maxFortnightly = p.MaxPensionCouple
		incomeFreeArea = p.IncomeFreeAreaCouple
	}

	deemedAnnual := DeemedIncome(in.FinancialAssets, in.Status, p)

	// Income test.
	incomeFortnightly := (in.EmploymentIncome + deemedAnnual) / 26
	incomeTest := maxFortnightly
	if excess := incomeFortnightly - incomeFreeArea; excess > 0 {
		incomeTest -= excess * p.IncomeTaperRate
	}
	if incomeTest < 0 {
		incomeTest = 0
	}

	// Assets test.
	assetsTest := maxFortnightly
	if excess := in.TotalAssets - p.assetsThreshold(in); excess > 0 {
		assetsTest -= excess / 1_000 * p.AssetsTaperPer1000
	}
	if assetsTest < 0 {
		assetsTest = 0
	}

	paid := min(incomeTest, assetsTest)

	return PensionResult{
		DeemedIncomeAnnual: deemedAnnual,
		IncomeTestAnnual:   incomeTest * 26,
		AssetsTestAnnual:   assetsTest * 26,
		AnnualPension:      paid * 26,
		MaxAnnual:          maxFortnightly * 26,
	}
}

// DeemedIncome returns the annual income financial assets are deemed to
// earn: the lower rate up to the threshold, the upper rate beyond it.
func DeemedIncome(financialAssets float64, status domain.RelationshipStatus, p PensionParams) float64 {
	threshold := p.DeemingThresholdSingle
	if status == domain.StatusCouple {
		threshold = p.DeemingThresholdCouple
	}

	if financialAssets <= threshold {
		return financialAssets * p.DeemingLowerPct / 100
	}
	return threshold*p.DeemingLowerPct/100 + (financialAssets-threshold)*p.DeemingUpperPct/100
}

func (p PensionParams) assetsThreshold(in PensionInput) float64 {
	switch {
	case in.OwnsHome && in.Status == domain.StatusCouple:
		return p.AssetsThresholdHomeCouple
	case in.OwnsHome:
		return p.AssetsThresholdHomeSingle
	case in.Status == domain.StatusCouple:
		return p.AssetsThresholdNonHomeCouple
	default:
		return p.AssetsThresholdNonHomeSingle
	}
}
