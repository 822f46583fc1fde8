package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectBalance_NeutralInputsReturnStartBalance(t *testing.T) {
	got := ProjectBalance(ProjectionInput{
		CurrentAge:      40,
		RetirementAge:   65,
		StartBalance:    150_000,
		NetIncome:       90_000,
		WageGrowthPct:   0,
		EmployerRatePct: 0,
		InvestReturnPct: 2.5,
		InflationPct:    2.5,
	})
	assert.InDelta(t, 150_000, got, 1e-6)
}

func TestProjectBalance_ContributionsGrowBalance(t *testing.T) {
	base := ProjectionInput{
		CurrentAge:      40,
		RetirementAge:   65,
		StartBalance:    100_000,
		NetIncome:       90_000,
		WageGrowthPct:   3.0,
		EmployerRatePct: 12.0,
		InvestReturnPct: 8.0,
		InflationPct:    2.5,
	}
	withContrib := ProjectBalance(base)

	noContrib := base
	noContrib.EmployerRatePct = 0
	withoutContrib := ProjectBalance(noContrib)

	assert.Greater(t, withContrib, withoutContrib)
	assert.Greater(t, withoutContrib, base.StartBalance, "positive real return grows the balance")
}

func TestProjectBalance_ContributionsTaxApplied(t *testing.T) {
	// One year, no growth or returns: 12 contributions of
	// salary * 12% * 0.85 / 12.
	got := ProjectBalance(ProjectionInput{
		CurrentAge:      64,
		RetirementAge:   65,
		StartBalance:    0,
		NetIncome:       100_000,
		EmployerRatePct: 12.0,
	})
	assert.InDelta(t, 100_000*0.12*0.85, got, 0.01)
}

func TestProjectBalance_FeesDragMonthly(t *testing.T) {
	row := testFeeRow()
	base := ProjectionInput{
		CurrentAge:      50,
		RetirementAge:   60,
		StartBalance:    200_000,
		NetIncome:       80_000,
		WageGrowthPct:   3.0,
		EmployerRatePct: 12.0,
		InvestReturnPct: 8.0,
		InflationPct:    2.5,
	}
	noFees := ProjectBalance(base)

	withFees := base
	withFees.FeeRow = &row
	assert.Less(t, ProjectBalance(withFees), noFees)
}

func TestProjectBalance_AlreadyRetired(t *testing.T) {
	got := ProjectBalance(ProjectionInput{
		CurrentAge:    70,
		RetirementAge: 65,
		StartBalance:  300_000,
	})
	assert.Equal(t, 300_000.0, got)
}
