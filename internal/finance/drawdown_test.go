package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDrawdown_ZeroIncomeNeverDepletes(t *testing.T) {
	age := Drawdown(DrawdownInput{
		Balance:         100_000,
		RetirementAge:   65,
		AnnualIncome:    0,
		InvestReturnPct: 6.0,
		InflationPct:    2.5,
	})
	assert.Equal(t, DepletionNever, age)
}

func TestDrawdown_HeavyIncomeDepletesQuickly(t *testing.T) {
	age := Drawdown(DrawdownInput{
		Balance:         100_000,
		RetirementAge:   65,
		AnnualIncome:    60_000,
		InvestReturnPct: 6.0,
		InflationPct:    2.5,
	})
	assert.Greater(t, age, 65)
	assert.Less(t, age, 70)
}

func TestDrawdown_HigherIncomeDepletesNoLater(t *testing.T) {
	base := DrawdownInput{
		Balance:         400_000,
		RetirementAge:   65,
		AnnualIncome:    30_000,
		InvestReturnPct: 6.0,
		InflationPct:    2.5,
	}
	modest := Drawdown(base)

	greedy := base
	greedy.AnnualIncome = 60_000
	assert.LessOrEqual(t, Drawdown(greedy), modest)
}

func TestDrawdown_FeesShortenTheRunway(t *testing.T) {
	row := testFeeRow()
	base := DrawdownInput{
		Balance:         300_000,
		RetirementAge:   65,
		AnnualIncome:    40_000,
		InvestReturnPct: 6.0,
		InflationPct:    2.5,
	}
	noFees := Drawdown(base)

	withFees := base
	withFees.FeeRow = &row
	assert.LessOrEqual(t, Drawdown(withFees), noFees)
}

func TestDrawdown_ZeroBalanceDepletesImmediately(t *testing.T) {
	age := Drawdown(DrawdownInput{
		Balance:       0,
		RetirementAge: 67,
		AnnualIncome:  20_000,
	})
	assert.Equal(t, 67, age)
}
