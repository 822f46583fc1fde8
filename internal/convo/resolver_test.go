package convo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/moneymentor/advisor/internal/domain"
)

func TestMissing_ProjectBalanceEmptySlots(t *testing.T) {
	missing := Missing(domain.IntentProjectBalance, domain.Slots{})

	assert.Equal(t, []domain.VarName{
		domain.VarCurrentAge,
		domain.VarCurrentFund,
		domain.VarCurrentBalance,
		domain.VarRetirementAge,
		domain.VarCurrentIncome,
		domain.VarSuperIncluded,
	}, missing)
}

func TestMissing_PartialFillSkipsPresent(t *testing.T) {
	sl := domain.Slots{
		CurrentAge:  domain.Ptr(40),
		CurrentFund: domain.Ptr("Alpha Super"),
	}
	missing := Missing(domain.IntentProjectBalance, sl)

	assert.Equal(t, []domain.VarName{
		domain.VarCurrentBalance,
		domain.VarRetirementAge,
		domain.VarCurrentIncome,
		domain.VarSuperIncluded,
	}, missing)
}

func TestMissing_RetirementAgeNotAfterCurrentCountsAbsent(t *testing.T) {
	sl := domain.Slots{
		CurrentAge:    domain.Ptr(50),
		RetirementAge: domain.Ptr(50),
	}
	missing := Missing(domain.IntentProjectBalance, sl)
	assert.Contains(t, missing, domain.VarRetirementAge)

	sl.RetirementAge = domain.Ptr(51)
	missing = Missing(domain.IntentProjectBalance, sl)
	assert.NotContains(t, missing, domain.VarRetirementAge)
}

func TestMissing_SuperIncludedFalseIsPresent(t *testing.T) {
	sl := domain.Slots{SuperIncluded: domain.Ptr(false)}
	missing := Missing(domain.IntentProjectBalance, sl)
	assert.NotContains(t, missing, domain.VarSuperIncluded)
}

func TestMissing_RetirementOutcomeAcceptsOptionOrCustomAmount(t *testing.T) {
	full := domain.Slots{
		CurrentAge:     domain.Ptr(40),
		CurrentFund:    domain.Ptr("Alpha Super"),
		CurrentBalance: domain.Ptr(100_000.0),
		RetirementAge:  domain.Ptr(67),
		CurrentIncome:  domain.Ptr(90_000.0),
		SuperIncluded:  domain.Ptr(false),
	}

	missing := Missing(domain.IntentRetirementOutcome, full)
	assert.Equal(t, []domain.VarName{domain.VarRetirementIncomeOption}, missing)

	withOption := full
	opt := domain.IncomeModestSingle
	withOption.RetirementIncomeOption = &opt
	assert.Empty(t, Missing(domain.IntentRetirementOutcome, withOption))

	withAmount := full
	withAmount.RetirementIncome = domain.Ptr(55_000.0)
	assert.Empty(t, Missing(domain.IntentRetirementOutcome, withAmount))
}

func TestMissing_AgePensionOrder(t *testing.T) {
	missing := Missing(domain.IntentAgePension, domain.Slots{})

	assert.Equal(t, []domain.VarName{
		domain.VarCurrentAge,
		domain.VarRelationshipStatus,
		domain.VarOwnsHome,
		domain.VarCurrentBalance,
	}, missing)
}

func TestMissing_UnknownIntentNeedsNothing(t *testing.T) {
	assert.Empty(t, Missing(domain.IntentUnknown, domain.Slots{}))
	assert.Empty(t, Missing(domain.IntentUpdateVariable, domain.Slots{}))
}
