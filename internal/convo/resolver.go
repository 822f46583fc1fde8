// Package convo owns per-session dialogue state: intent resolution, slot
// collection, intent chaining, and dispatch to the calculation engine once
// every required slot is present.
package convo

import (
	"github.com/moneymentor/advisor/internal/domain"
)

// requirement pairs a slot with its presence predicate. Presence is more
// than non-nil: a retirement age at or below the current age still counts
// as missing, and currency slots must be positive.
type requirement struct {
	Name    domain.VarName
	Present func(domain.Slots) bool
}

func hasAge(sl domain.Slots) bool {
	return sl.CurrentAge != nil && *sl.CurrentAge > 0
}

func hasFund(p *string) bool {
	return p != nil && *p != ""
}

var (
	needAge = requirement{domain.VarCurrentAge, hasAge}

	needCurrentFund = requirement{domain.VarCurrentFund, func(sl domain.Slots) bool {
		return hasFund(sl.CurrentFund)
	}}

	needNominatedFund = requirement{domain.VarNominatedFund, func(sl domain.Slots) bool {
		return hasFund(sl.NominatedFund)
	}}

	needBalance = requirement{domain.VarCurrentBalance, func(sl domain.Slots) bool {
		return domain.HasPositive(sl.CurrentBalance)
	}}

	needRetirementAge = requirement{domain.VarRetirementAge, func(sl domain.Slots) bool {
		return sl.HasRetirementAge()
	}}

	needIncome = requirement{domain.VarCurrentIncome, func(sl domain.Slots) bool {
		return domain.HasPositive(sl.CurrentIncome)
	}}

	needSuperIncluded = requirement{domain.VarSuperIncluded, func(sl domain.Slots) bool {
		return sl.SuperIncluded != nil
	}}

	// Either a recognized option or an explicit custom amount satisfies
	// the retirement income requirement.
	needRetirementIncome = requirement{domain.VarRetirementIncomeOption, func(sl domain.Slots) bool {
		return sl.RetirementIncomeOption != nil || domain.HasPositive(sl.RetirementIncome)
	}}

	needRelationshipStatus = requirement{domain.VarRelationshipStatus, func(sl domain.Slots) bool {
		return sl.RelationshipStatus != nil
	}}

	needOwnsHome = requirement{domain.VarOwnsHome, func(sl domain.Slots) bool {
		return sl.OwnsHome != nil
	}}
)

// checklists holds the fixed ordered requirement list per intent. The
// resolver returns the full missing list; the machine consumes only the
// head, so the whole set is recomputed idempotently after every update.
var checklists = map[domain.Intent][]requirement{
	domain.IntentProjectBalance: {
		needAge, needCurrentFund, needBalance,
		needRetirementAge, needIncome, needSuperIncluded,
	},
	domain.IntentRetirementOutcome: {
		needAge, needCurrentFund, needBalance,
		needRetirementAge, needIncome, needSuperIncluded,
		needRetirementIncome,
	},
	domain.IntentCompareFeesNominated: {
		needAge, needCurrentFund, needBalance, needNominatedFund,
	},
	domain.IntentCompareFeesAll: {
		needAge, needCurrentFund, needBalance,
	},
	domain.IntentFindCheapest: {
		needAge, needBalance,
	},
	domain.IntentCompareProjection: {
		needAge, needCurrentFund, needBalance, needNominatedFund,
		needRetirementAge, needIncome, needSuperIncluded,
	},
	domain.IntentAgePension: {
		needAge, needRelationshipStatus, needOwnsHome, needBalance,
	},
}

// Missing returns the ordered list of still-missing variables for the
// intent. Intents with no checklist (unknown, update_variable) need
// nothing.
func Missing(intent domain.Intent, slots domain.Slots) []domain.VarName {
	var missing []domain.VarName
	for _, req := range checklists[intent] {
		if !req.Present(slots) {
			missing = append(missing, req.Name)
		}
	}
	return missing
}
