package intelligence

import (
	"github.com/moneymentor/advisor/internal/domain"
)

// Extraction is the structured output of a classify-and-extract pass
// over one user message. Nil fields were not mentioned; the dialogue
// layer merges only what is present.
type Extraction struct {
	Intent domain.Intent `json:"intent"`

	CurrentFund            *string  `json:"current_fund"`
	NominatedFund          *string  `json:"nominated_fund"`
	CurrentAge             *int     `json:"current_age"`
	CurrentBalance         *float64 `json:"current_balance"`
	CurrentIncome          *float64 `json:"current_income"`
	RetirementAge          *int     `json:"retirement_age"`
	SuperIncluded          *bool    `json:"super_included"`
	RetirementBalance      *float64 `json:"retirement_balance"`
	RetirementIncomeOption *string  `json:"retirement_income_option"`
	RetirementIncome       *float64 `json:"retirement_income"`
	OwnsHome               *bool    `json:"owns_home"`
	RelationshipStatus     *string  `json:"relationship_status"`
}

// Normalize coerces model output into the canonical domain vocabulary.
// Unknown intent strings degrade to IntentUnknown rather than failing
// the turn; invalid enum values are dropped.
func (e *Extraction) Normalize() {
	if !domain.IsValidIntent(e.Intent) {
		e.Intent = domain.IntentUnknown
	}
	if e.RetirementIncomeOption != nil && !domain.ValidRetirementIncomeOptions[*e.RetirementIncomeOption] {
		e.RetirementIncomeOption = nil
	}
	if e.RelationshipStatus != nil {
		switch domain.RelationshipStatus(*e.RelationshipStatus) {
		case domain.StatusSingle, domain.StatusCouple:
		default:
			e.RelationshipStatus = nil
		}
	}
}

// Empty reports whether the extraction carries no slot values at all.
func (e *Extraction) Empty() bool {
	return e.CurrentFund == nil && e.NominatedFund == nil &&
		e.CurrentAge == nil && e.CurrentBalance == nil &&
		e.CurrentIncome == nil && e.RetirementAge == nil &&
		e.SuperIncluded == nil && e.RetirementBalance == nil &&
		e.RetirementIncomeOption == nil && e.RetirementIncome == nil &&
		e.OwnsHome == nil && e.RelationshipStatus == nil
}
