package domain

import "time"

// Slots holds every canonical variable collected (or derived) for a session.
// Nil means "not yet known". Pointers let the resolver distinguish an absent
// value from a legitimate zero (e.g. super_included=false).
type Slots struct {
	CurrentAge             *int                    `json:"current_age,omitempty"`
	CurrentBalance         *float64                `json:"current_balance,omitempty"`
	CurrentIncome          *float64                `json:"current_income,omitempty"`
	RetirementAge          *int                    `json:"retirement_age,omitempty"`
	CurrentFund            *string                 `json:"current_fund,omitempty"`
	NominatedFund          *string                 `json:"nominated_fund,omitempty"`
	SuperIncluded          *bool                   `json:"super_included,omitempty"`
	RetirementIncomeOption *RetirementIncomeOption `json:"retirement_income_option,omitempty"`
	RetirementIncome       *float64                `json:"retirement_income,omitempty"`
	OwnsHome               *bool                   `json:"owns_home,omitempty"`
	RelationshipStatus     *RelationshipStatus     `json:"relationship_status,omitempty"`

	// Derived fields, recomputed opportunistically whenever their
	// prerequisite slots are all present. Outputs only, never inputs.
	IncomeNetOfSuper      *float64 `json:"income_net_of_super,omitempty"`
	AfterTaxIncome        *float64 `json:"after_tax_income,omitempty"`
	RetirementBalance     *float64 `json:"retirement_balance,omitempty"`
	RetirementDrawdownAge *int     `json:"retirement_drawdown_age,omitempty"`
}

// Session is the per-conversation state record. One per conversation,
// long-lived, mutated once per turn.
type Session struct {
	ID    string
	Slots Slots

	Intent         Intent
	PreviousIntent Intent
	OriginalIntent Intent

	// AwaitingVariable is the slot the machine is currently blocked on.
	// Empty when idle. At most one outstanding at a time.
	AwaitingVariable VarName

	LastClarificationPrompt string
	SuggestedNextIntent     Intent

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSession returns an empty session in the Idle state.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Intent:    IntentUnknown,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Awaiting reports whether the machine is blocked on a slot.
func (s *Session) Awaiting() bool {
	return s.AwaitingVariable != ""
}

// Clone returns a deep copy. Turns mutate a clone and commit it only on
// success, so an abandoned turn never leaves partial state behind.
func (s *Session) Clone() *Session {
	dup := *s
	dup.Slots = s.Slots.Clone()
	return &dup
}

// Clone returns a deep copy of the slot set.
func (sl Slots) Clone() Slots {
	dup := sl
	dup.CurrentAge = clonePtr(sl.CurrentAge)
	dup.CurrentBalance = clonePtr(sl.CurrentBalance)
	dup.CurrentIncome = clonePtr(sl.CurrentIncome)
	dup.RetirementAge = clonePtr(sl.RetirementAge)
	dup.CurrentFund = clonePtr(sl.CurrentFund)
	dup.NominatedFund = clonePtr(sl.NominatedFund)
	dup.SuperIncluded = clonePtr(sl.SuperIncluded)
	dup.RetirementIncomeOption = clonePtr(sl.RetirementIncomeOption)
	dup.RetirementIncome = clonePtr(sl.RetirementIncome)
	dup.OwnsHome = clonePtr(sl.OwnsHome)
	dup.RelationshipStatus = clonePtr(sl.RelationshipStatus)
	dup.IncomeNetOfSuper = clonePtr(sl.IncomeNetOfSuper)
	dup.AfterTaxIncome = clonePtr(sl.AfterTaxIncome)
	dup.RetirementBalance = clonePtr(sl.RetirementBalance)
	dup.RetirementDrawdownAge = clonePtr(sl.RetirementDrawdownAge)
	return dup
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Ptr returns a pointer to v. Convenience for slot assignment and tests.
func Ptr[T any](v T) *T {
	return &v
}

// HasRetirementAge reports whether a valid retirement age is present.
// A retirement age at or below the current age is treated as absent.
func (sl Slots) HasRetirementAge() bool {
	if sl.RetirementAge == nil {
		return false
	}
	if sl.CurrentAge != nil && *sl.RetirementAge <= *sl.CurrentAge {
		return false
	}
	return true
}

// HasPositive reports whether p is set to a value greater than zero.
func HasPositive(p *float64) bool {
	return p != nil && *p > 0
}
