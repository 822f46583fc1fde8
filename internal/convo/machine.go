package convo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/moneymentor/advisor/internal/domain"
	"github.com/moneymentor/advisor/internal/finance"
	"github.com/moneymentor/advisor/internal/funds"
	"github.com/moneymentor/advisor/internal/intelligence"
	"github.com/moneymentor/advisor/internal/schema"
)

// Machine drives the per-session dialogue: either Idle or blocked on a
// single awaited variable, with no terminal state.
type Machine struct {
	extractor intelligence.ExtractService
	clarifier intelligence.Clarifier
	matcher   intelligence.FundMatcher
	table     *funds.Table
	assume    finance.EconomicAssumptions
	pension   finance.PensionParams
}

// NewMachine wires the machine with default economic and pension
// parameters.
func NewMachine(extractor intelligence.ExtractService, clarifier intelligence.Clarifier, matcher intelligence.FundMatcher, table *funds.Table) *Machine {
	return &Machine{
		extractor: extractor,
		clarifier: clarifier,
		matcher:   matcher,
		table:     table,
		assume:    finance.DefaultAssumptions(),
		pension:   finance.DefaultPensionParams(),
	}
}

// Answer is the structured payload produced when an intent completes.
type Answer struct {
	Intent  domain.Intent
	Payload any

	// SuggestedIntent chains a natural follow-up; it activates only if
	// the next turn is affirmative.
	SuggestedIntent domain.Intent
	SuggestionLead  string
}

// Outcome is the result of one turn: either a clarification question
// (Awaiting set) or a completed answer. The returned Session is a
// mutated clone; callers commit it only on success, keeping turns
// atomic.
type Outcome struct {
	Session  *domain.Session
	Awaiting domain.VarName
	Prompt   string
	Answer   *Answer
}

// Turn processes one user message against the session. The passed
// session is never mutated; all changes land on the clone inside the
// returned Outcome.
func (m *Machine) Turn(ctx context.Context, sess *domain.Session, userText, previousResponse string, now time.Time) (*Outcome, error) {
	s := sess.Clone()
	s.UpdatedAt = now

	if s.Awaiting() {
		return m.fillAwaited(ctx, s, userText)
	}
	return m.classifyTurn(ctx, s, userText, previousResponse)
}

// fillAwaited handles the AwaitingVariable self-loop: coerce the answer,
// validate it, and either advance or re-ask.
func (m *Machine) fillAwaited(ctx context.Context, s *domain.Session, userText string) (*Outcome, error) {
	v := s.AwaitingVariable

	value, err := m.extractor.ExtractVariable(ctx, v, userText)
	if err != nil {
		return m.reask(ctx, s, v, rangeHint(v, err)), nil
	}

	if hint, ok := m.validateAwaited(s, v, value); !ok {
		return m.reask(ctx, s, v, hint), nil
	}

	switch v {
	case domain.VarCurrentFund, domain.VarNominatedFund:
		raw, _ := value.(string)
		name, ok := m.matcher.Match(ctx, raw)
		if !ok {
			return m.reask(ctx, s, v, fmt.Sprintf("I couldn't find a super fund matching %q.", raw)), nil
		}
		value = name

	case domain.VarRetirementIncomeOption:
		// A dollar figure in place of an option means a custom income.
		if str, isStr := value.(string); isStr && !domain.ValidRetirementIncomeOptions[str] {
			amount, convErr := schema.ParseCurrency(str)
			if convErr != nil || amount <= 0 {
				return m.reask(ctx, s, v, "You can pick one of the standard options or name a dollar amount."), nil
			}
			s.Slots.RetirementIncome = &amount
			value = string(domain.IncomeCustom)
		}
	}

	if err := s.Slots.Set(v, value); err != nil {
		return nil, fmt.Errorf("storing slot %s: %w", v, err)
	}

	s.AwaitingVariable = ""
	s.LastClarificationPrompt = ""
	return m.advance(ctx, s, v, false)
}

// classifyTurn handles the Idle state: suggestion adoption or a fresh
// classify-and-extract pass.
func (m *Machine) classifyTurn(ctx context.Context, s *domain.Session, userText, previousResponse string) (*Outcome, error) {
	if s.SuggestedNextIntent != "" && isAffirmative(userText) {
		s.PreviousIntent = s.Intent
		s.Intent = s.SuggestedNextIntent
		s.OriginalIntent = s.Intent
		s.SuggestedNextIntent = ""
		return m.advance(ctx, s, "", true)
	}
	// An unconsumed suggestion lapses as soon as the user moves on.
	s.SuggestedNextIntent = ""

	extraction, err := m.extractor.ClassifyAndExtract(ctx, userText, previousResponse)
	if err != nil {
		return nil, fmt.Errorf("classifying turn: %w", err)
	}

	isNew := false
	switch {
	case extraction.Intent == domain.IntentUpdateVariable:
		if s.Intent != domain.IntentUnknown && s.Intent != domain.IntentUpdateVariable {
			s.OriginalIntent = s.Intent
		}
		s.PreviousIntent = s.Intent
		s.Intent = domain.IntentUpdateVariable

	case extraction.Intent == domain.IntentUnknown:
		// Never regress an established intent to unknown.

	case extraction.Intent != s.Intent:
		s.PreviousIntent = s.Intent
		s.Intent = extraction.Intent
		s.OriginalIntent = extraction.Intent
		isNew = true
	}

	m.mergeExtraction(ctx, s, extraction)
	return m.advance(ctx, s, "", isNew)
}

// mergeExtraction folds explicitly extracted values into the slots.
// Only non-nil, in-range values land; nothing already collected is ever
// zeroed or nulled.
func (m *Machine) mergeExtraction(ctx context.Context, s *domain.Session, e *intelligence.Extraction) {
	sl := &s.Slots

	if e.CurrentAge != nil && schema.ValidateAge(*e.CurrentAge) == nil {
		sl.CurrentAge = domain.Ptr(*e.CurrentAge)
	}
	if e.RetirementAge != nil && *e.RetirementAge > 0 && *e.RetirementAge <= schema.MaxValidAge {
		sl.RetirementAge = domain.Ptr(*e.RetirementAge)
	}
	if e.CurrentBalance != nil && *e.CurrentBalance > 0 {
		sl.CurrentBalance = domain.Ptr(*e.CurrentBalance)
	}
	if e.CurrentIncome != nil && *e.CurrentIncome > 0 {
		sl.CurrentIncome = domain.Ptr(*e.CurrentIncome)
	}
	if e.SuperIncluded != nil {
		sl.SuperIncluded = domain.Ptr(*e.SuperIncluded)
	}
	if e.RetirementBalance != nil && *e.RetirementBalance > 0 {
		sl.RetirementBalance = domain.Ptr(*e.RetirementBalance)
	}
	if e.RetirementIncome != nil && *e.RetirementIncome > 0 {
		sl.RetirementIncome = domain.Ptr(*e.RetirementIncome)
	}
	if e.RetirementIncomeOption != nil && domain.ValidRetirementIncomeOptions[*e.RetirementIncomeOption] {
		opt := domain.RetirementIncomeOption(*e.RetirementIncomeOption)
		sl.RetirementIncomeOption = &opt
	}
	if e.OwnsHome != nil {
		sl.OwnsHome = domain.Ptr(*e.OwnsHome)
	}
	if e.RelationshipStatus != nil {
		status := domain.RelationshipStatus(*e.RelationshipStatus)
		sl.RelationshipStatus = &status
	}

	if e.CurrentFund != nil && *e.CurrentFund != "" {
		sl.CurrentFund = domain.Ptr(m.canonicalFund(ctx, *e.CurrentFund))
	}
	if e.NominatedFund != nil && *e.NominatedFund != "" {
		sl.NominatedFund = domain.Ptr(m.canonicalFund(ctx, *e.NominatedFund))
	}
}

// canonicalFund resolves a fund mention to its table name when
// possible. Unresolvable names are kept raw; dispatch surfaces them as
// an explanatory fund-not-found answer.
func (m *Machine) canonicalFund(ctx context.Context, raw string) string {
	if name, ok := m.matcher.Match(ctx, raw); ok {
		return name
	}
	return raw
}

// advance recomputes derived slots, asks for the next missing variable,
// or dispatches the completed intent.
func (m *Machine) advance(ctx context.Context, s *domain.Session, prevVar domain.VarName, isNew bool) (*Outcome, error) {
	m.recomputeDerived(ctx, &s.Slots)

	intent := effectiveIntent(s)
	if missing := Missing(intent, s.Slots); len(missing) > 0 {
		head := missing[0]
		prompt := m.clarifier.Prompt(ctx, intelligence.ClarifyRequest{
			Variable:    head,
			Intent:      intent,
			IsNewIntent: isNew,
			PreviousVar: prevVar,
		})
		s.AwaitingVariable = head
		s.LastClarificationPrompt = prompt
		return &Outcome{Session: s, Awaiting: head, Prompt: prompt}, nil
	}

	payload := m.dispatch(ctx, intent, s.Slots)
	if s.Intent == domain.IntentUpdateVariable {
		// The detour is over; the resumed intent becomes current again.
		s.Intent = intent
	}

	answer := &Answer{Intent: intent, Payload: payload}
	if _, notFound := payload.(FundNotFoundPayload); !notFound {
		if next, ok := suggestions[intent]; ok {
			s.SuggestedNextIntent = next
			answer.SuggestedIntent = next
			answer.SuggestionLead = suggestionLeads[next]
		}
	}
	return &Outcome{Session: s, Answer: answer}, nil
}

func (m *Machine) reask(ctx context.Context, s *domain.Session, v domain.VarName, hint string) *Outcome {
	prompt := m.clarifier.Prompt(ctx, intelligence.ClarifyRequest{
		Variable: v,
		Intent:   effectiveIntent(s),
		Invalid:  true,
		Hint:     hint,
	})
	s.LastClarificationPrompt = prompt
	return &Outcome{Session: s, Awaiting: v, Prompt: prompt}
}

// validateAwaited applies domain validation beyond type coercion.
func (m *Machine) validateAwaited(s *domain.Session, v domain.VarName, value any) (string, bool) {
	switch v {
	case domain.VarCurrentAge:
		age, _ := value.(int)
		if schema.ValidateAge(age) != nil {
			return fmt.Sprintf("Ages between %d and %d are supported.", schema.MinValidAge, schema.MaxValidAge), false
		}
	case domain.VarRetirementAge:
		age, _ := value.(int)
		if s.Slots.CurrentAge != nil {
			if schema.ValidateRetirementAge(age, *s.Slots.CurrentAge) != nil {
				return "Your retirement age needs to be later than your current age.", false
			}
		} else if age <= 0 || age > schema.MaxValidAge {
			return "", false
		}
	case domain.VarRelationshipStatus:
		str, _ := value.(string)
		if str != string(domain.StatusSingle) && str != string(domain.StatusCouple) {
			return "Just 'single' or 'couple' works here.", false
		}
	}
	return "", true
}

// effectiveIntent resolves the intent to run: an update_variable detour
// re-runs whatever real intent was active before it.
func effectiveIntent(s *domain.Session) domain.Intent {
	if s.Intent != domain.IntentUpdateVariable {
		return s.Intent
	}
	if s.OriginalIntent != "" && s.OriginalIntent != domain.IntentUnknown && s.OriginalIntent != domain.IntentUpdateVariable {
		return s.OriginalIntent
	}
	return domain.IntentUnknown
}

// rangeHint maps a coercion error to a friendlier constraint hint.
func rangeHint(v domain.VarName, err error) string {
	if !errors.Is(err, schema.ErrOutOfRange) {
		return ""
	}
	switch v {
	case domain.VarCurrentAge, domain.VarRetirementAge:
		return fmt.Sprintf("Ages between %d and %d are supported.", schema.MinValidAge, schema.MaxValidAge)
	default:
		return "The amount needs to be a non-negative number."
	}
}
