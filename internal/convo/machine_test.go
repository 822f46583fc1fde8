package convo

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneymentor/advisor/internal/domain"
	"github.com/moneymentor/advisor/internal/funds"
	"github.com/moneymentor/advisor/internal/intelligence"
	"github.com/moneymentor/advisor/internal/llm"
	"github.com/moneymentor/advisor/internal/schema"
)

const machineCSV = `FundName,ApproachType,AgeMin,AgeMax,InvestmentFee,AdminFee,MemberFee
Alpha Super,AGE,15,100,0.50%,"[{""min_bal"":0,""max_bal"":1000000000,""rate"":0.20}]",$78
Beta Super,AGE,15,100,0.80%,"[{""min_bal"":0,""max_bal"":1000000000,""rate"":0.00}]",$0
`

// stubExtractor returns a fixed extraction for classify calls and defers
// single-variable answers to the deterministic schema coercion.
type stubExtractor struct {
	extraction *intelligence.Extraction
	err        error
}

func (s *stubExtractor) ClassifyAndExtract(ctx context.Context, userText, previousResponse string) (*intelligence.Extraction, error) {
	if s.err != nil {
		return nil, s.err
	}
	ex := *s.extraction
	ex.Normalize()
	return &ex, nil
}

func (s *stubExtractor) ExtractVariable(ctx context.Context, name domain.VarName, userText string) (any, error) {
	return schema.Convert(name, userText)
}

// stubClarifier phrases prompts mechanically so tests can assert on them.
type stubClarifier struct{}

func (stubClarifier) Prompt(ctx context.Context, req intelligence.ClarifyRequest) string {
	if req.Invalid {
		return fmt.Sprintf("invalid, ask again: %s", req.Variable)
	}
	return fmt.Sprintf("ask: %s", req.Variable)
}

func newTestMachine(t *testing.T, extraction *intelligence.Extraction) *Machine {
	t.Helper()
	table, err := funds.Parse(strings.NewReader(machineCSV))
	require.NoError(t, err)

	var extractor intelligence.ExtractService = &stubExtractor{extraction: extraction}
	if extraction == nil {
		extractor = intelligence.NewExtractService(nil)
	}
	matcher := intelligence.NewFundMatcher(nil, table)
	return NewMachine(extractor, stubClarifier{}, matcher, table)
}

func turnNow(t *testing.T, m *Machine, s *domain.Session, text string) *Outcome {
	t.Helper()
	out, err := m.Turn(context.Background(), s, text, "", time.Now())
	require.NoError(t, err)
	return out
}

func TestTurn_NewIntentAsksFirstMissingVariable(t *testing.T) {
	m := newTestMachine(t, &intelligence.Extraction{Intent: domain.IntentProjectBalance})
	sess := domain.NewSession("s1", time.Now())

	out := turnNow(t, m, sess, "how much super will I have when I retire?")

	assert.Equal(t, domain.VarCurrentAge, out.Awaiting)
	assert.Equal(t, "ask: current_age", out.Prompt)
	assert.Equal(t, domain.IntentProjectBalance, out.Session.Intent)
	assert.Equal(t, domain.VarCurrentAge, out.Session.AwaitingVariable)

	// The input session is untouched; only the clone carries the turn.
	assert.Equal(t, domain.IntentUnknown, sess.Intent)
	assert.False(t, sess.Awaiting())
}

func TestTurn_ExtractedSlotsSkipTheirQuestions(t *testing.T) {
	m := newTestMachine(t, &intelligence.Extraction{
		Intent:      domain.IntentProjectBalance,
		CurrentAge:  domain.Ptr(40),
		CurrentFund: domain.Ptr("Alpha Super"),
	})
	sess := domain.NewSession("s1", time.Now())

	out := turnNow(t, m, sess, "I'm 40 with Alpha Super, project my balance")

	assert.Equal(t, domain.VarCurrentBalance, out.Awaiting)
	assert.Equal(t, domain.Ptr(40), out.Session.Slots.CurrentAge)
	assert.Equal(t, domain.Ptr("Alpha Super"), out.Session.Slots.CurrentFund)
}

func TestTurn_AwaitingSelfLoopFillsAndAdvances(t *testing.T) {
	m := newTestMachine(t, nil)
	sess := domain.NewSession("s1", time.Now())
	sess.Intent = domain.IntentProjectBalance
	sess.OriginalIntent = domain.IntentProjectBalance
	sess.AwaitingVariable = domain.VarCurrentAge

	out := turnNow(t, m, sess, "42")

	assert.Equal(t, domain.Ptr(42), out.Session.Slots.CurrentAge)
	assert.Equal(t, domain.VarCurrentFund, out.Awaiting)
}

func TestTurn_AwaitingRejectsOutOfRangeAndReasks(t *testing.T) {
	m := newTestMachine(t, nil)
	sess := domain.NewSession("s1", time.Now())
	sess.Intent = domain.IntentProjectBalance
	sess.AwaitingVariable = domain.VarCurrentAge

	out := turnNow(t, m, sess, "142")

	assert.Equal(t, domain.VarCurrentAge, out.Awaiting)
	assert.Contains(t, out.Prompt, "invalid")
	assert.Nil(t, out.Session.Slots.CurrentAge)
}

func TestTurn_AwaitingBooleanNonAnswerReasks(t *testing.T) {
	m := newTestMachine(t, nil)
	sess := domain.NewSession("s1", time.Now())
	sess.Intent = domain.IntentProjectBalance
	sess.OriginalIntent = domain.IntentProjectBalance
	sess.Slots = domain.Slots{
		CurrentAge:     domain.Ptr(40),
		CurrentFund:    domain.Ptr("Alpha Super"),
		CurrentBalance: domain.Ptr(150_000.0),
		RetirementAge:  domain.Ptr(67),
		CurrentIncome:  domain.Ptr(90_000.0),
	}
	sess.AwaitingVariable = domain.VarSuperIncluded

	// A non-answer must not coerce to false off the "no" inside "know";
	// the machine keeps awaiting instead of dispatching a projection.
	out := turnNow(t, m, sess, "I don't know")

	assert.Equal(t, domain.VarSuperIncluded, out.Awaiting)
	assert.Nil(t, out.Session.Slots.SuperIncluded)
	assert.Nil(t, out.Answer)
	assert.Contains(t, out.Prompt, "super_included")
}

func TestTurn_AwaitingRetirementAgeMustExceedCurrentAge(t *testing.T) {
	m := newTestMachine(t, nil)
	sess := domain.NewSession("s1", time.Now())
	sess.Intent = domain.IntentProjectBalance
	sess.Slots.CurrentAge = domain.Ptr(50)
	sess.AwaitingVariable = domain.VarRetirementAge

	out := turnNow(t, m, sess, "45")

	assert.Equal(t, domain.VarRetirementAge, out.Awaiting)
	assert.Nil(t, out.Session.Slots.RetirementAge)
}

func TestTurn_AwaitingFundNicknameResolvesToTableName(t *testing.T) {
	m := newTestMachine(t, nil)
	sess := domain.NewSession("s1", time.Now())
	sess.Intent = domain.IntentCompareFeesAll
	sess.Slots.CurrentAge = domain.Ptr(40)
	sess.AwaitingVariable = domain.VarCurrentFund

	out := turnNow(t, m, sess, "alpha")

	require.NotNil(t, out.Session.Slots.CurrentFund)
	assert.Equal(t, "Alpha Super", *out.Session.Slots.CurrentFund)
}

func TestTurn_AwaitingUnknownFundReasks(t *testing.T) {
	m := newTestMachine(t, nil)
	sess := domain.NewSession("s1", time.Now())
	sess.Intent = domain.IntentCompareFeesAll
	sess.AwaitingVariable = domain.VarCurrentFund

	out := turnNow(t, m, sess, "Omega Mega Fund")

	assert.Equal(t, domain.VarCurrentFund, out.Awaiting)
	assert.Nil(t, out.Session.Slots.CurrentFund)
}

func TestTurn_CompletedIntentDispatchesAndSuggests(t *testing.T) {
	m := newTestMachine(t, &intelligence.Extraction{Intent: domain.IntentProjectBalance})
	sess := domain.NewSession("s1", time.Now())
	sess.Slots = domain.Slots{
		CurrentAge:     domain.Ptr(40),
		CurrentFund:    domain.Ptr("Alpha Super"),
		CurrentBalance: domain.Ptr(150_000.0),
		RetirementAge:  domain.Ptr(67),
		CurrentIncome:  domain.Ptr(90_000.0),
		SuperIncluded:  domain.Ptr(false),
	}

	out := turnNow(t, m, sess, "project my balance")

	require.NotNil(t, out.Answer)
	proj, ok := out.Answer.Payload.(ProjectionPayload)
	require.True(t, ok)
	assert.Greater(t, proj.ProjectedBalance, 150_000.0)
	assert.Equal(t, domain.IntentRetirementOutcome, out.Answer.SuggestedIntent)
	assert.Equal(t, domain.IntentRetirementOutcome, out.Session.SuggestedNextIntent)
	assert.False(t, out.Session.Awaiting())
}

func TestTurn_AffirmativeAdoptsSuggestedIntent(t *testing.T) {
	// Extraction would classify "yes please" as unknown; adoption must
	// short-circuit before classification.
	m := newTestMachine(t, &intelligence.Extraction{Intent: domain.IntentUnknown})
	sess := domain.NewSession("s1", time.Now())
	sess.Intent = domain.IntentProjectBalance
	sess.OriginalIntent = domain.IntentProjectBalance
	sess.SuggestedNextIntent = domain.IntentRetirementOutcome
	sess.Slots = domain.Slots{
		CurrentAge:     domain.Ptr(40),
		CurrentFund:    domain.Ptr("Alpha Super"),
		CurrentBalance: domain.Ptr(150_000.0),
		RetirementAge:  domain.Ptr(67),
		CurrentIncome:  domain.Ptr(90_000.0),
		SuperIncluded:  domain.Ptr(false),
	}

	out := turnNow(t, m, sess, "yes please")

	assert.Equal(t, domain.IntentRetirementOutcome, out.Session.Intent)
	assert.Equal(t, domain.VarRetirementIncomeOption, out.Awaiting)
	assert.Empty(t, out.Session.SuggestedNextIntent)
}

func TestTurn_NonAffirmativeLapsesSuggestion(t *testing.T) {
	m := newTestMachine(t, &intelligence.Extraction{Intent: domain.IntentFindCheapest})
	sess := domain.NewSession("s1", time.Now())
	sess.Intent = domain.IntentProjectBalance
	sess.SuggestedNextIntent = domain.IntentRetirementOutcome

	out := turnNow(t, m, sess, "actually, which fund is cheapest?")

	assert.Equal(t, domain.IntentFindCheapest, out.Session.Intent)
	assert.Equal(t, domain.VarCurrentAge, out.Awaiting)
}

func TestTurn_UnknownExtractionNeverRegressesIntent(t *testing.T) {
	m := newTestMachine(t, &intelligence.Extraction{Intent: domain.IntentUnknown})
	sess := domain.NewSession("s1", time.Now())
	sess.Intent = domain.IntentProjectBalance
	sess.OriginalIntent = domain.IntentProjectBalance

	out := turnNow(t, m, sess, "hmm what do you think")

	assert.Equal(t, domain.IntentProjectBalance, out.Session.Intent)
}

func TestTurn_UpdateVariableMergePreservesUntouchedSlots(t *testing.T) {
	m := newTestMachine(t, &intelligence.Extraction{
		Intent:        domain.IntentUpdateVariable,
		RetirementAge: domain.Ptr(67),
	})
	sess := domain.NewSession("s1", time.Now())
	sess.Intent = domain.IntentProjectBalance
	sess.OriginalIntent = domain.IntentProjectBalance
	sess.Slots.CurrentAge = domain.Ptr(40)
	sess.Slots.CurrentFund = domain.Ptr("Alpha Super")

	out := turnNow(t, m, sess, "what if I retire at 67 instead?")

	assert.Equal(t, domain.Ptr(67), out.Session.Slots.RetirementAge)
	assert.Equal(t, domain.Ptr(40), out.Session.Slots.CurrentAge)
	assert.Equal(t, domain.Ptr("Alpha Super"), out.Session.Slots.CurrentFund)
	// The detour resumes collecting for the original intent.
	assert.Equal(t, domain.VarCurrentBalance, out.Awaiting)
}

func TestTurn_UpdateVariableRerunsOriginalIntentWhenComplete(t *testing.T) {
	m := newTestMachine(t, &intelligence.Extraction{
		Intent:        domain.IntentUpdateVariable,
		RetirementAge: domain.Ptr(70),
	})
	sess := domain.NewSession("s1", time.Now())
	sess.Intent = domain.IntentProjectBalance
	sess.OriginalIntent = domain.IntentProjectBalance
	sess.Slots = domain.Slots{
		CurrentAge:     domain.Ptr(40),
		CurrentFund:    domain.Ptr("Alpha Super"),
		CurrentBalance: domain.Ptr(150_000.0),
		RetirementAge:  domain.Ptr(67),
		CurrentIncome:  domain.Ptr(90_000.0),
		SuperIncluded:  domain.Ptr(false),
	}

	out := turnNow(t, m, sess, "what if I retire at 70 instead?")

	require.NotNil(t, out.Answer)
	assert.Equal(t, domain.IntentProjectBalance, out.Answer.Intent)
	assert.Equal(t, domain.Ptr(70), out.Session.Slots.RetirementAge)
	// Intent snaps back to the resumed one after the detour.
	assert.Equal(t, domain.IntentProjectBalance, out.Session.Intent)
}

func TestTurn_ExtractionNeverNullsCollectedSlots(t *testing.T) {
	m := newTestMachine(t, &intelligence.Extraction{
		Intent:        domain.IntentProjectBalance,
		CurrentAge:    nil,
		CurrentIncome: domain.Ptr(0.0),
	})
	sess := domain.NewSession("s1", time.Now())
	sess.Intent = domain.IntentProjectBalance
	sess.Slots.CurrentAge = domain.Ptr(40)
	sess.Slots.CurrentIncome = domain.Ptr(90_000.0)

	out := turnNow(t, m, sess, "ok")

	assert.Equal(t, domain.Ptr(40), out.Session.Slots.CurrentAge)
	assert.Equal(t, domain.Ptr(90_000.0), out.Session.Slots.CurrentIncome)
}

func TestTurn_DerivedSlotsRecomputeOnceInputsArrive(t *testing.T) {
	m := newTestMachine(t, nil)
	sess := domain.NewSession("s1", time.Now())
	sess.Intent = domain.IntentProjectBalance
	sess.Slots = domain.Slots{
		CurrentAge:     domain.Ptr(40),
		CurrentFund:    domain.Ptr("Alpha Super"),
		CurrentBalance: domain.Ptr(150_000.0),
		RetirementAge:  domain.Ptr(67),
		CurrentIncome:  domain.Ptr(90_000.0),
	}
	sess.AwaitingVariable = domain.VarSuperIncluded

	out := turnNow(t, m, sess, "no, that's on top of my salary")

	require.NotNil(t, out.Session.Slots.SuperIncluded)
	assert.False(t, *out.Session.Slots.SuperIncluded)
	require.NotNil(t, out.Session.Slots.IncomeNetOfSuper)
	assert.InDelta(t, 90_000.0, *out.Session.Slots.IncomeNetOfSuper, 0.01)
	require.NotNil(t, out.Session.Slots.AfterTaxIncome)
	assert.Less(t, *out.Session.Slots.AfterTaxIncome, 90_000.0)
	require.NotNil(t, out.Session.Slots.RetirementBalance)
}

func TestTurn_RetirementIncomeDollarAnswerBecomesCustomOption(t *testing.T) {
	m := newTestMachine(t, nil)
	sess := domain.NewSession("s1", time.Now())
	sess.Intent = domain.IntentRetirementOutcome
	sess.OriginalIntent = domain.IntentRetirementOutcome
	sess.Slots = domain.Slots{
		CurrentAge:     domain.Ptr(40),
		CurrentFund:    domain.Ptr("Alpha Super"),
		CurrentBalance: domain.Ptr(150_000.0),
		RetirementAge:  domain.Ptr(67),
		CurrentIncome:  domain.Ptr(90_000.0),
		SuperIncluded:  domain.Ptr(false),
	}
	sess.AwaitingVariable = domain.VarRetirementIncomeOption

	out := turnNow(t, m, sess, "$55k")

	require.NotNil(t, out.Session.Slots.RetirementIncomeOption)
	assert.Equal(t, domain.IncomeCustom, *out.Session.Slots.RetirementIncomeOption)
	assert.Equal(t, domain.Ptr(55_000.0), out.Session.Slots.RetirementIncome)
	require.NotNil(t, out.Answer)
	outcome, ok := out.Answer.Payload.(OutcomePayload)
	require.True(t, ok)
	assert.InDelta(t, 55_000.0, outcome.AnnualIncome, 0.01)
}

func TestTurn_ClassifyErrorLeavesSessionUntouched(t *testing.T) {
	table, err := funds.Parse(strings.NewReader(machineCSV))
	require.NoError(t, err)
	m := NewMachine(
		&stubExtractor{err: llm.ErrRetryExhausted},
		stubClarifier{},
		intelligence.NewFundMatcher(nil, table),
		table,
	)
	sess := domain.NewSession("s1", time.Now())
	sess.Intent = domain.IntentProjectBalance
	sess.Slots.CurrentAge = domain.Ptr(40)

	_, err = m.Turn(context.Background(), sess, "project it", "", time.Now())

	require.Error(t, err)
	assert.Equal(t, domain.IntentProjectBalance, sess.Intent)
	assert.Equal(t, domain.Ptr(40), sess.Slots.CurrentAge)
}
