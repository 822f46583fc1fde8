package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneymentor/advisor/internal/convo"
	"github.com/moneymentor/advisor/internal/db"
	"github.com/moneymentor/advisor/internal/domain"
	"github.com/moneymentor/advisor/internal/funds"
	"github.com/moneymentor/advisor/internal/intelligence"
	"github.com/moneymentor/advisor/internal/repository"
	"github.com/moneymentor/advisor/internal/testutil"
)

// newTestService wires a full stack on in-memory SQLite with no language
// model: deterministic extraction and clarification only.
func newTestService(t *testing.T) AdvisorService {
	t.Helper()

	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	table, err := funds.DefaultTable()
	require.NoError(t, err)

	machine := convo.NewMachine(
		intelligence.NewExtractService(nil),
		intelligence.NewClarifier(nil),
		intelligence.NewFundMatcher(nil, table),
		table,
	)

	return NewAdvisorService(
		machine,
		repository.NewSQLiteSessionRepo(database),
		repository.NewSQLiteMessageRepo(database),
		db.NewSQLiteUnitOfWork(database),
	)
}

func TestStartSession_WritesWelcomeMessage(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	sess, welcome, err := svc.StartSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, WelcomeMessage, welcome)

	transcript, err := svc.Transcript(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, transcript, 1)
	assert.Equal(t, domain.RoleAssistant, transcript[0].Role)
	assert.Equal(t, WelcomeMessage, transcript[0].Content)
}

func TestProcessTurn_UnknownSession(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ProcessTurn(context.Background(), "missing", "hello")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProcessTurn_ClarificationPersistsAcrossTurns(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	sess, _, err := svc.StartSession(ctx)
	require.NoError(t, err)

	result, err := svc.ProcessTurn(ctx, sess.ID, "how much super will I have when I retire?")
	require.NoError(t, err)
	assert.Equal(t, domain.VarCurrentAge, result.Awaiting)
	assert.Equal(t, domain.IntentProjectBalance, result.Intent)
	assert.NotEmpty(t, result.Reply)

	// The awaited slot survives the round trip through storage.
	result, err = svc.ProcessTurn(ctx, sess.ID, "42")
	require.NoError(t, err)
	assert.Equal(t, domain.VarCurrentFund, result.Awaiting)
}

func TestProcessTurn_FullProjectionJourney(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	sess, _, err := svc.StartSession(ctx)
	require.NoError(t, err)

	answers := []string{
		"how much super will I have when I retire?",
		"42",
		"AustralianSuper",
		"150k",
		"67",
		"90k",
		"no",
	}

	var result *TurnResult
	for _, text := range answers {
		result, err = svc.ProcessTurn(ctx, sess.ID, text)
		require.NoError(t, err, "turn %q", text)
	}

	require.NotNil(t, result.Answer)
	assert.Equal(t, domain.IntentProjectBalance, result.Answer.Intent)
	proj, ok := result.Answer.Payload.(convo.ProjectionPayload)
	require.True(t, ok)
	assert.Equal(t, "AustralianSuper", proj.FundName)
	assert.Greater(t, proj.ProjectedBalance, 150_000.0)
	assert.Contains(t, result.Reply, "$")

	// Transcript: welcome + 7 user turns + 7 assistant replies.
	transcript, err := svc.Transcript(ctx, sess.ID)
	require.NoError(t, err)
	assert.Len(t, transcript, 15)
	final := transcript[len(transcript)-1]
	assert.Equal(t, domain.RoleAssistant, final.Role)
	assert.Equal(t, domain.IntentProjectBalance, final.Intent)
}

func TestProcessTurn_StorageFailureRollsBackWholeTurn(t *testing.T) {
	ctx := context.Background()

	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	table, err := funds.DefaultTable()
	require.NoError(t, err)
	machine := convo.NewMachine(
		intelligence.NewExtractService(nil),
		intelligence.NewClarifier(nil),
		intelligence.NewFundMatcher(nil, table),
		table,
	)
	sessions := repository.NewSQLiteSessionRepo(database)
	messages := repository.NewSQLiteMessageRepo(database)

	good := NewAdvisorService(machine, sessions, messages, db.NewSQLiteUnitOfWork(database))
	sess, _, err := good.StartSession(ctx)
	require.NoError(t, err)

	// A turn commit writes session, user message, assistant message.
	// Failing the third write must roll back all three.
	boom := errors.New("disk full")
	failing := NewAdvisorService(machine, sessions, messages, &testutil.FailOnNthExecUoW{
		DB: database, FailOn: 3, Err: boom,
	})

	_, err = failing.ProcessTurn(ctx, sess.ID, "how much super will I have when I retire?")
	require.ErrorIs(t, err, boom)

	transcript, err := good.Transcript(ctx, sess.ID)
	require.NoError(t, err)
	assert.Len(t, transcript, 1)

	stored, err := sessions.GetByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IntentUnknown, stored.Intent)
	assert.Empty(t, stored.AwaitingVariable)
}

func TestListSessions_AndDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, _, err := svc.StartSession(ctx)
	require.NoError(t, err)
	_, _, err = svc.StartSession(ctx)
	require.NoError(t, err)

	sessions, err := svc.ListSessions(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)

	require.NoError(t, svc.DeleteSession(ctx, first.ID))
	sessions, err = svc.ListSessions(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}
