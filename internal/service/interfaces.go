// Package service exposes the application use cases: running one
// conversation turn end to end and managing stored sessions.
package service

import (
	"context"

	"github.com/moneymentor/advisor/internal/convo"
	"github.com/moneymentor/advisor/internal/domain"
)

// TurnResult is the outcome of one processed user message.
type TurnResult struct {
	SessionID string
	Reply     string

	// Awaiting names the slot the assistant is now blocked on; empty
	// when the turn produced an answer.
	Awaiting domain.VarName

	// Intent is the active intent after the turn.
	Intent domain.Intent

	// Answer carries the structured payload when an intent completed.
	Answer *convo.Answer
}

// AdvisorService runs the conversation loop over persisted sessions.
type AdvisorService interface {
	// StartSession creates a fresh session and returns it with the
	// opening assistant message already in the transcript.
	StartSession(ctx context.Context) (*domain.Session, string, error)

	// ProcessTurn applies one user message to the session. Session
	// state and both transcript entries commit atomically; on error
	// the stored session is unchanged.
	ProcessTurn(ctx context.Context, sessionID, userText string) (*TurnResult, error)

	Transcript(ctx context.Context, sessionID string) ([]*domain.Message, error)
	ListSessions(ctx context.Context, limit int) ([]*domain.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
}
