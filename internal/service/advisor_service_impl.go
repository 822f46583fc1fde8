package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/moneymentor/advisor/internal/convo"
	"github.com/moneymentor/advisor/internal/db"
	"github.com/moneymentor/advisor/internal/domain"
	"github.com/moneymentor/advisor/internal/repository"
)

const genericApology = "Sorry, I'm having trouble reaching my language model right now. " +
	"Nothing you've told me has been lost. Please try again in a moment."

type advisorService struct {
	machine  *convo.Machine
	sessions repository.SessionRepo
	messages repository.MessageRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
	now      func() time.Time
}

// NewAdvisorService wires the dialogue machine to persistent storage.
func NewAdvisorService(machine *convo.Machine, sessions repository.SessionRepo, messages repository.MessageRepo, uow db.UnitOfWork, observers ...UseCaseObserver) AdvisorService {
	return &advisorService{
		machine:  machine,
		sessions: sessions,
		messages: messages,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *advisorService) StartSession(ctx context.Context) (*domain.Session, string, error) {
	now := s.now()
	sess := domain.NewSession(uuid.New().String(), now)

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteSessionRepo(tx).Create(ctx, sess); err != nil {
			return err
		}
		return repository.NewSQLiteMessageRepo(tx).Append(ctx, &domain.Message{
			ID:        uuid.New().String(),
			SessionID: sess.ID,
			Role:      domain.RoleAssistant,
			Content:   WelcomeMessage,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, "", err
	}
	return sess, WelcomeMessage, nil
}

func (s *advisorService) ProcessTurn(ctx context.Context, sessionID, userText string) (*TurnResult, error) {
	started := s.now()

	result, err := s.processTurn(ctx, sessionID, userText)

	event := UseCaseEvent{
		Name:      "process_turn",
		Duration:  s.now().Sub(started),
		Success:   err == nil,
		Err:       err,
		StartedAt: started,
		Fields:    map[string]any{"session_id": sessionID},
	}
	if result != nil {
		event.Fields["intent"] = string(result.Intent)
		event.Fields["awaiting"] = string(result.Awaiting)
	}
	s.observer.ObserveUseCase(ctx, event)

	return result, err
}

func (s *advisorService) processTurn(ctx context.Context, sessionID, userText string) (*TurnResult, error) {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	previousResponse := ""
	if last, err := s.messages.LastAssistantMessage(ctx, sessionID); err == nil {
		previousResponse = last.Content
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	now := s.now()
	outcome, err := s.machine.Turn(ctx, sess, userText, previousResponse, now)
	if err != nil {
		// The stored session is untouched; surface a reply the caller can
		// show while keeping the error for logs.
		return &TurnResult{
			SessionID: sessionID,
			Reply:     genericApology,
			Intent:    sess.Intent,
			Awaiting:  sess.AwaitingVariable,
		}, err
	}

	reply := outcome.Prompt
	if outcome.Answer != nil {
		reply = renderAnswer(outcome.Answer)
	}

	// Session state and both transcript entries commit together, so a
	// storage failure can never leave a half-recorded turn.
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx)
		txMessages := repository.NewSQLiteMessageRepo(tx)

		if err := txSessions.Save(ctx, outcome.Session); err != nil {
			return err
		}
		if err := txMessages.Append(ctx, &domain.Message{
			ID:        uuid.New().String(),
			SessionID: sessionID,
			Role:      domain.RoleUser,
			Content:   userText,
			CreatedAt: now,
		}); err != nil {
			return err
		}

		assistant := &domain.Message{
			ID:        uuid.New().String(),
			SessionID: sessionID,
			Role:      domain.RoleAssistant,
			Content:   reply,
			CreatedAt: now,
		}
		if outcome.Answer != nil {
			assistant.Intent = outcome.Answer.Intent
		}
		return txMessages.Append(ctx, assistant)
	})
	if err != nil {
		return nil, err
	}

	return &TurnResult{
		SessionID: sessionID,
		Reply:     reply,
		Awaiting:  outcome.Awaiting,
		Intent:    outcome.Session.Intent,
		Answer:    outcome.Answer,
	}, nil
}

func (s *advisorService) Transcript(ctx context.Context, sessionID string) ([]*domain.Message, error) {
	return s.messages.ListBySession(ctx, sessionID)
}

func (s *advisorService) ListSessions(ctx context.Context, limit int) ([]*domain.Session, error) {
	return s.sessions.ListRecent(ctx, limit)
}

func (s *advisorService) DeleteSession(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}
