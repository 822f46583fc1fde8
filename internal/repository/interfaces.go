package repository

import (
	"context"
	"errors"

	"github.com/moneymentor/advisor/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// SessionRepo persists conversation sessions.
type SessionRepo interface {
	Create(ctx context.Context, s *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, s *domain.Session) error
	ListRecent(ctx context.Context, limit int) ([]*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// MessageRepo persists the per-session transcript.
type MessageRepo interface {
	Append(ctx context.Context, m *domain.Message) error
	ListBySession(ctx context.Context, sessionID string) ([]*domain.Message, error)
	LastAssistantMessage(ctx context.Context, sessionID string) (*domain.Message, error)
}
