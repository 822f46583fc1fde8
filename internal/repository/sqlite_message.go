package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/moneymentor/advisor/internal/db"
	"github.com/moneymentor/advisor/internal/domain"
)

// SQLiteMessageRepo implements MessageRepo using a SQLite database.
type SQLiteMessageRepo struct {
	db db.DBTX
}

// NewSQLiteMessageRepo creates a new SQLiteMessageRepo.
func NewSQLiteMessageRepo(dbtx db.DBTX) *SQLiteMessageRepo {
	return &SQLiteMessageRepo{db: dbtx}
}

func (r *SQLiteMessageRepo) Append(ctx context.Context, m *domain.Message) error {
	query := `INSERT INTO messages (id, session_id, role, content, intent, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.SessionID,
		string(m.Role),
		m.Content,
		string(m.Intent),
		m.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}
	return nil
}

func (r *SQLiteMessageRepo) ListBySession(ctx context.Context, sessionID string) ([]*domain.Message, error) {
	// rowid preserves insertion order even when two messages in the same
	// turn share a timestamp.
	query := `SELECT id, session_id, role, content, intent, created_at
		FROM messages WHERE session_id = ? ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}
	return messages, nil
}

func (r *SQLiteMessageRepo) LastAssistantMessage(ctx context.Context, sessionID string) (*domain.Message, error) {
	query := `SELECT id, session_id, role, content, intent, created_at
		FROM messages WHERE session_id = ? AND role = 'assistant'
		ORDER BY rowid DESC LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, sessionID)

	var m domain.Message
	var role, intent, createdAtStr string
	err := row.Scan(&m.ID, &m.SessionID, &role, &m.Content, &intent, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("assistant message: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning message: %w", err)
	}
	return populateMessage(&m, role, intent, createdAtStr)
}

func scanMessage(rows *sql.Rows) (*domain.Message, error) {
	var m domain.Message
	var role, intent, createdAtStr string
	if err := rows.Scan(&m.ID, &m.SessionID, &role, &m.Content, &intent, &createdAtStr); err != nil {
		return nil, fmt.Errorf("scanning message row: %w", err)
	}
	return populateMessage(&m, role, intent, createdAtStr)
}

func populateMessage(m *domain.Message, role, intent, createdAtStr string) (*domain.Message, error) {
	m.Role = domain.MessageRole(role)
	m.Intent = domain.Intent(intent)

	var err error
	m.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return m, nil
}
