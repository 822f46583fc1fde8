package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/moneymentor/advisor/internal/db"
	"github.com/moneymentor/advisor/internal/domain"
)

// SQLiteSessionRepo implements SessionRepo using a SQLite database.
// It accepts a db.DBTX so the same repository works inside and outside
// a transaction.
type SQLiteSessionRepo struct {
	db db.DBTX
}

// NewSQLiteSessionRepo creates a new SQLiteSessionRepo.
func NewSQLiteSessionRepo(dbtx db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: dbtx}
}

func (r *SQLiteSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	slots, err := json.Marshal(s.Slots)
	if err != nil {
		return fmt.Errorf("marshaling slots: %w", err)
	}

	query := `INSERT INTO sessions (id, intent, previous_intent, original_intent,
			awaiting_variable, last_prompt, suggested_next_intent, slots, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		s.ID,
		string(s.Intent),
		string(s.PreviousIntent),
		string(s.OriginalIntent),
		string(s.AwaitingVariable),
		s.LastClarificationPrompt,
		string(s.SuggestedNextIntent),
		string(slots),
		s.CreatedAt.UTC().Format(time.RFC3339),
		s.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	query := `SELECT id, intent, previous_intent, original_intent,
			awaiting_variable, last_prompt, suggested_next_intent, slots, created_at, updated_at
		FROM sessions WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanSession(row)
}

func (r *SQLiteSessionRepo) Save(ctx context.Context, s *domain.Session) error {
	slots, err := json.Marshal(s.Slots)
	if err != nil {
		return fmt.Errorf("marshaling slots: %w", err)
	}

	query := `UPDATE sessions SET intent = ?, previous_intent = ?, original_intent = ?,
			awaiting_variable = ?, last_prompt = ?, suggested_next_intent = ?, slots = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		string(s.Intent),
		string(s.PreviousIntent),
		string(s.OriginalIntent),
		string(s.AwaitingVariable),
		s.LastClarificationPrompt,
		string(s.SuggestedNextIntent),
		string(slots),
		s.UpdatedAt.UTC().Format(time.RFC3339),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking session update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %s: %w", s.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteSessionRepo) ListRecent(ctx context.Context, limit int) ([]*domain.Session, error) {
	query := `SELECT id, intent, previous_intent, original_intent,
			awaiting_variable, last_prompt, suggested_next_intent, slots, created_at, updated_at
		FROM sessions ORDER BY updated_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		s, err := r.scanSessionRow(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

func (r *SQLiteSessionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepo) scanSession(row *sql.Row) (*domain.Session, error) {
	var s domain.Session
	var intent, prevIntent, origIntent, awaiting, suggested, slotsJSON string
	var createdAtStr, updatedAtStr string

	err := row.Scan(&s.ID, &intent, &prevIntent, &origIntent,
		&awaiting, &s.LastClarificationPrompt, &suggested, &slotsJSON,
		&createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	return r.populateSession(&s, intent, prevIntent, origIntent, awaiting, suggested, slotsJSON, createdAtStr, updatedAtStr)
}

func (r *SQLiteSessionRepo) scanSessionRow(rows *sql.Rows) (*domain.Session, error) {
	var s domain.Session
	var intent, prevIntent, origIntent, awaiting, suggested, slotsJSON string
	var createdAtStr, updatedAtStr string

	err := rows.Scan(&s.ID, &intent, &prevIntent, &origIntent,
		&awaiting, &s.LastClarificationPrompt, &suggested, &slotsJSON,
		&createdAtStr, &updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("scanning session row: %w", err)
	}

	return r.populateSession(&s, intent, prevIntent, origIntent, awaiting, suggested, slotsJSON, createdAtStr, updatedAtStr)
}

// populateSession fills in parsed fields after scanning raw strings.
func (r *SQLiteSessionRepo) populateSession(s *domain.Session, intent, prevIntent, origIntent, awaiting, suggested, slotsJSON, createdAtStr, updatedAtStr string) (*domain.Session, error) {
	s.Intent = domain.Intent(intent)
	s.PreviousIntent = domain.Intent(prevIntent)
	s.OriginalIntent = domain.Intent(origIntent)
	s.AwaitingVariable = domain.VarName(awaiting)
	s.SuggestedNextIntent = domain.Intent(suggested)

	if err := json.Unmarshal([]byte(slotsJSON), &s.Slots); err != nil {
		return nil, fmt.Errorf("unmarshaling slots: %w", err)
	}

	var parseErr error
	s.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	s.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return s, nil
}
