package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id                TEXT PRIMARY KEY,
		intent            TEXT NOT NULL DEFAULT 'unknown',
		previous_intent   TEXT NOT NULL DEFAULT '',
		original_intent   TEXT NOT NULL DEFAULT '',
		awaiting_variable TEXT NOT NULL DEFAULT '',
		last_prompt       TEXT NOT NULL DEFAULT '',
		slots             TEXT NOT NULL DEFAULT '{}',
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at)`,

	`CREATE TABLE IF NOT EXISTS messages (
		id         TEXT PRIMARY KEY,
		session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		role       TEXT NOT NULL CHECK(role IN ('user','assistant')),
		content    TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_created ON messages(created_at)`,

	// Intent chaining: remember the offered follow-up across turns.
	`ALTER TABLE sessions ADD COLUMN suggested_next_intent TEXT NOT NULL DEFAULT ''`,

	// Tag assistant messages with the intent that produced them.
	`ALTER TABLE messages ADD COLUMN intent TEXT NOT NULL DEFAULT ''`,
}
