package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"timeledger/internal/modules/ledger/domain"
	ledgerout "timeledger/internal/modules/ledger/port/out"

	_ "modernc.org/sqlite"
)

var _ ledgerout.SessionIndex = (*SQLiteSessionIndex)(nil)

type SQLiteSessionIndex struct {
	db *sql.DB
}

func NewSQLiteSessionIndex(dbPath string) (*SQLiteSessionIndex, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	index := &SQLiteSessionIndex{db: db}
	if err := index.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return index, nil
}

func (s *SQLiteSessionIndex) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  category TEXT NOT NULL,
  start_time TEXT NOT NULL,
  end_time TEXT NOT NULL,
  duration_minutes REAL NOT NULL,
  day TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_day ON sessions(day);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

func (s *SQLiteSessionIndex) Close() error {
	return s.db.Close()
}

func (s *SQLiteSessionIndex) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("reset sessions: %w", err)
	}
	return nil
}

func (s *SQLiteSessionIndex) UpsertSession(ctx context.Context, session domain.Session) error {
	const stmt = `
INSERT INTO sessions (id, category, start_time, end_time, duration_minutes, day)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  category=excluded.category,
  start_time=excluded.start_time,
  end_time=excluded.end_time,
  duration_minutes=excluded.duration_minutes,
  day=excluded.day;
`
	_, err := s.db.ExecContext(ctx, stmt,
		sessionKey(session),
		string(session.Category),
		session.StartTime.UTC().Format(time.RFC3339Nano),
		session.EndTime.UTC().Format(time.RFC3339Nano),
		session.DurationMinutes,
		session.StartTime.UTC().Format(time.DateOnly),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// sessionKey falls back to the start instant for records written before
// sessions carried ids.
func sessionKey(session domain.Session) string {
	if session.ID != "" {
		return session.ID
	}
	return string(session.Category) + "@" + session.StartTime.UTC().Format(time.RFC3339Nano)
}
