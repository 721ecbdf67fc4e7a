package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// timeFormat is how timestamps are stored (ISO 8601, UTC).
const timeFormat = time.RFC3339

func nowUTC() string { return time.Now().UTC().Format(timeFormat) }

func parseTime(s string) time.Time {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SqlStore implements Store with SQLite.
type SqlStore struct {
	db *sql.DB
}

// Open opens or creates a SQLite DB at path and runs migrations.
// Creates the parent directory (e.g. .echobot) if it does not exist.
func Open(path string) (*SqlStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	s := &SqlStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SqlStore) migrate() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	var v int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := s.db.Exec("INSERT INTO schema_version(version) VALUES(?)", schemaVersion); err != nil {
			return fmt.Errorf("set schema version: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if v != schemaVersion {
		return fmt.Errorf("unknown schema version %d", v)
	}
	return nil
}

// Close closes the underlying database.
func (s *SqlStore) Close() error { return s.db.Close() }

// CreateSession inserts a new session. Zero timestamps default to now.
func (s *SqlStore) CreateSession(sess *Session) error {
	created := sess.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	updated := sess.UpdatedAt
	if updated.IsZero() {
		updated = created
	}
	_, err := s.db.Exec(
		"INSERT INTO sessions(id, name, created_at, updated_at) VALUES(?, ?, ?, ?)",
		sess.ID, sess.Name, created.Format(timeFormat), updated.Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetSession returns a session by ID, or ErrNotFound.
func (s *SqlStore) GetSession(id string) (*Session, error) {
	var sess Session
	var created, updated string
	err := s.db.QueryRow(
		"SELECT id, name, created_at, updated_at FROM sessions WHERE id = ?", id,
	).Scan(&sess.ID, &sess.Name, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	sess.CreatedAt = parseTime(created)
	sess.UpdatedAt = parseTime(updated)
	return &sess, nil
}

// ListSessions returns all sessions in creation order.
func (s *SqlStore) ListSessions() ([]*Session, error) {
	rows, err := s.db.Query("SELECT id, name, created_at, updated_at FROM sessions ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		var sess Session
		var created, updated string
		if err := rows.Scan(&sess.ID, &sess.Name, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.CreatedAt = parseTime(created)
		sess.UpdatedAt = parseTime(updated)
		sessions = append(sessions, &sess)
	}
	return sessions, rows.Err()
}

// RenameSession updates a session's name.
func (s *SqlStore) RenameSession(id, name string) error {
	res, err := s.db.Exec(
		"UPDATE sessions SET name = ?, updated_at = ? WHERE id = ?",
		name, nowUTC(), id,
	)
	if err != nil {
		return fmt.Errorf("rename session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rename session: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSession removes a session and its messages. Clears the active
// pointer if it referenced the deleted session.
func (s *SqlStore) DeleteSession(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE active_session SET session_id = NULL WHERE session_id = ?", id); err != nil {
		return fmt.Errorf("clear active session: %w", err)
	}
	res, err := tx.Exec("DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// AppendMessage adds a message to a session. A zero timestamp defaults
// to now.
func (s *SqlStore) AppendMessage(sessionID string, m *Message) error {
	created := m.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	ts := created.Format(timeFormat)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow("SELECT COUNT(*) FROM sessions WHERE id = ?", sessionID).Scan(&exists); err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}
	if _, err := tx.Exec(
		"INSERT INTO messages(session_id, role, content, created_at) VALUES(?, ?, ?, ?)",
		sessionID, m.Role, m.Content, ts,
	); err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	if _, err := tx.Exec("UPDATE sessions SET updated_at = ? WHERE id = ?", ts, sessionID); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return tx.Commit()
}

// ListMessages returns a session's messages in insertion order.
func (s *SqlStore) ListMessages(sessionID string) ([]Message, error) {
	rows, err := s.db.Query(
		"SELECT role, content, created_at FROM messages WHERE session_id = ? ORDER BY id",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		var created string
		if err := rows.Scan(&m.Role, &m.Content, &created); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.CreatedAt = parseTime(created)
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// ActiveSession returns the active session ID, or "" when none is set.
func (s *SqlStore) ActiveSession() (string, error) {
	var id sql.NullString
	err := s.db.QueryRow("SELECT session_id FROM active_session WHERE id = 1").Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get active session: %w", err)
	}
	if !id.Valid {
		return "", nil
	}
	return id.String, nil
}

// SetActiveSession records the active session pointer. An empty ID
// clears it.
func (s *SqlStore) SetActiveSession(id string) error {
	var val any
	if id != "" {
		val = id
	}
	_, err := s.db.Exec(
		"INSERT INTO active_session(id, session_id) VALUES(1, ?) ON CONFLICT(id) DO UPDATE SET session_id = excluded.session_id",
		val,
	)
	if err != nil {
		return fmt.Errorf("set active session: %w", err)
	}
	return nil
}
