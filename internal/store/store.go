// Package store persists chat sessions and their messages. The CLI and
// session manager use only the Store interface; the implementation is
// SQLite or in-memory.
package store

import (
	"errors"
	"time"
)

// DefaultDBPath is the default relative path for the SQLite DB.
// Open() creates the parent dir (e.g. .echobot).
const DefaultDBPath = ".echobot/echobot.db"

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("session not found")

// Session is one stored chat conversation.
type Session struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Message is one stored chat turn.
type Message struct {
	Role      string
	Content   string
	CreatedAt time.Time
}

// Store is the persistence facade for chat history.
type Store interface {
	// Sessions
	CreateSession(s *Session) error
	GetSession(id string) (*Session, error)
	ListSessions() ([]*Session, error)
	RenameSession(id, name string) error
	DeleteSession(id string) error
	// Messages
	AppendMessage(sessionID string, m *Message) error
	ListMessages(sessionID string) ([]Message, error)
	// Active session pointer; empty string means none.
	ActiveSession() (string, error)
	SetActiveSession(id string) error

	Close() error
}
