// Package session manages chat sessions: an explicit list of stored
// conversations with one active session, capped at MaxSessions.
package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"echobot/internal/store"
)

// MaxSessions caps how many chat sessions can exist at once.
const MaxSessions = 5

// DefaultName is the name given to sessions before auto-titling.
const DefaultName = "New Chat"

// autoTitleLimit is where auto-generated titles get truncated.
const autoTitleLimit = 30

// ErrLimitReached is returned by Create when MaxSessions exist already.
var ErrLimitReached = fmt.Errorf("max sessions (%d) reached, delete one first", MaxSessions)

// Manager coordinates session state on top of a store.
type Manager struct {
	store  store.Store
	logger *slog.Logger
	newID  func() string
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithIDGenerator overrides session ID generation. Tests use this for
// deterministic IDs.
func WithIDGenerator(f func() string) Option {
	return func(m *Manager) { m.newID = f }
}

// NewManager returns a Manager backed by s.
func NewManager(s store.Store, opts ...Option) *Manager {
	m := &Manager{
		store:  s,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a new session and makes it active. Fails with
// ErrLimitReached when MaxSessions already exist.
func (m *Manager) Create() (*store.Session, error) {
	sessions, err := m.store.ListSessions()
	if err != nil {
		return nil, err
	}
	if len(sessions) >= MaxSessions {
		return nil, ErrLimitReached
	}

	sess := &store.Session{ID: m.newID(), Name: DefaultName}
	if err := m.store.CreateSession(sess); err != nil {
		return nil, err
	}
	if err := m.store.SetActiveSession(sess.ID); err != nil {
		return nil, err
	}
	m.logger.Debug("session created", "id", sess.ID)
	return m.store.GetSession(sess.ID)
}

// Active returns the active session, creating one if none exists. If the
// active pointer is stale it falls back to the first stored session.
func (m *Manager) Active() (*store.Session, error) {
	id, err := m.store.ActiveSession()
	if err != nil {
		return nil, err
	}
	if id != "" {
		sess, err := m.store.GetSession(id)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}

	sessions, err := m.store.ListSessions()
	if err != nil {
		return nil, err
	}
	if len(sessions) > 0 {
		if err := m.store.SetActiveSession(sessions[0].ID); err != nil {
			return nil, err
		}
		return sessions[0], nil
	}
	return m.Create()
}

// Switch makes an existing session active.
func (m *Manager) Switch(id string) error {
	if _, err := m.store.GetSession(id); err != nil {
		return err
	}
	return m.store.SetActiveSession(id)
}

// Rename changes a session's name.
func (m *Manager) Rename(id, name string) error {
	return m.store.RenameSession(id, name)
}

// Delete removes a session. If it was active, the first remaining
// session becomes active (or none).
func (m *Manager) Delete(id string) error {
	active, err := m.store.ActiveSession()
	if err != nil {
		return err
	}
	if err := m.store.DeleteSession(id); err != nil {
		return err
	}
	if active != id {
		return nil
	}
	sessions, err := m.store.ListSessions()
	if err != nil {
		return err
	}
	if len(sessions) > 0 {
		return m.store.SetActiveSession(sessions[0].ID)
	}
	return nil
}

// List returns all sessions in creation order.
func (m *Manager) List() ([]*store.Session, error) {
	return m.store.ListSessions()
}

// Append records a chat turn in the active session. The first user
// message auto-titles a session still carrying the default name.
func (m *Manager) Append(role, content string) error {
	sess, err := m.Active()
	if err != nil {
		return err
	}
	if err := m.store.AppendMessage(sess.ID, &store.Message{Role: role, Content: content}); err != nil {
		return err
	}
	if role == "user" && sess.Name == DefaultName {
		return m.store.RenameSession(sess.ID, autoTitle(content))
	}
	return nil
}

// History returns the active session's messages.
func (m *Manager) History() ([]store.Message, error) {
	sess, err := m.Active()
	if err != nil {
		return nil, err
	}
	return m.store.ListMessages(sess.ID)
}

// autoTitle derives a session title from the first user message:
// the first 30 characters, with "..." appended when truncated.
func autoTitle(content string) string {
	if content == "" {
		return "Chat"
	}
	runes := []rune(content)
	if len(runes) <= autoTitleLimit {
		return content
	}
	return string(runes[:autoTitleLimit]) + "..."
}
