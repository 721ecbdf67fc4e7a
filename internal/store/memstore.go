package store

import (
	"sync"
	"time"
)

// MemStore is an in-memory Store for tests and ephemeral use.
type MemStore struct {
	mu       sync.Mutex
	sessions []*Session
	messages map[string][]Message
	active   string
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{messages: map[string][]Message{}}
}

// Close is a no-op.
func (m *MemStore) Close() error { return nil }

func (m *MemStore) CreateSession(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	if cp.UpdatedAt.IsZero() {
		cp.UpdatedAt = cp.CreatedAt
	}
	m.sessions = append(m.sessions, &cp)
	return nil
}

func (m *MemStore) GetSession(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemStore) ListSessions() ([]*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Session, len(m.sessions))
	for i, s := range m.sessions {
		cp := *s
		out[i] = &cp
	}
	return out, nil
}

func (m *MemStore) RenameSession(id, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.ID == id {
			s.Name = name
			s.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemStore) DeleteSession(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.sessions {
		if s.ID == id {
			m.sessions = append(m.sessions[:i], m.sessions[i+1:]...)
			delete(m.messages, id)
			if m.active == id {
				m.active = ""
			}
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemStore) AppendMessage(sessionID string, msg *Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sess *Session
	for _, s := range m.sessions {
		if s.ID == sessionID {
			sess = s
			break
		}
	}
	if sess == nil {
		return ErrNotFound
	}
	cp := *msg
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	m.messages[sessionID] = append(m.messages[sessionID], cp)
	sess.UpdatedAt = cp.CreatedAt
	return nil
}

func (m *MemStore) ListMessages(sessionID string) ([]Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := m.messages[sessionID]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (m *MemStore) ActiveSession() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active, nil
}

func (m *MemStore) SetActiveSession(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = id
	return nil
}
