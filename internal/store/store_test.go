package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var (
	_ Store = (*SqlStore)(nil)
	_ Store = (*MemStore)(nil)
)

// openTestStore opens a SQLite store under a temp dir.
func openTestStore(t *testing.T) *SqlStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), ".echobot", "echobot.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// stores returns both implementations for interface-level tests.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"sqlite": openTestStore(t),
		"memory": NewMemStore(),
	}
}

func TestSessionLifecycle(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.CreateSession(&Session{ID: "s1", Name: "New Chat"}); err != nil {
				t.Fatal(err)
			}

			got, err := s.GetSession("s1")
			if err != nil {
				t.Fatal(err)
			}
			if got.Name != "New Chat" {
				t.Errorf("Name = %q", got.Name)
			}
			if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
				t.Errorf("timestamps not defaulted: %+v", got)
			}

			if err := s.RenameSession("s1", "flaky tests in 2.12"); err != nil {
				t.Fatal(err)
			}
			got, err = s.GetSession("s1")
			if err != nil {
				t.Fatal(err)
			}
			if got.Name != "flaky tests in 2.12" {
				t.Errorf("Name after rename = %q", got.Name)
			}

			if err := s.DeleteSession("s1"); err != nil {
				t.Fatal(err)
			}
			if _, err := s.GetSession("s1"); !errors.Is(err, ErrNotFound) {
				t.Errorf("GetSession after delete = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestListSessionsOrder(t *testing.T) {
	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for i, id := range []string{"a", "b", "c"} {
				err := s.CreateSession(&Session{
					ID:        id,
					Name:      "chat " + id,
					CreatedAt: base.Add(time.Duration(i) * time.Minute),
				})
				if err != nil {
					t.Fatal(err)
				}
			}

			sessions, err := s.ListSessions()
			if err != nil {
				t.Fatal(err)
			}
			var ids []string
			for _, sess := range sessions {
				ids = append(ids, sess.ID)
			}
			if diff := cmp.Diff([]string{"a", "b", "c"}, ids); diff != "" {
				t.Errorf("session order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMessages(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.CreateSession(&Session{ID: "s1", Name: "New Chat"}); err != nil {
				t.Fatal(err)
			}
			turns := []Message{
				{Role: "user", Content: "test report for acm in release 2.12"},
				{Role: "assistant", Content: "Pass rate: 80%"},
			}
			for i := range turns {
				if err := s.AppendMessage("s1", &turns[i]); err != nil {
					t.Fatal(err)
				}
			}

			got, err := s.ListMessages("s1")
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(turns, got, cmpopts.IgnoreFields(Message{}, "CreatedAt")); diff != "" {
				t.Errorf("messages mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAppendMessageUnknownSession(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			err := s.AppendMessage("missing", &Message{Role: "user", Content: "hi"})
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestDeleteSessionRemovesMessages(t *testing.T) {
	s := openTestStore(t)
	if err := s.CreateSession(&Session{ID: "s1", Name: "New Chat"}); err != nil {
		t.Fatal(err)
	}
	if err := s.AppendMessage("s1", &Message{Role: "user", Content: "hello"}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteSession("s1"); err != nil {
		t.Fatal(err)
	}

	msgs, err := s.ListMessages("s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 0 {
		t.Errorf("messages after delete = %d, want 0", len(msgs))
	}
}

func TestActiveSessionPointer(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			active, err := s.ActiveSession()
			if err != nil {
				t.Fatal(err)
			}
			if active != "" {
				t.Errorf("initial active = %q, want empty", active)
			}

			if err := s.CreateSession(&Session{ID: "s1", Name: "New Chat"}); err != nil {
				t.Fatal(err)
			}
			if err := s.SetActiveSession("s1"); err != nil {
				t.Fatal(err)
			}
			active, err = s.ActiveSession()
			if err != nil {
				t.Fatal(err)
			}
			if active != "s1" {
				t.Errorf("active = %q, want s1", active)
			}

			// Deleting the active session clears the pointer.
			if err := s.DeleteSession("s1"); err != nil {
				t.Fatal(err)
			}
			active, err = s.ActiveSession()
			if err != nil {
				t.Fatal(err)
			}
			if active != "" {
				t.Errorf("active after delete = %q, want empty", active)
			}
		})
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "echobot.db")
	s1, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s1.CreateSession(&Session{ID: "s1", Name: "New Chat"}); err != nil {
		t.Fatal(err)
	}
	if err := s1.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopening migrates nothing and keeps data.
	s2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	if _, err := s2.GetSession("s1"); err != nil {
		t.Errorf("GetSession after reopen: %v", err)
	}
}
