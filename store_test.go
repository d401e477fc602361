package blog

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "test_blog.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
}

func TestNewStoreInMemory(t *testing.T) {
	s, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer s.Close()

	if _, err := s.Subscribe("a@example.com", "/"); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	n, err := s.CountSubscribers()
	if err != nil {
		t.Fatalf("CountSubscribers failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 subscriber, got %d", n)
	}
}

func TestSubscribeAndGet(t *testing.T) {
	s := setupTestStore(t)

	created, err := s.Subscribe("  Leitor@Example.COM ", "/blog/")
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if !created {
		t.Error("first signup should create a subscriber")
	}

	sub, err := s.GetSubscriber("leitor@example.com")
	if err != nil {
		t.Fatalf("GetSubscriber failed: %v", err)
	}
	if sub.Email != "leitor@example.com" {
		t.Errorf("expected lowercased email, got %q", sub.Email)
	}
	if sub.Source != "/blog/" {
		t.Errorf("expected source /blog/, got %q", sub.Source)
	}
	if sub.Token == "" {
		t.Error("token should be set")
	}
	if sub.CreatedAt.IsZero() {
		t.Error("created_at should be set")
	}
}

func TestSubscribeDuplicate(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.Subscribe("leitor@example.com", "/"); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	first, _ := s.GetSubscriber("leitor@example.com")

	created, err := s.Subscribe("LEITOR@example.com", "/blog/")
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if created {
		t.Error("duplicate signup should not create a subscriber")
	}

	again, _ := s.GetSubscriber("leitor@example.com")
	if again.Token != first.Token || again.Source != "/" {
		t.Errorf("duplicate signup must keep the original row, got %+v", again)
	}
}

func TestSubscribeEmpty(t *testing.T) {
	s := setupTestStore(t)
	if _, err := s.Subscribe("   ", "/"); err == nil {
		t.Error("expected error for empty email")
	}
}

func TestGetSubscriberNotFound(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.GetSubscriber("ninguem@example.com")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestUnsubscribe(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.Subscribe("leitor@example.com", "/"); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	sub, _ := s.GetSubscriber("leitor@example.com")

	removed, err := s.Unsubscribe(sub.Token)
	if err != nil {
		t.Fatalf("Unsubscribe failed: %v", err)
	}
	if !removed {
		t.Error("expected subscriber to be removed")
	}

	removed, err = s.Unsubscribe(sub.Token)
	if err != nil {
		t.Fatalf("Unsubscribe failed: %v", err)
	}
	if removed {
		t.Error("second unsubscribe should report nothing removed")
	}
}

func TestListSubscribers(t *testing.T) {
	s := setupTestStore(t)

	for _, email := range []string{"b@example.com", "a@example.com", "c@example.com"} {
		if _, err := s.Subscribe(email, "/"); err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
	}

	subs, err := s.ListSubscribers()
	if err != nil {
		t.Fatalf("ListSubscribers failed: %v", err)
	}
	if len(subs) != 3 {
		t.Fatalf("expected 3 subscribers, got %d", len(subs))
	}
	tokens := map[string]bool{}
	for _, sub := range subs {
		tokens[sub.Token] = true
	}
	if len(tokens) != 3 {
		t.Error("tokens should be unique")
	}

	n, err := s.CountSubscribers()
	if err != nil {
		t.Fatalf("CountSubscribers failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected count 3, got %d", n)
	}
}
