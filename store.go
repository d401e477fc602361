package blog

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Subscriber is one newsletter signup.
type Subscriber struct {
	Email     string
	Token     string // unsubscribe token
	Source    string // page path the form was posted from
	CreatedAt time.Time
}

// Store wraps a SQLite database holding newsletter subscribers. Post content
// lives in the CMS; this is the only state the blog owns.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers proceed during a write; busy_timeout makes writers wait
	// instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS subscribers (
    email TEXT PRIMARY KEY,
    token TEXT NOT NULL UNIQUE,
    source TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);
`)
	return err
}

// Subscribe adds email. It reports false when the address was already
// subscribed. Emails are stored lowercased.
func (s *Store) Subscribe(email, source string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, errors.New("blog: empty email")
	}
	res, err := s.db.Exec(`INSERT INTO subscribers (email, token, source, created_at) VALUES (?, ?, ?, ?) ON CONFLICT(email) DO NOTHING`,
		email, uuid.NewString(), source, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// GetSubscriber returns the subscriber with email, or sql.ErrNoRows.
func (s *Store) GetSubscriber(email string) (Subscriber, error) {
	var sub Subscriber
	var created string
	err := s.db.QueryRow(`SELECT email, token, source, created_at FROM subscribers WHERE email = ?`, normalizeEmail(email)).
		Scan(&sub.Email, &sub.Token, &sub.Source, &created)
	if err != nil {
		return Subscriber{}, err
	}
	sub.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return sub, nil
}

// Unsubscribe removes the subscriber holding token. It reports whether one
// was removed.
func (s *Store) Unsubscribe(token string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM subscribers WHERE token = ?`, token)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountSubscribers returns the number of subscribers.
func (s *Store) CountSubscribers() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM subscribers`).Scan(&n)
	return n, err
}

// ListSubscribers returns every subscriber, newest first.
func (s *Store) ListSubscribers() ([]Subscriber, error) {
	rows, err := s.db.Query(`SELECT email, token, source, created_at FROM subscribers ORDER BY created_at DESC, email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []Subscriber
	for rows.Next() {
		var sub Subscriber
		var created string
		if err := rows.Scan(&sub.Email, &sub.Token, &sub.Source, &created); err != nil {
			return nil, err
		}
		sub.CreatedAt, _ = time.Parse(time.RFC3339, created)
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
