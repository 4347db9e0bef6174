package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/phen19/projeto12-batepapo-uol-api/internal/store"
)

// Schema creates the participants and messages tables.
const Schema = `
CREATE TABLE IF NOT EXISTS participants (
	seq       INTEGER PRIMARY KEY AUTOINCREMENT,
	name      TEXT NOT NULL UNIQUE,
	last_seen INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	seq       INTEGER PRIMARY KEY AUTOINCREMENT,
	id        TEXT NOT NULL UNIQUE,
	from_name TEXT NOT NULL,
	to_name   TEXT NOT NULL,
	text      TEXT NOT NULL,
	kind      TEXT NOT NULL,
	time      TEXT NOT NULL
);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite store and ensures the schema exists.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, func(db *sql.DB) error {
		_, err := db.Exec(Schema)
		return err
	})
}

// NewWithSetup creates a new SQLite store and runs a setup function.
// Useful for tests to apply schema or seed rows.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection; it also keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// ==== ParticipantStore implementation ====

// GetParticipant retrieves a participant by name.
func (s *SQLiteStore) GetParticipant(ctx context.Context, name string) (*store.Participant, error) {
	query := `
		SELECT name, last_seen
		FROM participants
		WHERE name = ?
	`
	var (
		p        store.Participant
		lastSeen int64
	)
	err := s.db.QueryRowContext(ctx, query, name).Scan(&p.Name, &lastSeen)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("participant %q: %w", name, store.ErrNotFound)
		}
		return nil, fmt.Errorf("query participant: %w", err)
	}
	p.LastSeen = time.UnixMilli(lastSeen)

	return &p, nil
}

// CreateParticipant inserts a participant. The UNIQUE constraint on name makes the
// existence check and the insert a single atomic step.
func (s *SQLiteStore) CreateParticipant(ctx context.Context, p *store.Participant) error {
	query := `
		INSERT INTO participants (name, last_seen)
		VALUES (?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query, p.Name, p.LastSeen.UnixMilli()); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("participant %q: %w", p.Name, store.ErrDuplicate)
		}
		return fmt.Errorf("insert participant: %w", err)
	}

	return nil
}

// TouchParticipant updates last_seen of an existing participant.
func (s *SQLiteStore) TouchParticipant(ctx context.Context, name string, lastSeen time.Time) error {
	query := `
		UPDATE participants
		SET last_seen = ?
		WHERE name = ?
	`
	result, err := s.db.ExecContext(ctx, query, lastSeen.UnixMilli(), name)
	if err != nil {
		return fmt.Errorf("update participant: %w", err)
	}

	return expectAffected(result, fmt.Sprintf("participant %q", name))
}

// DeleteParticipant removes a participant unconditionally.
func (s *SQLiteStore) DeleteParticipant(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM participants WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}

	return expectAffected(result, fmt.Sprintf("participant %q", name))
}

// DeleteStaleParticipant removes a participant only if last_seen <= cutoff.
func (s *SQLiteStore) DeleteStaleParticipant(ctx context.Context, name string, cutoff time.Time) (bool, error) {
	query := `
		DELETE FROM participants
		WHERE name = ? AND last_seen <= ?
	`
	result, err := s.db.ExecContext(ctx, query, name, cutoff.UnixMilli())
	if err != nil {
		return false, fmt.Errorf("delete stale participant: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	return n > 0, nil
}

// ListParticipants returns all participants in insertion order.
func (s *SQLiteStore) ListParticipants(ctx context.Context) ([]*store.Participant, error) {
	query := `
		SELECT name, last_seen
		FROM participants
		ORDER BY seq ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query participants: %w", err)
	}
	defer rows.Close()

	participants := make([]*store.Participant, 0)
	for rows.Next() {
		var (
			p        store.Participant
			lastSeen int64
		)
		if err := rows.Scan(&p.Name, &lastSeen); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		p.LastSeen = time.UnixMilli(lastSeen)
		participants = append(participants, &p)
	}

	return participants, rows.Err()
}

// ==== MessageStore implementation ====

// SaveMessage appends a message to the log.
func (s *SQLiteStore) SaveMessage(ctx context.Context, msg *store.Message) error {
	query := `
		INSERT INTO messages (id, from_name, to_name, text, kind, time)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query, msg.ID, msg.From, msg.To, msg.Text, string(msg.Kind), msg.Time)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("message %q: %w", msg.ID, store.ErrDuplicate)
		}
		return fmt.Errorf("insert message: %w", err)
	}

	return nil
}

// GetMessage retrieves a message by id.
func (s *SQLiteStore) GetMessage(ctx context.Context, id string) (*store.Message, error) {
	query := `
		SELECT id, from_name, to_name, text, kind, time
		FROM messages
		WHERE id = ?
	`
	var msg store.Message
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&msg.ID,
		&msg.From,
		&msg.To,
		&msg.Text,
		&msg.Kind,
		&msg.Time,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("message %q: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("query message: %w", err)
	}

	return &msg, nil
}

// UpdateMessage overwrites the mutable fields of an existing message.
func (s *SQLiteStore) UpdateMessage(ctx context.Context, msg *store.Message) error {
	query := `
		UPDATE messages
		SET from_name = ?, to_name = ?, text = ?, kind = ?, time = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query, msg.From, msg.To, msg.Text, string(msg.Kind), msg.Time, msg.ID)
	if err != nil {
		return fmt.Errorf("update message: %w", err)
	}

	return expectAffected(result, fmt.Sprintf("message %q", msg.ID))
}

// DeleteMessage removes a message by id.
func (s *SQLiteStore) DeleteMessage(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}

	return expectAffected(result, fmt.Sprintf("message %q", id))
}

// ListMessages returns every message in insertion order.
func (s *SQLiteStore) ListMessages(ctx context.Context) ([]*store.Message, error) {
	query := `
		SELECT id, from_name, to_name, text, kind, time
		FROM messages
		ORDER BY seq ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*store.Message, 0)
	for rows.Next() {
		var msg store.Message
		if err := rows.Scan(&msg.ID, &msg.From, &msg.To, &msg.Text, &msg.Kind, &msg.Time); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, &msg)
	}

	return messages, rows.Err()
}

func expectAffected(result sql.Result, what string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, store.ErrNotFound)
	}
	return nil
}
