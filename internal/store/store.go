package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no record matches the requested key.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// Participant is a named chat actor with a liveness timestamp.
type Participant struct {
	Name     string
	LastSeen time.Time
}

// Kind classifies a message.
type Kind string

const (
	KindStatus  Kind = "status"
	KindPublic  Kind = "message"
	KindPrivate Kind = "private_message"
)

// Broadcast is the recipient meaning "visible to everyone".
const Broadcast = "Todos"

// Message represents a persisted chat event.
type Message struct {
	ID   string
	From string
	To   string
	Text string
	Kind Kind
	Time string
}

// ParticipantStore handles participant persistence, keyed by name.
type ParticipantStore interface {
	// GetParticipant retrieves a participant by name.
	GetParticipant(ctx context.Context, name string) (*Participant, error)

	// CreateParticipant inserts a participant. Returns ErrDuplicate if the name is taken.
	CreateParticipant(ctx context.Context, p *Participant) error

	// TouchParticipant updates last_seen of an existing participant.
	TouchParticipant(ctx context.Context, name string, lastSeen time.Time) error

	// DeleteParticipant removes a participant unconditionally.
	DeleteParticipant(ctx context.Context, name string) error

	// DeleteStaleParticipant removes a participant only if its last_seen is not after cutoff.
	// Reports whether a row was removed.
	DeleteStaleParticipant(ctx context.Context, name string, cutoff time.Time) (bool, error)

	// ListParticipants returns all participants in insertion order.
	ListParticipants(ctx context.Context) ([]*Participant, error)
}

// MessageStore handles message persistence, keyed by id.
type MessageStore interface {
	// SaveMessage appends a message to the log.
	SaveMessage(ctx context.Context, msg *Message) error

	// GetMessage retrieves a message by id.
	GetMessage(ctx context.Context, id string) (*Message, error)

	// UpdateMessage overwrites from/to/text/kind/time of an existing message.
	UpdateMessage(ctx context.Context, msg *Message) error

	// DeleteMessage removes a message by id.
	DeleteMessage(ctx context.Context, id string) error

	// ListMessages returns every message in insertion order.
	ListMessages(ctx context.Context) ([]*Message, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	ParticipantStore
	MessageStore

	// Close closes the underlying database connection.
	Close() error
}
