// Package memory provides a process-local store.Store guarded by a single mutex.
// Data does not survive restarts.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/phen19/projeto12-batepapo-uol-api/internal/store"
)

// MemoryStore implements store.Store in memory.
type MemoryStore struct {
	mu           sync.RWMutex
	participants []*store.Participant
	messages     []*store.Message
}

// New creates an empty in-memory store.
func New() *MemoryStore {
	return &MemoryStore{}
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) participantIndex(name string) int {
	for i, p := range s.participants {
		if p.Name == name {
			return i
		}
	}
	return -1
}

func (s *MemoryStore) messageIndex(id string) int {
	for i, m := range s.messages {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// GetParticipant retrieves a participant by name.
func (s *MemoryStore) GetParticipant(_ context.Context, name string) (*store.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.participantIndex(name)
	if i < 0 {
		return nil, fmt.Errorf("participant %q: %w", name, store.ErrNotFound)
	}
	p := *s.participants[i]
	return &p, nil
}

// CreateParticipant inserts a participant under the write lock.
func (s *MemoryStore) CreateParticipant(_ context.Context, p *store.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.participantIndex(p.Name) >= 0 {
		return fmt.Errorf("participant %q: %w", p.Name, store.ErrDuplicate)
	}
	cp := *p
	s.participants = append(s.participants, &cp)
	return nil
}

// TouchParticipant updates last_seen of an existing participant.
func (s *MemoryStore) TouchParticipant(_ context.Context, name string, lastSeen time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.participantIndex(name)
	if i < 0 {
		return fmt.Errorf("participant %q: %w", name, store.ErrNotFound)
	}
	s.participants[i].LastSeen = lastSeen
	return nil
}

// DeleteParticipant removes a participant unconditionally.
func (s *MemoryStore) DeleteParticipant(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.participantIndex(name)
	if i < 0 {
		return fmt.Errorf("participant %q: %w", name, store.ErrNotFound)
	}
	s.participants = append(s.participants[:i], s.participants[i+1:]...)
	return nil
}

// DeleteStaleParticipant removes a participant only if last_seen is not after cutoff.
func (s *MemoryStore) DeleteStaleParticipant(_ context.Context, name string, cutoff time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.participantIndex(name)
	if i < 0 || s.participants[i].LastSeen.After(cutoff) {
		return false, nil
	}
	s.participants = append(s.participants[:i], s.participants[i+1:]...)
	return true, nil
}

// ListParticipants returns copies of all participants in insertion order.
func (s *MemoryStore) ListParticipants(_ context.Context) ([]*store.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*store.Participant, 0, len(s.participants))
	for _, p := range s.participants {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

// SaveMessage appends a message to the log.
func (s *MemoryStore) SaveMessage(_ context.Context, msg *store.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.messageIndex(msg.ID) >= 0 {
		return fmt.Errorf("message %q: %w", msg.ID, store.ErrDuplicate)
	}
	cp := *msg
	s.messages = append(s.messages, &cp)
	return nil
}

// GetMessage retrieves a message by id.
func (s *MemoryStore) GetMessage(_ context.Context, id string) (*store.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.messageIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("message %q: %w", id, store.ErrNotFound)
	}
	m := *s.messages[i]
	return &m, nil
}

// UpdateMessage overwrites an existing message in place, keeping its position.
func (s *MemoryStore) UpdateMessage(_ context.Context, msg *store.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.messageIndex(msg.ID)
	if i < 0 {
		return fmt.Errorf("message %q: %w", msg.ID, store.ErrNotFound)
	}
	cp := *msg
	s.messages[i] = &cp
	return nil
}

// DeleteMessage removes a message by id.
func (s *MemoryStore) DeleteMessage(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.messageIndex(id)
	if i < 0 {
		return fmt.Errorf("message %q: %w", id, store.ErrNotFound)
	}
	s.messages = append(s.messages[:i], s.messages[i+1:]...)
	return nil
}

// ListMessages returns copies of every message in insertion order.
func (s *MemoryStore) ListMessages(_ context.Context) ([]*store.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*store.Message, 0, len(s.messages))
	for _, m := range s.messages {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}
