package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"github.com/phen19/projeto12-batepapo-uol-api/internal/store"
	"github.com/phen19/projeto12-batepapo-uol-api/internal/store/memory"
)

var errInjected = errors.New("injected failure")

// faultyStore wraps a store and lets tests intercept selected calls.
type faultyStore struct {
	store.Store
	saveMessage          func(msg *store.Message) error
	deleteStale          func(name string) error
	afterListParticipant func()
}

func (f *faultyStore) SaveMessage(ctx context.Context, msg *store.Message) error {
	if f.saveMessage != nil {
		if err := f.saveMessage(msg); err != nil {
			return err
		}
	}
	return f.Store.SaveMessage(ctx, msg)
}

func (f *faultyStore) DeleteStaleParticipant(ctx context.Context, name string, cutoff time.Time) (bool, error) {
	if f.deleteStale != nil {
		if err := f.deleteStale(name); err != nil {
			return false, err
		}
	}
	return f.Store.DeleteStaleParticipant(ctx, name, cutoff)
}

func (f *faultyStore) ListParticipants(ctx context.Context) ([]*store.Participant, error) {
	participants, err := f.Store.ListParticipants(ctx)
	if err == nil && f.afterListParticipant != nil {
		f.afterListParticipant()
	}
	return participants, err
}

type fixture struct {
	store    *faultyStore
	clock    *clock.Mock
	registry *Registry
	log      *ChatLog
	reaper   *Reaper
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := &faultyStore{Store: memory.New()}
	mock := clock.NewMock()
	mock.Set(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	opts := Options{Clock: mock, StoreTimeout: time.Second}
	registry := NewRegistry(st, opts)
	logger := zerolog.Nop()

	return &fixture{
		store:    st,
		clock:    mock,
		registry: registry,
		log:      NewChatLog(st, registry, opts),
		reaper:   NewReaper(registry, ReaperConfig{Interval: 15 * time.Second, StaleAfter: 10 * time.Second}, &logger),
	}
}

func names(participants []*store.Participant) []string {
	out := make([]string, 0, len(participants))
	for _, p := range participants {
		out = append(out, p.Name)
	}
	return out
}
