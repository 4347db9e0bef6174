package core

import (
	"context"
	"errors"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/phen19/projeto12-batepapo-uol-api/internal/store"
)

// Registry tracks present participants and announces joins and evictions in the log.
type Registry struct {
	store   store.Store
	journal *journal
	clock   clock.Clock
	opts    Options
}

// NewRegistry creates a registry backed by st.
func NewRegistry(st store.Store, opts Options) *Registry {
	opts = opts.withDefaults()
	return &Registry{
		store:   st,
		journal: &journal{store: st, clock: opts.Clock},
		clock:   opts.Clock,
		opts:    opts,
	}
}

// Join registers name and appends an "entered the room" status message.
// If the announcement cannot be stored the participant is removed again,
// so nobody is present without having been announced.
func (r *Registry) Join(ctx context.Context, name string) (*store.Participant, error) {
	in := ParticipantInput{Name: name}.sanitized()
	if err := checkStruct(in); err != nil {
		return nil, err
	}

	ctx, cancel := r.opts.opContext(ctx)
	defer cancel()

	p := &store.Participant{Name: in.Name, LastSeen: r.clock.Now()}
	if err := r.store.CreateParticipant(ctx, p); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, coreError(ErrCodeConflict, ErrNameTaken)
		}
		return nil, storeError("insert participant", err)
	}

	if _, err := r.journal.append(ctx, statusMessage(EventUserJoined, p.Name)); err != nil {
		rbCtx, rbCancel := r.opts.opContext(context.WithoutCancel(ctx))
		defer rbCancel()
		if rbErr := r.store.DeleteParticipant(rbCtx, p.Name); rbErr != nil {
			return nil, storeError("announce join", errors.Join(err, rbErr))
		}
		return nil, storeError("announce join", err)
	}

	return p, nil
}

// Heartbeat refreshes the liveness timestamp of an existing participant.
func (r *Registry) Heartbeat(ctx context.Context, name string) error {
	ctx, cancel := r.opts.opContext(ctx)
	defer cancel()

	if err := r.store.TouchParticipant(ctx, name, r.clock.Now()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return coreError(ErrCodeNotFound, ErrParticipantNotFound)
		}
		return storeError("update participant", err)
	}
	return nil
}

// List returns every present participant.
func (r *Registry) List(ctx context.Context) ([]*store.Participant, error) {
	ctx, cancel := r.opts.opContext(ctx)
	defer cancel()

	participants, err := r.store.ListParticipants(ctx)
	if err != nil {
		return nil, storeError("list participants", err)
	}
	return participants, nil
}

// Remove deletes a participant without announcing it.
func (r *Registry) Remove(ctx context.Context, name string) error {
	ctx, cancel := r.opts.opContext(ctx)
	defer cancel()

	if err := r.store.DeleteParticipant(ctx, name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return coreError(ErrCodeNotFound, ErrParticipantNotFound)
		}
		return storeError("delete participant", err)
	}
	return nil
}

// IsPresent reports whether name is currently registered.
func (r *Registry) IsPresent(ctx context.Context, name string) (bool, error) {
	ctx, cancel := r.opts.opContext(ctx)
	defer cancel()

	return r.isPresent(ctx, name)
}

func (r *Registry) isPresent(ctx context.Context, name string) (bool, error) {
	if name == "" {
		return false, nil
	}
	if _, err := r.store.GetParticipant(ctx, name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, storeError("find participant", err)
	}
	return true, nil
}

// Evict removes name if it has not been seen after cutoff and announces the departure.
// A heartbeat that lands after cutoff keeps the participant; Evict then reports false.
func (r *Registry) Evict(ctx context.Context, name string, cutoff time.Time) (bool, error) {
	ctx, cancel := r.opts.opContext(ctx)
	defer cancel()

	deleted, err := r.store.DeleteStaleParticipant(ctx, name, cutoff)
	if err != nil {
		return false, storeError("delete stale participant", err)
	}
	if !deleted {
		return false, nil
	}

	if _, err := r.journal.append(ctx, statusMessage(EventUserLeft, name)); err != nil {
		return true, storeError("announce departure", err)
	}
	return true, nil
}
