package core

import (
	"context"
	"errors"

	"github.com/phen19/projeto12-batepapo-uol-api/internal/store"
)

// ChatLog is the ordered message log. Posting and editing require the
// actor to be present in the registry.
type ChatLog struct {
	store    store.MessageStore
	registry *Registry
	journal  *journal
	opts     Options
}

// NewChatLog creates a log over st that checks presence against registry.
func NewChatLog(st store.MessageStore, registry *Registry, opts Options) *ChatLog {
	opts = opts.withDefaults()
	return &ChatLog{
		store:    st,
		registry: registry,
		journal:  &journal{store: st, clock: opts.Clock},
		opts:     opts,
	}
}

// Post appends a public or private message written by author.
func (l *ChatLog) Post(ctx context.Context, author string, in MessageInput) (*store.Message, error) {
	in = in.sanitized()
	if err := checkStruct(in); err != nil {
		return nil, err
	}

	ctx, cancel := l.opts.opContext(ctx)
	defer cancel()

	present, err := l.registry.isPresent(ctx, author)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, coreError(ErrCodeForbidden, ErrAuthorNotPresent)
	}

	msg, err := l.journal.append(ctx, &store.Message{
		From: author,
		To:   in.To,
		Text: in.Text,
		Kind: in.Kind,
	})
	if err != nil {
		return nil, storeError("insert message", err)
	}
	return msg, nil
}

// Edit overwrites to, text, kind and time of message id and re-stamps its author to editor.
// Any present participant may edit; authorship is only checked on Delete.
func (l *ChatLog) Edit(ctx context.Context, id, editor string, in MessageInput) (*store.Message, error) {
	in = in.sanitized()
	if err := checkStruct(in); err != nil {
		return nil, err
	}

	ctx, cancel := l.opts.opContext(ctx)
	defer cancel()

	if _, err := l.get(ctx, id); err != nil {
		return nil, err
	}

	present, err := l.registry.isPresent(ctx, editor)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, coreError(ErrCodeForbidden, ErrAuthorNotPresent)
	}

	msg := &store.Message{
		ID:   id,
		From: editor,
		To:   in.To,
		Text: in.Text,
		Kind: in.Kind,
		Time: l.journal.stamp(),
	}
	if err := l.store.UpdateMessage(ctx, msg); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, coreError(ErrCodeNotFound, ErrMessageNotFound)
		}
		return nil, storeError("update message", err)
	}
	return msg, nil
}

// Delete removes message id if requester is its author.
func (l *ChatLog) Delete(ctx context.Context, id, requester string) error {
	ctx, cancel := l.opts.opContext(ctx)
	defer cancel()

	msg, err := l.get(ctx, id)
	if err != nil {
		return err
	}
	if msg.From != requester {
		return coreError(ErrCodeForbidden, ErrNotAuthor)
	}

	if err := l.store.DeleteMessage(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return coreError(ErrCodeNotFound, ErrMessageNotFound)
		}
		return storeError("delete message", err)
	}
	return nil
}

// All returns the whole log in creation order.
func (l *ChatLog) All(ctx context.Context) ([]*store.Message, error) {
	ctx, cancel := l.opts.opContext(ctx)
	defer cancel()

	messages, err := l.store.ListMessages(ctx)
	if err != nil {
		return nil, storeError("list messages", err)
	}
	return messages, nil
}

// Visible returns the part of the log viewer may read, keeping the last limit items when limit > 0.
func (l *ChatLog) Visible(ctx context.Context, viewer string, limit int) ([]*store.Message, error) {
	messages, err := l.All(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(messages, viewer, limit), nil
}

func (l *ChatLog) get(ctx context.Context, id string) (*store.Message, error) {
	msg, err := l.store.GetMessage(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, coreError(ErrCodeNotFound, ErrMessageNotFound)
		}
		return nil, storeError("find message", err)
	}
	return msg, nil
}
