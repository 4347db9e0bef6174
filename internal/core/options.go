package core

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/phen19/projeto12-batepapo-uol-api/internal/store"
	"github.com/phen19/projeto12-batepapo-uol-api/internal/utils"
)

// TimeLayout is the wire format of Message.Time.
const TimeLayout = "15:04:05"

// DefaultStoreTimeout bounds every store call made by the core.
const DefaultStoreTimeout = 5 * time.Second

// Options configures time and store access shared by the registry and the log.
type Options struct {
	Clock        clock.Clock
	StoreTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = clock.New()
	}
	if o.StoreTimeout <= 0 {
		o.StoreTimeout = DefaultStoreTimeout
	}
	return o
}

func (o Options) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, o.StoreTimeout)
}

// journal appends server-stamped messages to the message store.
type journal struct {
	store store.MessageStore
	clock clock.Clock
}

func (j *journal) stamp() string {
	return j.clock.Now().Format(TimeLayout)
}

// append assigns ID and Time, then stores msg at the end of the log.
func (j *journal) append(ctx context.Context, msg *store.Message) (*store.Message, error) {
	msg.ID = utils.NewID()
	msg.Time = j.stamp()
	if err := j.store.SaveMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}
