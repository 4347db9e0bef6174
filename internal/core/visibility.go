package core

import (
	"github.com/samber/lo"

	"github.com/phen19/projeto12-batepapo-uol-api/internal/store"
)

// CanSee reports whether viewer may read msg.
func CanSee(msg *store.Message, viewer string) bool {
	switch msg.Kind {
	case store.KindStatus, store.KindPublic:
		return true
	case store.KindPrivate:
		return viewer == msg.To || viewer == msg.From || msg.To == store.Broadcast
	default:
		return false
	}
}

// Filter projects messages down to what viewer may see, preserving order.
// When limit > 0 only the last limit visible messages are kept.
func Filter(messages []*store.Message, viewer string, limit int) []*store.Message {
	visible := lo.Filter(messages, func(msg *store.Message, _ int) bool {
		return CanSee(msg, viewer)
	})
	if limit > 0 {
		visible = lo.Subset(visible, -limit, uint(limit))
	}
	return visible
}
