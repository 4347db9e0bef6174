package core

import "github.com/phen19/projeto12-batepapo-uol-api/internal/store"

// EventKind is a presence change announced in the log.
type EventKind int

const (
	// EventUserJoined announces a participant entering the room.
	EventUserJoined EventKind = iota
	// EventUserLeft announces a participant evicted by the reaper.
	EventUserLeft
)

func (k EventKind) String() string {
	switch k {
	case EventUserJoined:
		return "user_joined"
	case EventUserLeft:
		return "user_left"
	default:
		return "unknown"
	}
}

const (
	textEntered = "entered the room"
	textLeft    = "left the room"
)

// statusMessage synthesizes the broadcast status message for a presence event.
// ID and Time are assigned on append.
func statusMessage(kind EventKind, name string) *store.Message {
	text := textEntered
	if kind == EventUserLeft {
		text = textLeft
	}
	return &store.Message{
		From: name,
		To:   store.Broadcast,
		Text: text,
		Kind: store.KindStatus,
	}
}
