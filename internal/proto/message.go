package proto

import (
	"github.com/phen19/projeto12-batepapo-uol-api/internal/store"
)

// HeaderUser carries the acting participant's name on every request.
const HeaderUser = "User"

// ParticipantRequest is the body of POST /participants.
type ParticipantRequest struct {
	Name string `json:"name"`
}

// MessageRequest is the body of POST /messages and PUT /messages/:id.
// from and time are ignored; the server assigns them.
type MessageRequest struct {
	To   string `json:"to"`
	Text string `json:"text"`
	Type string `json:"type"`
}

// Participant is a present participant as returned by GET /participants.
type Participant struct {
	Name       string `json:"name"`
	LastStatus int64  `json:"lastStatus"`
}

// Message is a log entry as returned by GET /messages.
type Message struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
	Type string `json:"type"`
	Time string `json:"time"`
}

// FromParticipant converts a stored participant to its wire form.
func FromParticipant(p *store.Participant) Participant {
	return Participant{Name: p.Name, LastStatus: p.LastSeen.UnixMilli()}
}

// FromMessage converts a stored message to its wire form.
func FromMessage(m *store.Message) Message {
	return Message{
		ID:   m.ID,
		From: m.From,
		To:   m.To,
		Text: m.Text,
		Type: string(m.Kind),
		Time: m.Time,
	}
}
