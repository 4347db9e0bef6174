package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/phen19/projeto12-batepapo-uol-api/internal/proto"
	"github.com/phen19/projeto12-batepapo-uol-api/internal/store"
)

func TestPrivateMessageVisibility(t *testing.T) {
	s := newTestServer(t, 0)
	s.join(t, "Maria")
	s.join(t, "Bob")
	s.join(t, "Carol")

	s.post(t, "Maria", store.Broadcast, "hi all", string(store.KindPublic))
	s.post(t, "Maria", "Bob", "psst", string(store.KindPrivate))

	tests := []struct {
		viewer    string
		wantPsst  bool
		wantTotal int
	}{
		{viewer: "Maria", wantPsst: true, wantTotal: 5},
		{viewer: "Bob", wantPsst: true, wantTotal: 5},
		{viewer: "Carol", wantPsst: false, wantTotal: 4},
		{viewer: "", wantPsst: false, wantTotal: 4},
	}

	for _, tt := range tests {
		t.Run("viewer="+tt.viewer, func(t *testing.T) {
			msgs := s.messages(t, tt.viewer, "")
			if len(msgs) != tt.wantTotal {
				t.Fatalf("expected %d messages, got %d", tt.wantTotal, len(msgs))
			}
			sawPsst := false
			for _, m := range msgs {
				if m.Text == "psst" {
					sawPsst = true
				}
			}
			if sawPsst != tt.wantPsst {
				t.Errorf("expected private message visible=%v, got %v", tt.wantPsst, sawPsst)
			}
		})
	}
}

func TestPostMessage(t *testing.T) {
	s := newTestServer(t, 0)
	s.join(t, "Maria")

	msg := s.post(t, "Maria", store.Broadcast, "  <b>hello</b>  ", string(store.KindPublic))
	if msg.ID == "" {
		t.Error("expected message id to be assigned")
	}
	if msg.From != "Maria" || msg.Text != "hello" {
		t.Errorf("unexpected message: %+v", msg)
	}

	tests := []struct {
		name   string
		user   string
		body   string
		status int
	}{
		{name: "absent author", user: "Ghost", body: `{"to":"Todos","text":"hi","type":"message"}`, status: http.StatusUnprocessableEntity},
		{name: "missing header", user: "", body: `{"to":"Todos","text":"hi","type":"message"}`, status: http.StatusUnprocessableEntity},
		{name: "status kind", user: "Maria", body: `{"to":"Todos","text":"hi","type":"status"}`, status: http.StatusUnprocessableEntity},
		{name: "empty text", user: "Maria", body: `{"to":"Todos","text":"   ","type":"message"}`, status: http.StatusUnprocessableEntity},
		{name: "malformed", user: "Maria", body: `not json`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.do(t, http.MethodPost, "/messages", tt.user, tt.body)
			if resp.Code != tt.status {
				t.Errorf("expected status %d, got %d: %s", tt.status, resp.Code, resp.Body.String())
			}
		})
	}

	// All violations are reported together
	resp := s.do(t, http.MethodPost, "/messages", "Maria", `{}`)
	var errResp ErrorResponse
	decode(t, resp, &errResp)
	if len(errResp.Details) != 3 {
		t.Errorf("expected 3 validation details, got %v", errResp.Details)
	}
}

func TestListMessagesLimit(t *testing.T) {
	s := newTestServer(t, 0)
	s.join(t, "Maria")

	s.post(t, "Maria", store.Broadcast, "one", string(store.KindPublic))
	s.post(t, "Maria", store.Broadcast, "two", string(store.KindPublic))
	s.post(t, "Maria", store.Broadcast, "three", string(store.KindPublic))

	msgs := s.messages(t, "Maria", "?limit=2")
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Text != "two" || msgs[1].Text != "three" {
		t.Errorf("expected the two most recent messages in order, got %+v", msgs)
	}

	msgs = s.messages(t, "Maria", "?limit=100")
	if len(msgs) != 4 {
		t.Errorf("expected all 4 messages, got %d", len(msgs))
	}

	for _, q := range []string{"?limit=0", "?limit=-1", "?limit=abc"} {
		resp := s.do(t, http.MethodGet, "/messages"+q, "Maria", nil)
		if resp.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: expected status 422, got %d", q, resp.Code)
		}
	}
}

func TestEditMessage(t *testing.T) {
	s := newTestServer(t, 0)
	s.join(t, "Maria")
	s.join(t, "Bob")

	msg := s.post(t, "Maria", store.Broadcast, "hello", string(store.KindPublic))
	s.clock.Add(90 * time.Second)

	body := proto.MessageRequest{To: "Maria", Text: "edited", Type: string(store.KindPrivate)}

	resp := s.do(t, http.MethodPut, "/messages/"+msg.ID, "Bob", body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var edited proto.Message
	decode(t, resp, &edited)
	if edited.ID != msg.ID || edited.From != "Bob" || edited.Text != "edited" {
		t.Errorf("unexpected edited message: %+v", edited)
	}
	if edited.Time != "12:01:30" {
		t.Errorf("expected time '12:01:30', got '%s'", edited.Time)
	}

	resp = s.do(t, http.MethodPut, "/messages/missing", "Bob", body)
	if resp.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for unknown message, got %d", resp.Code)
	}

	resp = s.do(t, http.MethodPut, "/messages/"+msg.ID, "Ghost", body)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected status 422 for absent editor, got %d", resp.Code)
	}

	resp = s.do(t, http.MethodPut, "/messages/"+msg.ID, "Bob", `{"to":"Maria","text":"x","type":"nope"}`)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected status 422 for invalid type, got %d", resp.Code)
	}
}

func TestDeleteMessage(t *testing.T) {
	s := newTestServer(t, 0)
	s.join(t, "Maria")
	s.join(t, "Bob")

	msg := s.post(t, "Maria", store.Broadcast, "hello", string(store.KindPublic))

	resp := s.do(t, http.MethodDelete, "/messages/"+msg.ID, "Bob", nil)
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 for non-author, got %d", resp.Code)
	}

	resp = s.do(t, http.MethodDelete, "/messages/missing", "Maria", nil)
	if resp.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for unknown message, got %d", resp.Code)
	}

	resp = s.do(t, http.MethodDelete, "/messages/"+msg.ID, "Maria", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	if _, err := s.store.GetMessage(context.Background(), msg.ID); err == nil {
		t.Error("expected message to be gone from the store")
	}
}

func TestStoreFailureIsOpaque(t *testing.T) {
	s := newTestServer(t, 0)
	s.join(t, "Maria")

	if err := s.store.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}

	resp := s.do(t, http.MethodGet, "/participants", "", nil)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.Code)
	}
	var errResp ErrorResponse
	decode(t, resp, &errResp)
	if errResp.Error != "internal server error" {
		t.Errorf("expected generic error body, got %q", errResp.Error)
	}
}
