package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"github.com/phen19/projeto12-batepapo-uol-api/internal/config"
	"github.com/phen19/projeto12-batepapo-uol-api/internal/core"
	"github.com/phen19/projeto12-batepapo-uol-api/internal/proto"
	"github.com/phen19/projeto12-batepapo-uol-api/internal/store"
	"github.com/phen19/projeto12-batepapo-uol-api/internal/store/sqlite"
)

var testEpoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type testServer struct {
	handler  http.Handler
	store    store.Store
	clock    *clock.Mock
	registry *core.Registry
}

// createTestStore creates an in-memory SQLite store with schema applied.
func createTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	return st
}

// newTestServer wires a router over a fresh store with a mock clock.
// rateLimit of 0 disables rate limiting.
func newTestServer(t *testing.T, rateLimit int) *testServer {
	t.Helper()

	st := createTestStore(t)
	mock := clock.NewMock()
	mock.Set(testEpoch)

	opts := core.Options{Clock: mock, StoreTimeout: time.Second}
	registry := core.NewRegistry(st, opts)
	chatLog := core.NewChatLog(st, registry, opts)

	disabledLogger := zerolog.New(nil)

	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.RateLimitPerMinute = rateLimit

	server := NewServer(registry, chatLog, &cfg, &disabledLogger)

	return &testServer{
		handler:  server.Handler,
		store:    st,
		clock:    mock,
		registry: registry,
	}
}

// do sends a request as user (empty for no User header) and returns the recorder.
func (s *testServer) do(t *testing.T, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set(proto.HeaderUser, user)
	}

	resp := httptest.NewRecorder()
	s.handler.ServeHTTP(resp, req)
	return resp
}

func (s *testServer) join(t *testing.T, name string) {
	t.Helper()

	resp := s.do(t, http.MethodPost, "/participants", "", proto.ParticipantRequest{Name: name})
	if resp.Code != http.StatusCreated {
		t.Fatalf("join %q: expected status 201, got %d: %s", name, resp.Code, resp.Body.String())
	}
}

func (s *testServer) post(t *testing.T, from, to, text, kind string) proto.Message {
	t.Helper()

	resp := s.do(t, http.MethodPost, "/messages", from, proto.MessageRequest{To: to, Text: text, Type: kind})
	if resp.Code != http.StatusCreated {
		t.Fatalf("post as %q: expected status 201, got %d: %s", from, resp.Code, resp.Body.String())
	}
	var msg proto.Message
	decode(t, resp, &msg)
	return msg
}

func (s *testServer) messages(t *testing.T, viewer, query string) []proto.Message {
	t.Helper()

	resp := s.do(t, http.MethodGet, "/messages"+query, viewer, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("list messages: expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var msgs []proto.Message
	decode(t, resp, &msgs)
	return msgs
}

func decode(t *testing.T, resp *httptest.ResponseRecorder, v any) {
	t.Helper()

	if err := json.Unmarshal(resp.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to unmarshal response: %v (%s)", err, resp.Body.String())
	}
}
