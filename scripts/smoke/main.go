package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/phen19/projeto12-batepapo-uol-api/internal/proto"
)

func main() {
	addr := flag.String("addr", "http://localhost:5000", "server base URL")
	user := flag.String("user", "tester", "participant name to join with")
	to := flag.String("to", "Todos", "message recipient")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := &http.Client{}

	mustDo := func(method, path string, body any, want int) []byte {
		var reader io.Reader
		if body != nil {
			raw, err := json.Marshal(body)
			if err != nil {
				log.Fatalf("marshal: %v", err)
			}
			reader = bytes.NewReader(raw)
		}
		req, err := http.NewRequestWithContext(ctx, method, *addr+path, reader)
		if err != nil {
			log.Fatalf("request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(proto.HeaderUser, *user)

		resp, err := client.Do(req)
		if err != nil {
			log.Fatalf("%s %s: %v", method, path, err)
		}
		defer resp.Body.Close()

		data, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != want {
			log.Fatalf("%s %s: expected %d, got %d: %s", method, path, want, resp.StatusCode, data)
		}
		return data
	}

	mustDo(http.MethodPost, "/participants", proto.ParticipantRequest{Name: *user}, http.StatusCreated)
	mustDo(http.MethodPost, "/messages", proto.MessageRequest{To: *to, Text: *text, Type: "message"}, http.StatusCreated)
	mustDo(http.MethodPost, "/status", nil, http.StatusOK)

	var messages []proto.Message
	if err := json.Unmarshal(mustDo(http.MethodGet, "/messages?limit=5", nil, http.StatusOK), &messages); err != nil {
		log.Fatalf("decode messages: %v", err)
	}

	for _, m := range messages {
		fmt.Printf("(%s) %s -> %s [%s]: %s\n", m.Time, m.From, m.To, m.Type, m.Text)
	}
	fmt.Println("Smoke test completed.")
}
