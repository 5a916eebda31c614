package http

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestWebSocketQuizFlow(t *testing.T) {
	server := newTestServer(t)
	client := newClient(t)
	if status := doJSON(t, client, http.MethodPost, server.URL+"/api/v1/generate", map[string]any{"text": "notes", "mock": true}, nil); status != http.StatusOK {
		t.Fatalf("generate: %d", status)
	}

	base, _ := url.Parse(server.URL)
	header := http.Header{}
	for _, c := range client.Jar.Cookies(base) {
		header.Add("Cookie", c.String())
	}
	u := "ws" + server.URL[len("http"):] + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Expect the current view first.
	payload := readNext(t, conn, "view")
	if qs, _ := payload["questions"].([]any); len(qs) != 5 {
		t.Fatalf("expected 5 questions, got %v", payload["questions"])
	}

	send(t, conn, map[string]any{"type": "select", "payload": map[string]any{"questionId": 1, "key": "b"}})
	payload = readNext(t, conn, "view")
	if payload["state"] != "in_progress" {
		t.Fatalf("expected in_progress, got %v", payload["state"])
	}

	send(t, conn, map[string]any{"type": "submit"})
	payload = readNext(t, conn, "view")
	score, _ := payload["score"].(map[string]any)
	if score == nil || score["correct"] != float64(1) {
		t.Fatalf("expected score with 1 correct, got %v", payload["score"])
	}

	send(t, conn, map[string]any{"type": "select", "payload": map[string]any{"questionId": 2, "key": "a"}})
	payload = readNext(t, conn, "error")
	if payload["message"] == "" {
		t.Fatalf("expected error message for select after submit")
	}

	send(t, conn, map[string]any{"type": "dance"})
	readNext(t, conn, "error")
}

func TestWebSocketWithoutQuiz(t *testing.T) {
	server := newTestServer(t)
	u := "ws" + server.URL[len("http"):] + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	readNext(t, conn, "error")
}

func send(t *testing.T, conn *websocket.Conn, msg map[string]any) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readNext(t *testing.T, conn *websocket.Conn, expect string) map[string]any {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if msg.Type != expect {
		t.Fatalf("expected type %s, got %s (%v)", expect, msg.Type, msg.Payload)
	}
	return msg.Payload
}
